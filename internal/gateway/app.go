package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"Inventar/pkg/kit"
)

type HTTPDeps = kit.HTTPDeps

type Deps struct {
	CatalogueURL string
	SearchURL    string
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond
)

var readyClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	},
}

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	catalogueProxy, err := NewReverseProxy(deps.CatalogueURL, httpDeps.Log)
	if err != nil {
		return nil, fmt.Errorf("catalogue proxy: %w", err)
	}
	searchProxy, err := NewReverseProxy(deps.SearchURL, httpDeps.Log)
	if err != nil {
		return nil, fmt.Errorf("search proxy: %w", err)
	}

	r := kit.NewRouter(httpDeps)

	r.Get("/healthz", kit.Healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	r.Handle("/items", catalogueProxy)
	r.Handle("/items/*", catalogueProxy)
	r.Handle("/ledger/*", catalogueProxy)
	r.Handle("/profile/*", catalogueProxy)

	r.Handle("/search", searchProxy)
	r.Handle("/search/*", searchProxy)

	return r, nil
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	upstreams := []struct{ name, url string }{
		{"catalogue", deps.CatalogueURL},
		{"search", deps.SearchURL},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for _, u := range upstreams {
			if err := checkReady(ctx, u.url+"/readyz"); err != nil {
				if log != nil {
					log.Warn("readyz failed: "+u.name, zap.Error(err))
				}
				kit.WriteError(w, r, http.StatusServiceUnavailable, u.name+" not ready", nil)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func checkReady(ctx context.Context, url string) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := readyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}

	return nil
}
