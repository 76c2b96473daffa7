package catalogue

import (
	"net/http"

	"Inventar/pkg/kit"
)

type HTTPDeps struct {
	kit.HTTPDeps

	// Mounts are extra sub-routers served next to /items, keyed by prefix.
	Mounts map[string]http.Handler
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := kit.NewRouter(deps.HTTPDeps)

	r.Get("/healthz", kit.Healthz)
	r.Get("/readyz", kit.Readyz(s.Store.Ping, deps.Log))

	r.Mount("/items", s.Routes())
	for prefix, h := range deps.Mounts {
		r.Mount(prefix, h)
	}

	return r
}
