package search_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"Inventar/internal/search"
)

func upstream(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestGateway_PassThrough(t *testing.T) {
	var gotPath, gotQuery string
	ts := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"titel":"Lamp","preis":"10","foto":"x.jpg"}],"categories":["Lighting"]}`))
	})

	gw := search.NewGateway(ts.URL+"/", time.Second, zap.NewNop())
	res := gw.Search(context.Background(), "lamp")

	assert.Equal(t, "/search/", gotPath)
	assert.Equal(t, "lamp", gotQuery)
	assert.Equal(t, search.Result{
		Items:      []search.Hit{{Titel: "Lamp", Preis: "10", Foto: "x.jpg"}},
		Categories: []search.Category{"Lighting"},
	}, res)
}

func TestGateway_ZeroValueFields(t *testing.T) {
	ts := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"titel":"Lamp","preis":"10","foto":"x.jpg"}],"categories":[]}`))
	})

	gw := &search.Gateway{BaseURL: ts.URL}
	res, err := gw.Fetch(context.Background(), "lamp")
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	down := &search.Gateway{BaseURL: "http://127.0.0.1:1"}
	assert.Equal(t, search.EmptyResult(), down.Search(context.Background(), "lamp"))
}

func TestGateway_QueryIsEncoded(t *testing.T) {
	var raw string
	ts := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		_, _ = w.Write([]byte(`{}`))
	})

	res := search.NewGateway(ts.URL, time.Second, zap.NewNop()).Search(context.Background(), "lamp & shade")
	assert.Equal(t, "query=lamp+%26+shade", raw)
	assert.Equal(t, search.EmptyResult(), res, "missing arrays become empty")
}

func TestGateway_CategoryObjects(t *testing.T) {
	ts := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[],"categories":[{"Kategorie":"Lighting"},"Desk"]}`))
	})

	res := search.NewGateway(ts.URL, time.Second, zap.NewNop()).Search(context.Background(), "x")
	assert.Equal(t, []search.Category{"Lighting", "Desk"}, res.Categories)
}

func TestGateway_FailuresYieldEmpty(t *testing.T) {
	cases := map[string]struct {
		handler http.HandlerFunc
		wantErr error
		outcome string
	}{
		"bad status": {
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			wantErr: search.ErrUpstreamBadStatus,
			outcome: "bad_status",
		},
		"bad body": {
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) },
			wantErr: search.ErrUpstreamBadBody,
			outcome: "bad_body",
		},
		"wrong shape": {
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"items":"nope"}`)) },
			wantErr: search.ErrUpstreamBadBody,
			outcome: "bad_body",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ts := upstream(t, tc.handler)

			core, logs := observer.New(zap.WarnLevel)
			gw := search.NewGateway(ts.URL, time.Second, zap.New(core))
			gw.Metrics = search.NewMetrics(prometheus.NewRegistry())

			_, err := gw.Fetch(context.Background(), "lamp")
			require.ErrorIs(t, err, tc.wantErr)

			res := gw.Search(context.Background(), "lamp")
			assert.Equal(t, search.EmptyResult(), res)
			assert.Equal(t, 1, logs.FilterMessage("search failed").Len())
			assert.Equal(t, 2.0, testutil.ToFloat64(gw.Metrics.Upstream.WithLabelValues(tc.outcome)))
		})
	}
}

func TestGateway_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	gw := search.NewGateway(url, time.Second, zap.NewNop())

	_, err := gw.Fetch(context.Background(), "lamp")
	require.ErrorIs(t, err, search.ErrUpstreamUnavailable)
	assert.Equal(t, search.EmptyResult(), gw.Search(context.Background(), "lamp"))
}

func TestGateway_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	gw := search.NewGateway(ts.URL, 50*time.Millisecond, zap.NewNop())
	_, err := gw.Fetch(context.Background(), "slow")
	require.ErrorIs(t, err, search.ErrUpstreamUnavailable)
}
