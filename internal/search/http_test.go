package search_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Inventar/internal/search"
	"Inventar/internal/storage"
	"Inventar/pkg/kit"
)

func newSearchTS(t *testing.T, upstreamURL string, limiter *kit.IPRateLimiter) *httptest.Server {
	t.Helper()

	gw := search.NewGateway(upstreamURL, time.Second, zap.NewNop())
	sess := search.NewSession(gw, storage.NewMemKV(), zap.NewNop(), nil)
	sess.Restore(context.Background())

	h := search.NewHandler(&search.Server{Session: sess, Limiter: limiter}, search.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "search",
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestHTTP_SearchAndLast(t *testing.T) {
	up := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"titel":"Lamp","preis":"10","foto":"x.jpg"}],"categories":["Lighting"]}`))
	})
	ts := newSearchTS(t, up.URL, nil)

	for _, path := range []string{"/search?query=lamp", "/search/?query=lamp"} {
		resp, raw := get(t, ts.URL+path)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
		assert.NotEmpty(t, resp.Header.Get("X-Search-Token"))
		assert.Empty(t, resp.Header.Get("X-Search-Stale"))
		assert.JSONEq(t,
			`{"query":"lamp","items":[{"titel":"Lamp","preis":"10","foto":"x.jpg"}],"categories":["Lighting"]}`,
			string(raw))
	}

	resp, raw := get(t, ts.URL+"/search/last")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var last struct {
		Query string       `json:"query"`
		Items []search.Hit `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &last))
	assert.Equal(t, "lamp", last.Query)
	assert.Len(t, last.Items, 1)
}

func TestHTTP_UpstreamDownIsEmptyNotError(t *testing.T) {
	up := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	ts := newSearchTS(t, up.URL, nil)

	resp, raw := get(t, ts.URL+"/search?query=lamp")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"query":"lamp","items":[],"categories":[]}`, string(raw))
}

func TestHTTP_QueryRequired(t *testing.T) {
	ts := newSearchTS(t, "http://127.0.0.1:1", nil)

	resp, _ := get(t, ts.URL+"/search?query=%20")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_RateLimited(t *testing.T) {
	up := upstream(t, func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{}`)) })
	ts := newSearchTS(t, up.URL, kit.NewIPRateLimiter(2, time.Hour))

	for i := 0; i < 2; i++ {
		resp, _ := get(t, ts.URL+"/search?query=x")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, _ := get(t, ts.URL+"/search?query=x")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/search/last")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "last is not rate limited")
}
