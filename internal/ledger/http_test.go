package ledger_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Inventar/internal/ledger"
	"Inventar/internal/storage"
)

func newLedgerTS(t *testing.T) *httptest.Server {
	t.Helper()

	store := ledger.NewStore(storage.NewMemKV(), zap.NewNop())
	store.Load(context.Background())

	ts := httptest.NewServer((&ledger.Server{Store: store, Log: zap.NewNop()}).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func send(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestHTTP_LedgerFlow(t *testing.T) {
	ts := newLedgerTS(t)

	resp, _ := send(t, http.MethodGet, ts.URL+"/export.csv", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := send(t, http.MethodPost, ts.URL+"/purchases",
		`{"existingName":"Anna","datetime":"2024-03-01 07:00:00","liters":2,"price":2.5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Contains(t, body, `"name":"Anna"`)

	resp, body = send(t, http.MethodPost, ts.URL+"/purchases", `{"name":"Ben","liters":0,"price":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)

	resp, body = send(t, http.MethodGet, ts.URL+"/names", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["Anna"]`, body)

	resp, body = send(t, http.MethodGet, ts.URL+"/export.csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Name,Datetime,Liters,Price\nAnna,2024-03-01 07:00:00,2,2.5\n", body)
}

func TestHTTP_LedgerUnknownKey(t *testing.T) {
	ts := newLedgerTS(t)

	resp, _ := send(t, http.MethodPatch, ts.URL+"/purchases/missing", `{"liters":3}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = send(t, http.MethodDelete, ts.URL+"/purchases/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
