package kit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// unmatchedRoute labels requests no route matched, so scanners probing random
// paths share one metrics series.
const unmatchedRoute = "unmatched"

// RouteLabel names the chi route pattern that served r, e.g.
// /items/{modelNumber}. Read it after the handler ran.
func RouteLabel(r *http.Request) string {
	rc := chi.RouteContext(r.Context())
	if rc == nil {
		return unmatchedRoute
	}
	if rp := rc.RoutePattern(); rp != "" && rp != "/*" {
		return rp
	}
	return unmatchedRoute
}
