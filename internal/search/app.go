package search

import (
	"net/http"

	"Inventar/pkg/kit"
)

type HTTPDeps = kit.HTTPDeps

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	r := kit.NewRouter(deps)

	r.Get("/healthz", kit.Healthz)
	r.Get("/readyz", kit.Readyz(s.Session.Ping, deps.Log))

	// upstream clients call /search/?query=..., keep both spellings
	r.Mount("/search", s.Routes())

	return r
}
