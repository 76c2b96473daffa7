package search

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"Inventar/pkg/kit"
)

type Server struct {
	Session *Session
	Limiter *kit.IPRateLimiter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Group(func(rr chi.Router) {
		if s.Limiter != nil {
			rr.Use(s.Limiter.Middleware)
		}
		rr.Get("/", s.search)
	})
	r.Get("/last", s.last)

	return r
}

type searchResp struct {
	Query string `json:"query"`
	Result
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("query")
	if strings.TrimSpace(q) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "query required", nil)
		return
	}

	out := s.Session.Search(r.Context(), q)

	w.Header().Set("X-Search-Token", strconv.FormatUint(out.Token, 10))
	if out.Stale {
		w.Header().Set("X-Search-Stale", "1")
	}
	kit.WriteJSON(w, http.StatusOK, searchResp{Query: q, Result: out.Result})
}

func (s *Server) last(w http.ResponseWriter, _ *http.Request) {
	snap := s.Session.Last()
	kit.WriteJSON(w, http.StatusOK, searchResp{Query: snap.Query, Result: snap.Result})
}
