package catalogue

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Inventar/pkg/kit"
)

type Server struct {
	Store *Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.list)
	r.Post("/", s.add)
	r.Put("/{modelNumber}", s.update)

	return r
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.List())
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var it Item
	if err := kit.DecodeJSON(w, r, &it); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	if err := it.Validate(); err != nil {
		var mf *MissingFieldsError
		if errors.As(err, &mf) {
			kit.WriteError(w, r, http.StatusBadRequest, "missing required fields", map[string]any{"fields": mf.Fields})
			return
		}
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	items, err := s.Store.Add(r.Context(), it)
	if err != nil {
		s.logError("add item failed", err, it.ModelNumber)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, items)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	mn := ModelNumber(modelNumberParam(r))

	var it Item
	if err := kit.DecodeJSON(w, r, &it); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	switch it.ModelNumber {
	case "":
		it.ModelNumber = mn
	case mn:
	default:
		kit.WriteError(w, r, http.StatusBadRequest, "model number mismatch", map[string]any{
			"path": mn,
			"body": it.ModelNumber,
		})
		return
	}

	items, err := s.Store.Update(r.Context(), it)
	if err != nil {
		s.logError("update item failed", err, mn)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, items)
}

// modelNumberParam decodes the path segment exactly once. chi matches on
// RawPath when the request has one (an escaped "/" in the segment) and on the
// already decoded Path otherwise.
func modelNumberParam(r *http.Request) string {
	raw := chi.URLParam(r, "modelNumber")
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (s *Server) logError(msg string, err error, mn ModelNumber) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err), zap.String("model_number", string(mn)))
	}
}
