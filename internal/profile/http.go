package profile

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Inventar/pkg/kit"
)

type Server struct {
	Store *Store
	Log   *zap.Logger
}

type usernameDTO struct {
	Username string `json:"username"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/username", s.get)
	r.Put("/username", s.put)
	return r
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, usernameDTO{Username: s.Store.Username(r.Context())})
}

func (s *Server) put(w http.ResponseWriter, r *http.Request) {
	var req usernameDTO
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	name, err := s.Store.SetUsername(r.Context(), req.Username)
	switch {
	case errors.Is(err, ErrInvalidUsername):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	case err != nil:
		if s.Log != nil {
			s.Log.Error("set username failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, usernameDTO{Username: name})
}
