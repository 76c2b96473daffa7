package ledger

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

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

	r.Get("/purchases", s.list)
	r.Post("/purchases", s.create)
	r.Patch("/purchases/{key}", s.update)
	r.Delete("/purchases/{key}", s.delete)
	r.Get("/names", s.names)
	r.Get("/export.csv", s.export)

	return r
}

// createReq mirrors the purchase form: a new name, or one picked from the
// names list.
type createReq struct {
	Name         string  `json:"name"`
	ExistingName string  `json:"existingName"`
	Datetime     string  `json:"datetime"`
	Liters       float64 `json:"liters"`
	Price        float64 `json:"price"`
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.List())
}

func (s *Server) names(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.Names())
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	name := req.Name
	if strings.TrimSpace(name) == "" {
		name = req.ExistingName
	}

	p, err := s.Store.Add(r.Context(), Purchase{
		Name:     name,
		Datetime: req.Datetime,
		Liters:   req.Liters,
		Price:    req.Price,
	})
	if err != nil {
		s.writeStoreError(w, r, "add purchase failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := kit.DecodeJSON(w, r, &patch); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	p, err := s.Store.Update(r.Context(), chi.URLParam(r, "key"), patch)
	if err != nil {
		s.writeStoreError(w, r, "update purchase failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		s.writeStoreError(w, r, "delete purchase failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := s.Store.ExportCSV(&buf)
	if errors.Is(err, ErrNothingToExport) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.writeStoreError(w, r, "export failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="milkPurchases.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, ErrInvalidPurchase):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"key": chi.URLParam(r, "key")})
	default:
		if s.Log != nil {
			s.Log.Error(msg, zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}
