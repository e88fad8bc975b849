package catalog

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ShriHariStore/internal/kvstore"
	"ShriHariStore/pkg/kit"
)

const (
	maxCreateBody = 1 << 20
	maxImportBody = 16 << 20
)

type Server struct {
	Log     *zap.Logger
	Store   *Store
	Metrics *kit.StorageMetrics

	// Admin wraps the catalog-mutating routes; the read surface stays open.
	Admin func(http.Handler) http.Handler
}

func (s *Server) Register(r chi.Router) {
	r.Get("/products", s.list)
	r.Get("/products/featured", s.featured)
	r.Get("/products/{id}", s.get)

	r.Group(func(ar chi.Router) {
		if s.Admin != nil {
			ar.Use(s.Admin)
		}
		ar.Post("/products", s.create)
		ar.Patch("/products/{id}", s.update)
		ar.Delete("/products/{id}", s.delete)

		ar.Get("/admin/catalog/export", s.export)
		ar.Post("/admin/catalog/import", s.importCatalog)
		ar.Delete("/admin/catalog", s.clear)
		ar.Get("/admin/catalog/stats", s.stats)
	})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if query := q.Get("q"); query != "" {
		kit.WriteJSON(w, http.StatusOK, s.Store.Search(query))
		return
	}

	if raw := q.Get("category"); raw != "" {
		c, ok := ParseCategory(raw)
		if !ok {
			kit.WriteError(w, r, http.StatusBadRequest, "unknown category", map[string]any{"category": raw})
			return
		}
		kit.WriteJSON(w, http.StatusOK, s.Store.ByCategory(c))
		return
	}

	kit.WriteJSON(w, http.StatusOK, s.Store.List())
}

func (s *Server) featured(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.Featured())
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := s.Store.Get(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := decodeBody(w, r, maxCreateBody, &in); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	p, err := s.Store.Create(r.Context(), in)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.refreshMetrics()
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var up Update
	if err := decodeBody(w, r, maxCreateBody, &up); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	p, found, err := s.Store.Update(r.Context(), id, up)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	s.refreshMetrics()
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if !removed {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}

	s.refreshMetrics()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	data, err := s.Store.Export()
	if err != nil {
		s.Log.Error("catalog export failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="products.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(data))
}

func (s *Server) importCatalog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBody)
	defer func() { _ = r.Body.Close() }()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "unreadable body", nil)
		return
	}

	n, err := s.Store.Import(r.Context(), string(data))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.refreshMetrics()
	kit.WriteJSON(w, http.StatusOK, map[string]any{"imported": n})
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.ClearAll(r.Context()); err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.refreshMetrics()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) stats(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.Stats())
}

func (s *Server) refreshMetrics() {
	if s.Metrics == nil {
		return
	}
	st := s.Store.Stats()
	s.Metrics.ProductsTotal.Set(float64(st.TotalProducts))
	s.Metrics.CatalogBytes.Set(float64(st.StorageUsedBytes))
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrDescriptionRequired),
		errors.Is(err, ErrPriceInvalid),
		errors.Is(err, ErrImagesRequired),
		errors.Is(err, ErrBadCategory),
		errors.Is(err, ErrBadImport):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrCatalogFull):
		kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, kvstore.ErrQuotaExceeded):
		kit.WriteError(w, r, http.StatusInsufficientStorage, "storage quota exceeded", nil)
	default:
		if s.Log != nil {
			s.Log.Error("catalog store error", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}
