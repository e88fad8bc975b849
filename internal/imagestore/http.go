package imagestore

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ShriHariStore/internal/kvstore"
	"ShriHariStore/pkg/kit"
)

const maxUploadMemory = 6 << 20

type Server struct {
	Log      *zap.Logger
	Blobs    *BlobStore
	Refs     RefSource
	Options  ValidationOptions
	Metrics  *kit.StorageMetrics
	Resolver *Resolver

	Admin func(http.Handler) http.Handler
}

func (s *Server) Register(r chi.Router) {
	r.Get("/images/resolve", s.resolve)
	r.Get("/images/{id}", s.fetch)

	r.Group(func(ar chi.Router) {
		if s.Admin != nil {
			ar.Use(s.Admin)
		}
		ar.Post("/admin/images", s.upload)
		ar.Get("/admin/images", s.info)
		ar.Delete("/admin/images/{id}", s.delete)
		ar.Delete("/admin/images", s.clear)
		ar.Post("/admin/images/sweep", s.sweep)
	})
}

// resolve maps any stored reference form to a renderable source; it always
// answers 200 with something usable.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	kit.WriteJSON(w, http.StatusOK, map[string]string{"src": s.Resolver.Resolve(ref)})
}

func (s *Server) fetch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, ok := s.Blobs.Fetch(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]string{"id": id, "data": data})
}

type uploadResp struct {
	ID       string `json:"id"`
	ImageURL string `json:"imageUrl"`
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad multipart form", nil)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "image file required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, s.Options.MaxSizeBytes+1))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "unreadable file", nil)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if err := ValidateUpload(r.Context(), mimeType, data, s.Options); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			kit.WriteError(w, r, http.StatusBadRequest, verr.Reason, nil)
			return
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	id := NewID()
	dataURI := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)

	if err := s.Blobs.Store(r.Context(), id, dataURI); err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.refreshMetrics()
	kit.WriteJSON(w, http.StatusCreated, uploadResp{ID: id, ImageURL: IndirectRef(id)})
}

func (s *Server) info(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Blobs.Info())
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := s.Blobs.Delete(r.Context(), id)
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

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	if err := s.Blobs.ClearAll(r.Context()); err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.refreshMetrics()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sweep(w http.ResponseWriter, r *http.Request) {
	removed, err := SweepOrphans(r.Context(), s.Blobs, s.Refs)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	s.refreshMetrics()
	kit.WriteJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) refreshMetrics() {
	if s.Metrics == nil {
		return
	}
	info := s.Blobs.Info()
	s.Metrics.ImageBlobCount.Set(float64(info.Count))
	s.Metrics.ImageBlobMB.Set(info.EstimatedSizeMB)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, kvstore.ErrQuotaExceeded) {
		kit.WriteError(w, r, http.StatusInsufficientStorage, "storage quota exceeded", nil)
		return
	}
	if s.Log != nil {
		s.Log.Error("image store error", zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}
