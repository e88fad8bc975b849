package cart

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ShriHariStore/internal/catalog"
	"ShriHariStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Log     *zap.Logger
	Store   *Store
	Catalog *catalog.Store
}

func (s *Server) Register(r chi.Router) {
	r.Get("/cart", s.get)
	r.Post("/cart/items", s.add)
	r.Patch("/cart/items", s.updateQuantity)
	r.Delete("/cart/items", s.remove)
	r.Delete("/cart", s.clear)
}

type cartResp struct {
	Items      []Item  `json:"items"`
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

func (s *Server) get(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, cartResp{
		Items:      s.Store.Items(),
		TotalItems: s.Store.TotalItems(),
		TotalPrice: s.Store.TotalPrice(),
	})
}

type itemReq struct {
	ProductID     string `json:"productId"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selectedSize,omitempty"`
	SelectedColor string `json:"selectedColor,omitempty"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	req, err := decodeItem(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	p, ok := s.Catalog.Get(req.ProductID)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "unknown product", map[string]any{"id": req.ProductID})
		return
	}

	if err := s.Store.Add(r.Context(), p, req.Quantity, req.SelectedSize, req.SelectedColor); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.get(w, r)
}

func (s *Server) updateQuantity(w http.ResponseWriter, r *http.Request) {
	req, err := decodeItem(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if err := s.Store.UpdateQuantity(r.Context(), req.ProductID, req.Quantity, req.SelectedSize, req.SelectedColor); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.get(w, r)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	err := s.Store.Remove(r.Context(), q.Get("productId"), q.Get("selectedSize"), q.Get("selectedColor"))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.get(w, r)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Clear(r.Context()); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if s.Log != nil {
		s.Log.Error("cart store error", zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func decodeItem(w http.ResponseWriter, r *http.Request) (itemReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req itemReq
	if err := dec.Decode(&req); err != nil {
		return itemReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return itemReq{}, errors.New("extra data after json object")
	}
	return req, nil
}
