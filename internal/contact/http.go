package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"ShriHariStore/internal/catalog"
	"ShriHariStore/pkg/kit"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

type Server struct {
	Info    BusinessInfo
	Catalog *catalog.Store
}

func (s *Server) Register(r chi.Router) {
	r.Post("/contact/whatsapp-link", s.link)
}

type linkReq struct {
	Form      Form   `json:"form"`
	ProductID string `json:"productId,omitempty"`
}

func (s *Server) link(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req linkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	var product *catalog.Product
	if req.ProductID != "" {
		if p, ok := s.Catalog.Get(req.ProductID); ok {
			product = &p
		}
	}

	kit.WriteJSON(w, http.StatusOK, map[string]string{
		"url": BuildWhatsAppLink(s.Info, req.Form, product),
	})
}
