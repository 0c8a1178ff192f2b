package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"pharmacatalog_api/internal/catalog/business"
	"pharmacatalog_api/internal/catalog/models"
	"pharmacatalog_api/pkg/logger"
)

const maxBodyBytes = 1 << 20

const (
	productNotFound  = "Product not found"
	productsNotFound = "Products not found"
	fetchFailed      = "Failed to fetch product"
	fetchManyFailed  = "Failed to fetch products"
)

type ProductHandler struct {
	service *business.ProductService
	log     logger.Logger
}

func NewProductHandler(service *business.ProductService, log logger.Logger) *ProductHandler {
	return &ProductHandler{service: service, log: log}
}

func (h *ProductHandler) GetByEAN(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByEAN(r.Context(), mux.Vars(r)["ean"])
	if err != nil {
		writeServiceError(w, r, err, productNotFound, fetchFailed, h.log)
		return
	}
	writeJSON(w, http.StatusOK, product, h.log)
}

func (h *ProductHandler) ListByRegistroMS(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListByRegistroMS, "registroMS")
}

func (h *ProductHandler) SearchByNome(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.SearchByNome, "nome")
}

func (h *ProductHandler) SearchByApresentacao(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.SearchByApresentacao, "apresentacao")
}

func (h *ProductHandler) SearchByLaboratorio(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.SearchByLaboratorio, "laboratorio")
}

func (h *ProductHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListByStatus, "id_status")
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request,
	find func(context.Context, string) ([]models.Product, error), param string) {
	products, err := find(r.Context(), mux.Vars(r)[param])
	if err != nil {
		writeServiceError(w, r, err, productsNotFound, fetchManyFailed, h.log)
		return
	}
	writeJSON(w, http.StatusOK, products, h.log)
}

func (h *ProductHandler) Paginated(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Page(r.Context(), mux.Vars(r)["pagina"])
	if err != nil {
		writeServiceError(w, r, err, productsNotFound, fetchManyFailed, h.log)
		return
	}
	writeJSON(w, http.StatusOK, page, h.log)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	product, err := h.service.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err, productNotFound, "Failed to create product", h.log)
		return
	}
	writeJSON(w, http.StatusCreated, product, h.log)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	product, err := h.service.Update(r.Context(), mux.Vars(r)["id"], body)
	if err != nil {
		writeServiceError(w, r, err, productNotFound, "Failed to update product", h.log)
		return
	}
	writeJSON(w, http.StatusOK, product, h.log)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err, productNotFound, "Failed to delete product", h.log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return nil, false
	}
	return body, true
}
