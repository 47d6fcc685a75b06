package transport

import (
	"net/http"
	"strconv"

	"inventory-ledger/internal/domain"
	"inventory-ledger/internal/middleware"
	"inventory-ledger/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductRequest is the payload for adding or replacing a product
type ProductRequest struct {
	Name     string   `json:"name" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Quantity *int64   `json:"quantity" validate:"required,gte=0"`
}

// IDResponse carries the id assigned to a new record
type IDResponse struct {
	ID int64 `json:"id"`
}

// DeletedProductResponse is an archive record with its deletion time in
// ledger timestamp form
type DeletedProductResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	DeletedAt string  `json:"deleted_at"`
}

// ProductHandler handles HTTP requests for products and the deletion archive
type ProductHandler struct {
	inventory service.InventoryService
	logger    *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(inventory service.InventoryService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// RegisterRoutes registers product routes. Mutating routes are wrapped in
// guard.
func (h *ProductHandler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Post("/", h.AddProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})
	r.Get("/api/deleted-products", h.ListDeletedProducts)
}

// AddProduct handles POST /api/products
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	id, err := h.inventory.AddProduct(r.Context(), req.Name, *req.Price, *req.Quantity)
	if err != nil {
		middleware.RespondWithLedgerError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.inventory.ListProducts(r.Context())
	if err != nil {
		middleware.RespondWithLedgerError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}. With ?name= both id and name
// must match exactly.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var (
		product *domain.Product
		err     error
	)
	if query := r.URL.Query(); query.Has("name") {
		product, err = h.inventory.GetProductByIDAndName(r.Context(), id, query.Get("name"))
	} else {
		product, err = h.inventory.GetProduct(r.Context(), id)
	}
	if err != nil {
		middleware.RespondWithLedgerError(w, err, h.logger)
		return
	}
	if product == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /api/products/{id}. Unknown ids succeed.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	if err := h.inventory.UpdateProduct(r.Context(), id, req.Name, *req.Price, *req.Quantity); err != nil {
		middleware.RespondWithLedgerError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct handles DELETE /api/products/{id}. Unknown ids succeed.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.inventory.DeleteProduct(r.Context(), id); err != nil {
		middleware.RespondWithLedgerError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListDeletedProducts handles GET /api/deleted-products
func (h *ProductHandler) ListDeletedProducts(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.inventory.ListDeletedProducts(r.Context())
	if err != nil {
		middleware.RespondWithLedgerError(w, err, h.logger)
		return
	}

	response := make([]DeletedProductResponse, 0, len(deleted))
	for _, d := range deleted {
		response = append(response, DeletedProductResponse{
			ID:        d.ID,
			Name:      d.Name,
			Price:     d.Price,
			Quantity:  d.Quantity,
			DeletedAt: d.DeletedAt.Format(domain.TimestampLayout),
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// decodeRequest decodes and validates the body, writing the error response
// itself when that fails
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}, logger *zap.Logger) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
