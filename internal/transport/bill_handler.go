package transport

import (
	"net/http"

	"inventory-ledger/internal/domain"
	"inventory-ledger/internal/middleware"
	"inventory-ledger/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BillItemRequest is one line of a new bill
type BillItemRequest struct {
	ProductName  string   `json:"product_name" validate:"required"`
	Quantity     int64    `json:"quantity" validate:"gt=0"`
	PricePerItem *float64 `json:"price_per_item" validate:"required,gte=0"`
}

// CreateBillRequest is the payload for recording a sale. There is no total
// field; the ledger computes it.
type CreateBillRequest struct {
	Items []BillItemRequest `json:"items" validate:"required,dive"`
}

// BillResponse is a bill with its date in ledger timestamp form
type BillResponse struct {
	ID    int64             `json:"id"`
	Date  string            `json:"date"`
	Total float64           `json:"total"`
	Items []domain.BillItem `json:"items"`
}

// BillHandler handles HTTP requests for bills
type BillHandler struct {
	billing service.BillingService
	logger  *zap.Logger
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billing service.BillingService, logger *zap.Logger) *BillHandler {
	return &BillHandler{
		billing: billing,
		logger:  logger,
	}
}

// RegisterRoutes registers bill routes. Creating a bill is wrapped in guard.
func (h *BillHandler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/api/bills", func(r chi.Router) {
		r.Get("/", h.ListBills)
		r.Get("/{id}", h.GetBill)
		r.With(guard).Post("/", h.CreateBill)
	})
}

// CreateBill handles POST /api/bills
func (h *BillHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req CreateBillRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	items := make([]domain.BillItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.BillItem{
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			PricePerItem: *item.PricePerItem,
		})
	}

	id, err := h.billing.CreateBill(r.Context(), items)
	if err != nil {
		middleware.RespondWithLedgerError(w, err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// ListBills handles GET /api/bills, newest first
func (h *BillHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.billing.ListBills(r.Context())
	if err != nil {
		middleware.RespondWithLedgerError(w, err, h.logger)
		return
	}

	response := make([]BillResponse, 0, len(bills))
	for _, bill := range bills {
		response = append(response, toBillResponse(bill))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// GetBill handles GET /api/bills/{id}
func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	bill, err := h.billing.GetBill(r.Context(), id)
	if err != nil {
		middleware.RespondWithLedgerError(w, err, h.logger)
		return
	}
	if bill == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "bill not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toBillResponse(*bill))
}

func toBillResponse(bill domain.Bill) BillResponse {
	items := bill.Items
	if items == nil {
		items = []domain.BillItem{}
	}
	return BillResponse{
		ID:    bill.ID,
		Date:  bill.Date.Format(domain.TimestampLayout),
		Total: bill.Total,
		Items: items,
	}
}
