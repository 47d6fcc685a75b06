package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"inventory-ledger/internal/domain"
	"inventory-ledger/internal/repository"

	"go.uber.org/zap"
)

// BillingService defines the interface for recording and reading sales
type BillingService interface {
	CreateBill(ctx context.Context, items []domain.BillItem) (int64, error)
	ListBills(ctx context.Context) ([]domain.Bill, error)
	GetBill(ctx context.Context, id int64) (*domain.Bill, error)
}

type billingService struct {
	billRepo repository.BillRepository
	logger   *zap.Logger
}

// NewBillingService creates a new instance of BillingService
func NewBillingService(billRepo repository.BillRepository, logger *zap.Logger) BillingService {
	return &billingService{billRepo: billRepo, logger: logger}
}

// CreateBill records a sale. The total is derived from items by the store;
// a bill with no items is allowed and totals 0.
func (s *billingService) CreateBill(ctx context.Context, items []domain.BillItem) (int64, error) {
	for i, item := range items {
		if err := validateItem(i, item); err != nil {
			return 0, err
		}
	}
	if total := domain.ComputeTotal(items); math.IsInf(total, 0) || math.IsNaN(total) {
		return 0, invalid("items", "total must be a finite number")
	}

	id, err := s.billRepo.Create(ctx, items)
	if err != nil {
		s.logger.Error("Failed to create bill", zap.Int("items", len(items)), zap.Error(err))
		return 0, err
	}

	s.logger.Info("Bill created",
		zap.Int64("bill_id", id),
		zap.Int("items", len(items)),
		zap.Float64("total", domain.ComputeTotal(items)),
	)
	return id, nil
}

func (s *billingService) ListBills(ctx context.Context) ([]domain.Bill, error) {
	return s.billRepo.List(ctx)
}

func (s *billingService) GetBill(ctx context.Context, id int64) (*domain.Bill, error) {
	return s.billRepo.FindByID(ctx, id)
}

func validateItem(index int, item domain.BillItem) error {
	field := fmt.Sprintf("items[%d]", index)
	if strings.TrimSpace(item.ProductName) == "" {
		return invalid(field+".product_name", "must not be empty")
	}
	if item.Quantity <= 0 {
		return invalid(field+".quantity", "must be positive")
	}
	return validatePrice(field+".price_per_item", item.PricePerItem)
}
