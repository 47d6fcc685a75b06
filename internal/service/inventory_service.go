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

// InventoryService defines the interface for product and archive operations
type InventoryService interface {
	AddProduct(ctx context.Context, name string, price float64, quantity int64) (int64, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, name string, price float64, quantity int64) error
	DeleteProduct(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductByIDAndName(ctx context.Context, id int64, name string) (*domain.Product, error)
	ListDeletedProducts(ctx context.Context) ([]domain.DeletedProduct, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	archiveRepo repository.ArchiveRepository
	logger      *zap.Logger
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(
	productRepo repository.ProductRepository,
	archiveRepo repository.ArchiveRepository,
	logger *zap.Logger,
) InventoryService {
	return &inventoryService{
		productRepo: productRepo,
		archiveRepo: archiveRepo,
		logger:      logger,
	}
}

// AddProduct validates and stores a new product, returning its id
func (s *inventoryService) AddProduct(ctx context.Context, name string, price float64, quantity int64) (int64, error) {
	if err := validateProduct(name, price, quantity); err != nil {
		return 0, err
	}

	id, err := s.productRepo.Create(ctx, name, price, quantity)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Product added",
		zap.Int64("product_id", id),
		zap.String("product_name", name),
	)
	return id, nil
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.GetAll(ctx)
}

// UpdateProduct replaces the mutable fields of a product. Updating an id
// that does not exist succeeds and changes nothing.
func (s *inventoryService) UpdateProduct(ctx context.Context, id int64, name string, price float64, quantity int64) error {
	if err := validateProduct(name, price, quantity); err != nil {
		return err
	}

	if err := s.productRepo.Update(ctx, id, name, price, quantity); err != nil {
		return err
	}

	s.logger.Info("Product updated", zap.Int64("product_id", id))
	return nil
}

// DeleteProduct archives and removes a product. Unknown ids are a no-op.
func (s *inventoryService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *inventoryService) GetProductByIDAndName(ctx context.Context, id int64, name string) (*domain.Product, error) {
	return s.productRepo.FindByIDAndName(ctx, id, name)
}

func (s *inventoryService) ListDeletedProducts(ctx context.Context) ([]domain.DeletedProduct, error) {
	deleted, err := s.archiveRepo.ListDeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted products: %w", err)
	}
	return deleted, nil
}

func validateProduct(name string, price float64, quantity int64) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "must not be empty")
	}
	if err := validatePrice("price", price); err != nil {
		return err
	}
	if quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	return nil
}

func validatePrice(field string, price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return invalid(field, "must be a finite number")
	}
	if price < 0 {
		return invalid(field, "must not be negative")
	}
	return nil
}
