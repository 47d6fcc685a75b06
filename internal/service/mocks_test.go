package service

import (
	"context"
	"errors"
	"time"

	"inventory-ledger/internal/database"
	"inventory-ledger/internal/domain"
)

// Mock repositories for testing
type mockProductRepository struct {
	products map[int64]domain.Product
	nextID   int64
	deleted  []domain.DeletedProduct
	calls    int
	err      error
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]domain.Product), nextID: 1}
}

func (m *mockProductRepository) Create(ctx context.Context, name string, price float64, quantity int64) (int64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	id := m.nextID
	m.nextID++
	m.products[id] = domain.Product{ID: id, Name: name, Price: price, Quantity: quantity}
	return id, nil
}

func (m *mockProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	m.calls++
	products := []domain.Product{}
	for id := int64(1); id < m.nextID; id++ {
		if p, ok := m.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, m.err
}

func (m *mockProductRepository) Update(ctx context.Context, id int64, name string, price float64, quantity int64) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[id]; ok {
		m.products[id] = domain.Product{ID: id, Name: name, Price: price, Quantity: quantity}
	}
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	if p, ok := m.products[id]; ok {
		m.deleted = append([]domain.DeletedProduct{p.Archive(time.Now())}, m.deleted...)
		delete(m.products, id)
	}
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.calls++
	if p, ok := m.products[id]; ok {
		return &p, nil
	}
	return nil, m.err
}

func (m *mockProductRepository) FindByIDAndName(ctx context.Context, id int64, name string) (*domain.Product, error) {
	m.calls++
	if p, ok := m.products[id]; ok && p.Name == name {
		return &p, nil
	}
	return nil, m.err
}

// mockArchiveRepository reads from the product mock's archive
type mockArchiveRepository struct {
	products *mockProductRepository
}

func (m *mockArchiveRepository) Archive(ctx context.Context, q database.Querier, product domain.Product, deletedAt time.Time) error {
	return errors.New("archive writes go through ProductRepository.Delete")
}

func (m *mockArchiveRepository) ListDeleted(ctx context.Context) ([]domain.DeletedProduct, error) {
	return m.products.deleted, nil
}

type mockBillRepository struct {
	bills []domain.Bill
	calls int
	err   error
}

func (m *mockBillRepository) Create(ctx context.Context, items []domain.BillItem) (int64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	id := int64(len(m.bills) + 1)
	m.bills = append(m.bills, domain.Bill{ID: id, Date: time.Now(), Total: domain.ComputeTotal(items), Items: items})
	return id, nil
}

func (m *mockBillRepository) List(ctx context.Context) ([]domain.Bill, error) {
	m.calls++
	bills := make([]domain.Bill, 0, len(m.bills))
	for i := len(m.bills) - 1; i >= 0; i-- {
		bills = append(bills, m.bills[i])
	}
	return bills, m.err
}

func (m *mockBillRepository) FindByID(ctx context.Context, id int64) (*domain.Bill, error) {
	m.calls++
	for _, bill := range m.bills {
		if bill.ID == id {
			return &bill, nil
		}
	}
	return nil, m.err
}
