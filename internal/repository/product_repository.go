package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-ledger/internal/clock"
	"inventory-ledger/internal/database"
	"inventory-ledger/internal/domain"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, name string, price float64, quantity int64) (int64, error)
	GetAll(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, id int64, name string, price float64, quantity int64) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDAndName(ctx context.Context, id int64, name string) (*domain.Product, error)
}

type productRepository struct {
	db      *database.DB
	clock   clock.Clock
	archive ArchiveRepository

	// afterArchiveHook runs between the archive insert and the product
	// delete. Tests use it to fail the transaction half way.
	afterArchiveHook func() error
}

// NewProductRepository creates a new instance of ProductRepository. Deleted
// products are archived through archive, stamped with clk.
func NewProductRepository(db *database.DB, clk clock.Clock, archive ArchiveRepository) ProductRepository {
	return &productRepository{db: db, clock: clk, archive: archive}
}

// Create inserts a new product and returns the id the store assigned
func (r *productRepository) Create(ctx context.Context, name string, price float64, quantity int64) (int64, error) {
	query := `
		INSERT INTO products (name, price, quantity)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, name, price, quantity).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create product: %w", database.Classify(err))
	}

	return id, nil
}

// GetAll returns every product on hand in insertion order
func (r *productRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, name, price, quantity FROM products ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", database.Classify(err))
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", database.Classify(err))
	}

	return products, nil
}

// Update replaces name, price and quantity of the product with the given id.
// An unknown id changes nothing and is not an error.
func (r *productRepository) Update(ctx context.Context, id int64, name string, price float64, quantity int64) error {
	// SQLite numbers $N parameters by first appearance, so they stay in order
	query := `
		UPDATE products
		SET name = $1, price = $2, quantity = $3
		WHERE id = $4
	`

	if _, err := r.db.ExecContext(ctx, query, name, price, quantity, id); err != nil {
		return fmt.Errorf("failed to update product: %w", database.Classify(err))
	}

	return nil
}

// Delete archives the product and removes it in one transaction. Either
// both happen or neither does. An unknown id writes nothing.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		product, err := findProduct(ctx, tx, `SELECT id, name, price, quantity FROM products WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if product == nil {
			return nil
		}

		if err := r.archive.Archive(ctx, tx, *product, r.clock.Now()); err != nil {
			return err
		}

		if r.afterArchiveHook != nil {
			if err := r.afterArchiveHook(); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	return nil
}

// FindByID returns the product with the given id, or nil if there is none
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, name, price, quantity FROM products WHERE id = $1`
	return findProduct(ctx, r.db, query, id)
}

// FindByIDAndName returns the product only if both id and name match exactly
func (r *productRepository) FindByIDAndName(ctx context.Context, id int64, name string) (*domain.Product, error) {
	query := `SELECT id, name, price, quantity FROM products WHERE id = $1 AND name = $2`
	return findProduct(ctx, r.db, query, id, name)
}

func findProduct(ctx context.Context, q database.Querier, query string, args ...any) (*domain.Product, error) {
	product := &domain.Product{}
	err := q.QueryRowContext(ctx, query, args...).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Quantity,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", database.Classify(err))
	}

	return product, nil
}
