package repository

import (
	"context"
	"fmt"
	"time"

	"inventory-ledger/internal/database"
	"inventory-ledger/internal/domain"
)

// ArchiveRepository keeps the history of deleted products
type ArchiveRepository interface {
	// Archive records product as deleted at deletedAt. It writes through q
	// so it can join the caller's transaction.
	Archive(ctx context.Context, q database.Querier, product domain.Product, deletedAt time.Time) error
	// ListDeleted returns every archived product, newest deletion first
	ListDeleted(ctx context.Context) ([]domain.DeletedProduct, error)
}

type archiveRepository struct {
	db *database.DB
}

// NewArchiveRepository creates a new instance of ArchiveRepository
func NewArchiveRepository(db *database.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

func (r *archiveRepository) Archive(ctx context.Context, q database.Querier, product domain.Product, deletedAt time.Time) error {
	record := product.Archive(deletedAt)

	query := `
		INSERT INTO deleted_products (id, name, price, quantity, deleted_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := q.ExecContext(ctx, query,
		record.ID,
		record.Name,
		record.Price,
		record.Quantity,
		record.DeletedAt.Format(domain.TimestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to archive product: %w", err)
	}

	return nil
}

// ListDeleted orders by deletion time; rows deleted in the same second keep
// their archive order, newest first.
func (r *archiveRepository) ListDeleted(ctx context.Context) ([]domain.DeletedProduct, error) {
	query := `
		SELECT id, name, price, quantity, deleted_at
		FROM deleted_products
		ORDER BY deleted_at DESC, seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted products: %w", database.Classify(err))
	}
	defer rows.Close()

	deleted := []domain.DeletedProduct{}
	for rows.Next() {
		var (
			record    domain.DeletedProduct
			deletedAt string
		)
		if err := rows.Scan(&record.ID, &record.Name, &record.Price, &record.Quantity, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deleted product: %w", err)
		}
		record.DeletedAt, err = parseTimestamp(deletedAt)
		if err != nil {
			return nil, err
		}
		deleted = append(deleted, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deleted products: %w", database.Classify(err))
	}

	return deleted, nil
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.TimestampLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}
