package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"inventory-ledger/internal/clock"
	"inventory-ledger/internal/database"
	"inventory-ledger/internal/domain"
)

// BillRepository defines the interface for bill data access
type BillRepository interface {
	Create(ctx context.Context, items []domain.BillItem) (int64, error)
	List(ctx context.Context) ([]domain.Bill, error)
	FindByID(ctx context.Context, id int64) (*domain.Bill, error)
}

type billRepository struct {
	db    *database.DB
	clock clock.Clock
}

// NewBillRepository creates a new instance of BillRepository. New bills are
// dated with clk.
func NewBillRepository(db *database.DB, clk clock.Clock) BillRepository {
	return &billRepository{db: db, clock: clk}
}

// Create records a bill and its items in one transaction and returns the bill
// id. The total is always computed from items.
func (r *billRepository) Create(ctx context.Context, items []domain.BillItem) (int64, error) {
	total := domain.ComputeTotal(items)
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return 0, fmt.Errorf("failed to create bill: %w: total is not finite", database.ErrConstraint)
	}
	date := r.clock.Now().Format(domain.TimestampLayout)

	var billID int64
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO bills (date, total) VALUES ($1, $2) RETURNING id`
		if err := tx.QueryRowContext(ctx, query, date, total).Scan(&billID); err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}

		itemQuery := `
			INSERT INTO bill_items (bill_id, product_name, quantity, price_per_item)
			VALUES ($1, $2, $3, $4)
		`
		for i, item := range items {
			if _, err := tx.ExecContext(ctx, itemQuery, billID, item.ProductName, item.Quantity, item.PricePerItem); err != nil {
				return fmt.Errorf("failed to insert bill item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bill: %w", err)
	}

	return billID, nil
}

// List returns every bill, most recent first, each with its items in the
// order they were recorded
func (r *billRepository) List(ctx context.Context) ([]domain.Bill, error) {
	bills, err := r.listHeaders(ctx)
	if err != nil {
		return nil, err
	}

	for i := range bills {
		bills[i].Items, err = r.listItems(ctx, bills[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return bills, nil
}

// FindByID returns one bill with its items, or nil if there is none
func (r *billRepository) FindByID(ctx context.Context, id int64) (*domain.Bill, error) {
	query := `SELECT id, date, total FROM bills WHERE id = $1`

	var (
		bill domain.Bill
		date string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&bill.ID, &date, &bill.Total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find bill: %w", database.Classify(err))
	}

	if bill.Date, err = parseTimestamp(date); err != nil {
		return nil, err
	}

	if bill.Items, err = r.listItems(ctx, bill.ID); err != nil {
		return nil, err
	}

	return &bill, nil
}

// listHeaders reads and closes the header rows before any item query runs;
// a SQLite store has a single connection.
func (r *billRepository) listHeaders(ctx context.Context) ([]domain.Bill, error) {
	query := `SELECT id, date, total FROM bills ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", database.Classify(err))
	}
	defer rows.Close()

	bills := []domain.Bill{}
	for rows.Next() {
		var (
			bill domain.Bill
			date string
		)
		if err := rows.Scan(&bill.ID, &date, &bill.Total); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		if bill.Date, err = parseTimestamp(date); err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bills: %w", database.Classify(err))
	}

	return bills, nil
}

func (r *billRepository) listItems(ctx context.Context, billID int64) ([]domain.BillItem, error) {
	query := `
		SELECT product_name, quantity, price_per_item
		FROM bill_items
		WHERE bill_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of bill %d: %w", billID, database.Classify(err))
	}
	defer rows.Close()

	items := []domain.BillItem{}
	for rows.Next() {
		var item domain.BillItem
		if err := rows.Scan(&item.ProductName, &item.Quantity, &item.PricePerItem); err != nil {
			return nil, fmt.Errorf("failed to scan bill item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bill items: %w", database.Classify(err))
	}

	return items, nil
}
