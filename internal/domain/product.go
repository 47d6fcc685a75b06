package domain

import (
	"time"
)

// TimestampLayout is the text form used for every persisted timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Product represents a product currently on hand
type Product struct {
	ID       int64   `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Price    float64 `json:"price" db:"price"`
	Quantity int64   `json:"quantity" db:"quantity"`
}

// DeletedProduct is the archived snapshot of a product taken when it was deleted.
// ID keeps the original product id and is not unique across the archive.
type DeletedProduct struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	Quantity  int64     `json:"quantity" db:"quantity"`
	DeletedAt time.Time `json:"deleted_at" db:"deleted_at"`
}

// Archive copies p into a DeletedProduct stamped with deletedAt.
func (p Product) Archive(deletedAt time.Time) DeletedProduct {
	return DeletedProduct{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  p.Quantity,
		DeletedAt: deletedAt,
	}
}
