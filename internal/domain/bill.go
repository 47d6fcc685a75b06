package domain

import (
	"time"
)

// BillItem is one line of a bill. ProductName and PricePerItem are copied
// from the product at sale time and are not linked to the products table.
type BillItem struct {
	ProductName  string  `json:"product_name" db:"product_name"`
	Quantity     int64   `json:"quantity" db:"quantity"`
	PricePerItem float64 `json:"price_per_item" db:"price_per_item"`
}

// Subtotal returns quantity times price for the line. The explicit
// conversion rounds the product before it is summed, so no fused
// multiply-add changes the total.
func (i BillItem) Subtotal() float64 {
	return float64(float64(i.Quantity) * i.PricePerItem)
}

// Bill is a completed sale together with its line items
type Bill struct {
	ID    int64      `json:"id" db:"id"`
	Date  time.Time  `json:"date" db:"date"`
	Total float64    `json:"total" db:"total"`
	Items []BillItem `json:"items"`
}

// ComputeTotal sums the item subtotals in the order given. The accumulation
// order is part of the result: reordering items can change the last bits of
// the float64 sum.
func ComputeTotal(items []BillItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
