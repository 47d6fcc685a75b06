package service

import (
	"fmt"

	"inventory-ledger/internal/database"
)

// ValidationError reports an input the ledger refuses before touching
// storage. It unwraps to database.ErrConstraint so callers handle it like
// a rule enforced by the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return database.ErrConstraint
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
