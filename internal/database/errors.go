package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrConstraint is a storage rule violation: NOT NULL, CHECK, foreign key
	// or a value the column cannot hold.
	ErrConstraint = errors.New("constraint violation")

	// ErrStorageUnavailable means the data store could not be opened or
	// reached. Callers may retry; the store never does.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrTransaction wraps any failure inside a multi-statement operation.
	// Everything the transaction wrote has been rolled back.
	ErrTransaction = errors.New("transaction failed")
)

// Classify tags a driver error with ErrConstraint or ErrStorageUnavailable
// when its code says so. Unrecognised errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConstraint) || errors.Is(err, ErrStorageUnavailable) {
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrConstraint, sqlite3.ErrMismatch, sqlite3.ErrTooBig, sqlite3.ErrRange:
			return fmt.Errorf("%w: %w", ErrConstraint, err)
		case sqlite3.ErrCantOpen, sqlite3.ErrIoErr, sqlite3.ErrNotADB, sqlite3.ErrCorrupt,
			sqlite3.ErrReadonly, sqlite3.ErrFull, sqlite3.ErrPerm, sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		// class 23 integrity_constraint_violation, class 22 data_exception
		case strings.HasPrefix(pgErr.Code, "23"), strings.HasPrefix(pgErr.Code, "22"):
			return fmt.Errorf("%w: %w", ErrConstraint, err)
		// class 08 connection_exception, 53 insufficient_resources, 57P operator intervention
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "53"), strings.HasPrefix(pgErr.Code, "57P"):
			return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		return err
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return err
}

// isDuplicateColumn reports whether err says the column being added exists.
func isDuplicateColumn(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return strings.Contains(liteErr.Error(), "duplicate column name")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42701"
	}
	return false
}
