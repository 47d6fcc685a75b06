package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"inventory-ledger/internal/clock"
	"inventory-ledger/internal/config"
	"inventory-ledger/internal/database"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testStart = time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

// testStore bundles the three repositories over one fresh SQLite file
type testStore struct {
	db       *database.DB
	clock    *clock.Stepping
	products *productRepository
	bills    BillRepository
	archive  ArchiveRepository
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "ledger.db"),
	}

	db, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.EnsureSchema(context.Background(), db, zap.NewNop()))
	return db
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	return newStoreOn(newTestDB(t))
}

func newStoreOn(db *database.DB) *testStore {
	clk := clock.NewStepping(testStart, time.Second)
	archive := NewArchiveRepository(db)
	return &testStore{
		db:       db,
		clock:    clk,
		products: NewProductRepository(db, clk, archive).(*productRepository),
		bills:    NewBillRepository(db, clk),
		archive:  archive,
	}
}

func (s *testStore) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
