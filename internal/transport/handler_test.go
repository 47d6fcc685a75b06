package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"inventory-ledger/internal/clock"
	"inventory-ledger/internal/config"
	"inventory-ledger/internal/database"
	"inventory-ledger/internal/repository"
	"inventory-ledger/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testStart = time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

func noGuard(next http.Handler) http.Handler { return next }

// newTestRouter wires both handlers onto a fresh SQLite ledger
func newTestRouter(t *testing.T, guard func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	db, err := database.Open(ctx, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "ledger.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.EnsureSchema(ctx, db, logger))

	clk := clock.NewStepping(testStart, time.Second)
	archiveRepo := repository.NewArchiveRepository(db)
	productRepo := repository.NewProductRepository(db, clk, archiveRepo)
	billRepo := repository.NewBillRepository(db, clk)

	router := chi.NewRouter()
	NewProductHandler(service.NewInventoryService(productRepo, archiveRepo, logger), logger).RegisterRoutes(router, guard)
	NewBillHandler(service.NewBillingService(billRepo, logger), logger).RegisterRoutes(router, guard)
	return router
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v), "body: %s", rr.Body.String())
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Details struct {
			ValidationErrors []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"validation_errors"`
		} `json:"details"`
	} `json:"error"`
}

func (e errorBody) fields() []string {
	var fields []string
	for _, v := range e.Error.Details.ValidationErrors {
		fields = append(fields, v.Field)
	}
	return fields
}
