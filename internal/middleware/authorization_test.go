package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-ledger/internal/service"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequireOperator(t *testing.T) {
	handler := RequireOperator(zap.NewNop())(okHandler())

	tests := []struct {
		name string
		role string
		set  bool
		want int
	}{
		{"operator", service.RoleOperator, true, http.StatusOK},
		{"viewer", service.RoleViewer, true, http.StatusForbidden},
		{"unknown role", "admin", true, http.StatusForbidden},
		{"no role", "", false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/products/1", nil)
			if tt.set {
				req = req.WithContext(context.WithValue(req.Context(), RoleKey, tt.role))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireRole_AnyOfSeveral(t *testing.T) {
	handler := RequireRole([]string{service.RoleOperator, service.RoleViewer}, zap.NewNop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/bills", nil)
	req = req.WithContext(context.WithValue(req.Context(), RoleKey, service.RoleViewer))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
