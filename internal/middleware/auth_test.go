package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-ledger/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// Property: protected endpoints reject requests without a token
func TestProperty_ProtectedEndpointsRejectMissingTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(pathSuffix string, method string) bool {
			handler := AuthMiddleware(service.NewTokenService(testSecret), zap.NewNop())(okHandler())

			req := httptest.NewRequest(method, "/api/"+pathSuffix, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: tokens that are not valid JWTs are rejected
func TestProperty_InvalidTokenFormatRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("invalid token formats are rejected", prop.ForAll(
		func(invalidToken string) bool {
			handler := AuthMiddleware(service.NewTokenService(testSecret), zap.NewNop())(okHandler())

			req := httptest.NewRequest("GET", "/api/products", nil)
			req.Header.Set("Authorization", "Bearer "+invalidToken)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: valid host tokens reach the handler with their role in context
func TestProperty_ValidTokensAllowProcessing(t *testing.T) {
	tokens := service.NewTokenService(testSecret)
	properties := gopter.NewProperties(nil)

	properties.Property("valid tokens allow request processing", prop.ForAll(
		func(role string) bool {
			tokenString, err := tokens.IssueToken(role, time.Hour)
			if err != nil {
				return false
			}

			var gotRole, gotID string
			handler := AuthMiddleware(tokens, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotRole, _ = GetRole(r.Context())
				gotID, _ = GetTokenID(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/api/products", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusOK && gotRole == role && gotID != ""
		},
		gen.OneConstOf(service.RoleOperator, service.RoleViewer),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthMiddleware_RejectsMalformedHeaders(t *testing.T) {
	tokenString, err := service.NewTokenService(testSecret).IssueToken(service.RoleOperator, time.Hour)
	require.NoError(t, err)

	handler := AuthMiddleware(service.NewTokenService(testSecret), zap.NewNop())(okHandler())

	for _, header := range []string{
		tokenString,
		"Basic " + tokenString,
		"Bearer",
		"Bearer ",
		"Bearer " + tokenString + " extra",
	} {
		req := httptest.NewRequest("GET", "/api/products", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"role": service.RoleOperator,
		"exp":  time.Now().Add(-1 * time.Hour).Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	handler := AuthMiddleware(service.NewTokenService(testSecret), zap.NewNop())(okHandler())

	req := httptest.NewRequest("GET", "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	tokenString, err := service.NewTokenService("another-secret").IssueToken(service.RoleOperator, time.Hour)
	require.NoError(t, err)

	handler := AuthMiddleware(service.NewTokenService(testSecret), zap.NewNop())(okHandler())

	req := httptest.NewRequest("GET", "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}
