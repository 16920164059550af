package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/umphart/musabaha-ltd-backend/internal/auth"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	authenticator := auth.New("test-secret")
	now := time.Now()

	adminToken, err := authenticator.IssueToken("acct-admin", domain.RoleAdmin, now)
	if err != nil {
		t.Fatalf("issue admin token: %v", err)
	}
	customerToken, err := authenticator.IssueToken("acct-cust", domain.RoleCustomer, now)
	if err != nil {
		t.Fatalf("issue customer token: %v", err)
	}

	tests := []struct {
		name           string
		authorization  string
		roles          []domain.AccountRole
		expectedStatus int
	}{
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not a bearer token",
			authorization:  "Basic abc123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authorization:  "Bearer not-a-jwt",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid token, no role restriction",
			authorization:  "Bearer " + customerToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid token, role allowed",
			authorization:  "Bearer " + adminToken,
			roles:          []domain.AccountRole{domain.RoleAdmin},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid token, role denied",
			authorization:  "Bearer " + customerToken,
			roles:          []domain.AccountRole{domain.RoleAdmin},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if _, ok := claimsFromContext(r.Context()); !ok {
					t.Error("expected claims on request context")
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/customers", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()

			RequireAuth(authenticator, next, tt.roles...).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	authenticator := auth.New("test-secret")
	stale, err := authenticator.IssueToken("acct-1", domain.RoleAdmin, time.Now().Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	req.Header.Set("Authorization", "Bearer "+stale)
	rec := httptest.NewRecorder()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for an expired token")
	})
	RequireAuth(authenticator, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}
