package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

func TestWriteDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"missing field", domain.ErrNameRequired, http.StatusBadRequest, codeMissingField},
		{"bad amount", domain.ErrInvalidAmount, http.StatusBadRequest, codeInvalidAmount},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, codeUnauthorized},
		{"customer missing", domain.ErrCustomerNotFound, http.StatusNotFound, codeNotFound},
		{"plot contended", domain.ErrPlotNotAvailable, http.StatusConflict, codePlotUnavailable},
		{"request settled", domain.ErrRequestNotPending, http.StatusConflict, codeConflict},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict, codeEmailTaken},
		{"plot number taken", domain.ErrPlotNumberTaken, http.StatusConflict, codePlotNumberTaken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()

			writeDomainError(rec, tt.err)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if resp.Code != tt.expectedCode {
				t.Fatalf("expected code %q, got %q", tt.expectedCode, resp.Code)
			}
			if resp.Success {
				t.Fatal("expected success=false")
			}
		})
	}
}
