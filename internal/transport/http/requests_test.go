package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umphart/musabaha-ltd-backend/internal/app"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

type stubRequestService struct {
	request domain.PaymentRequest
	result  app.PaymentResult
	err     error
}

func (s *stubRequestService) SubmitPaymentRequest(_ context.Context, _ app.SubmitPaymentRequestInput) (domain.PaymentRequest, error) {
	return s.request, s.err
}

func (s *stubRequestService) ApprovePaymentRequest(_ context.Context, _, _ string) (app.PaymentResult, error) {
	return s.result, s.err
}

func (s *stubRequestService) RejectPaymentRequest(_ context.Context, _, _ string) error {
	return s.err
}

func (s *stubRequestService) ListPaymentRequests(_ context.Context) ([]domain.PaymentRequest, error) {
	return []domain.PaymentRequest{s.request}, s.err
}

func (s *stubRequestService) ListPaymentRequestsByCustomer(_ context.Context, _ string) ([]domain.PaymentRequest, error) {
	return []domain.PaymentRequest{s.request}, s.err
}

func TestHandleApprovePaymentRequest(t *testing.T) {
	t.Parallel()

	result := app.PaymentResult{
		Payment: domain.Payment{ID: "pay-1", CustomerID: "cust-1", Amount: decimal.NewFromInt(6000)},
		Balance: decimal.Zero,
		Status:  domain.CustomerStatusCompleted,
	}

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "approved",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"status":"Completed"`,
		},
		{
			name:           "request not found",
			serviceErr:     domain.ErrRequestNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "already processed",
			serviceErr:     domain.ErrRequestNotPending,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid id",
			serviceErr:     domain.ErrInvalidID,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubRequestService{result: result, err: tt.serviceErr}

			req := httptest.NewRequest(http.MethodPut, "/payment-requests/req-1/approve", nil)
			req.SetPathValue("id", "req-1")
			rec := httptest.NewRecorder()

			HandleApprovePaymentRequest(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleRejectPaymentRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "rejected with reason",
			body:           `{"reason":"duplicate submission"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "rejected without body",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "already processed",
			serviceErr:     domain.ErrRequestNotPending,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "malformed body",
			body:           `{"reason":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubRequestService{err: tt.serviceErr}

			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(http.MethodPut, "/payment-requests/req-1/reject", body)
			req.SetPathValue("id", "req-1")
			rec := httptest.NewRecorder()

			HandleRejectPaymentRequest(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func TestHandleSubmitPaymentRequest_JSON(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := &stubRequestService{request: domain.PaymentRequest{
		ID:         "req-1",
		CustomerID: "cust-1",
		Amount:     decimal.NewFromInt(2500),
		Method:     "bank_transfer",
		Status:     domain.RequestStatusPending,
		CreatedAt:  now,
	}}

	body := strings.NewReader(`{"customer_id":"cust-1","amount":"2500"}`)
	req := httptest.NewRequest(http.MethodPost, "/payment-requests", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	HandleSubmitPaymentRequest(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"pending"`) {
		t.Fatalf("expected pending request in response, got %q", rec.Body.String())
	}
}
