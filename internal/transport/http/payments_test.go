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

type stubPaymentService struct {
	payment domain.Payment
	result  app.PaymentResult
	deleted app.DeleteResult
	err     error
}

func (s *stubPaymentService) CreatePayment(_ context.Context, _ app.CreatePaymentInput) (app.PaymentResult, error) {
	return s.result, s.err
}

func (s *stubPaymentService) UpdatePayment(_ context.Context, _ string, _ app.UpdatePaymentInput) (app.PaymentResult, error) {
	return s.result, s.err
}

func (s *stubPaymentService) DeletePayment(_ context.Context, _ string) (app.DeleteResult, error) {
	return s.deleted, s.err
}

func (s *stubPaymentService) GetPayment(_ context.Context, _ string) (domain.Payment, error) {
	return s.payment, s.err
}

func (s *stubPaymentService) ListPayments(_ context.Context) ([]domain.Payment, error) {
	return []domain.Payment{s.payment}, s.err
}

func (s *stubPaymentService) ListPaymentsByCustomer(_ context.Context, _ string) ([]domain.Payment, error) {
	return []domain.Payment{s.payment}, s.err
}

func TestHandleGetPayment(t *testing.T) {
	t.Parallel()

	payment := domain.Payment{
		ID:         "pay-1",
		CustomerID: "cust-1",
		Amount:     decimal.NewFromInt(2500),
		Date:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "found",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"amount":"2500"`,
		},
		{
			name:           "missing",
			serviceErr:     domain.ErrPaymentNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad id",
			serviceErr:     domain.ErrInvalidID,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubPaymentService{payment: payment, err: tt.serviceErr}

			req := httptest.NewRequest(http.MethodGet, "/payments/pay-1", nil)
			req.SetPathValue("id", "pay-1")
			rec := httptest.NewRecorder()

			HandleGetPayment(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}
