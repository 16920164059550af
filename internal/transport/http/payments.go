package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umphart/musabaha-ltd-backend/internal/app"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

// PaymentService is the minimal interface needed for ledger endpoints.
type PaymentService interface {
	CreatePayment(ctx context.Context, in app.CreatePaymentInput) (app.PaymentResult, error)
	UpdatePayment(ctx context.Context, paymentID string, in app.UpdatePaymentInput) (app.PaymentResult, error)
	DeletePayment(ctx context.Context, paymentID string) (app.DeleteResult, error)
	GetPayment(ctx context.Context, paymentID string) (domain.Payment, error)
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	ListPaymentsByCustomer(ctx context.Context, customerID string) ([]domain.Payment, error)
}

type createPaymentRequest struct {
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date,omitempty"`
	Note       string          `json:"note,omitempty"`
	RecordedBy string          `json:"recorded_by,omitempty"`
}

type updatePaymentRequest struct {
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Date       *string          `json:"date,omitempty"`
	Note       *string          `json:"note,omitempty"`
	RecordedBy *string          `json:"recorded_by,omitempty"`
}

type paymentResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Note       string          `json:"note,omitempty"`
	RecordedBy string          `json:"recorded_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type paymentResultResponse struct {
	Payment   paymentResponse `json:"payment"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status"`
}

// HandleCreatePayment records a ledger entry and returns the recomputed
// customer financials alongside it.
func HandleCreatePayment(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPaymentRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		in := app.CreatePaymentInput{
			CustomerID: req.CustomerID,
			Amount:     req.Amount,
			Note:       req.Note,
			RecordedBy: req.RecordedBy,
		}
		if req.Date != "" {
			parsed, err := time.Parse(time.RFC3339, req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid date format")
				return
			}
			in.Date = &parsed
		}

		res, err := svc.CreatePayment(r.Context(), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, toPaymentResultResponse(res))
	}
}

// HandleListPayments returns the full ledger across customers.
func HandleListPayments(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payments, err := svc.ListPayments(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toPaymentResponses(payments))
	}
}

// HandleGetPayment returns one ledger entry by id.
func HandleGetPayment(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payment, err := svc.GetPayment(r.Context(), r.PathValue("id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toPaymentResponse(payment))
	}
}

// HandleListCustomerPayments returns one customer's ledger.
func HandleListCustomerPayments(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payments, err := svc.ListPaymentsByCustomer(r.Context(), r.PathValue("id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toPaymentResponses(payments))
	}
}

// HandleUpdatePayment corrects a ledger entry and recomputes financials.
func HandleUpdatePayment(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePaymentRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		in := app.UpdatePaymentInput{
			Amount:     req.Amount,
			Note:       req.Note,
			RecordedBy: req.RecordedBy,
		}
		if req.Date != nil {
			parsed, err := time.Parse(time.RFC3339, *req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid date format")
				return
			}
			in.Date = &parsed
		}

		res, err := svc.UpdatePayment(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toPaymentResultResponse(res))
	}
}

// HandleDeletePayment removes a ledger entry; the response carries the
// customer's financials recomputed as if it never existed.
func HandleDeletePayment(svc PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.DeletePayment(r.Context(), r.PathValue("id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, map[string]any{
			"balance": res.Balance,
			"status":  string(res.Status),
		})
	}
}

func toPaymentResponse(p domain.Payment) paymentResponse {
	return paymentResponse{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		Amount:     p.Amount,
		Date:       p.Date,
		Note:       p.Note,
		RecordedBy: p.RecordedBy,
		CreatedAt:  p.CreatedAt,
	}
}

func toPaymentResponses(payments []domain.Payment) []paymentResponse {
	resp := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, toPaymentResponse(p))
	}
	return resp
}

func toPaymentResultResponse(res app.PaymentResult) paymentResultResponse {
	return paymentResultResponse{
		Payment:   toPaymentResponse(res.Payment),
		TotalPaid: res.TotalPaid,
		Balance:   res.Balance,
		Status:    string(res.Status),
	}
}
