package http

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umphart/musabaha-ltd-backend/internal/app"
	"github.com/umphart/musabaha-ltd-backend/internal/blob"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

const maxUploadSize = 32 << 20

// PaymentRequestService is the minimal interface for the request workflow.
type PaymentRequestService interface {
	SubmitPaymentRequest(ctx context.Context, in app.SubmitPaymentRequestInput) (domain.PaymentRequest, error)
	ApprovePaymentRequest(ctx context.Context, requestID, approvedBy string) (app.PaymentResult, error)
	RejectPaymentRequest(ctx context.Context, requestID, reason string) error
	ListPaymentRequests(ctx context.Context) ([]domain.PaymentRequest, error)
	ListPaymentRequestsByCustomer(ctx context.Context, customerID string) ([]domain.PaymentRequest, error)
}

type paymentRequestResponse struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	PlotNumber      string          `json:"plot_number,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method"`
	TransactionDate time.Time       `json:"transaction_date"`
	Notes           string          `json:"notes,omitempty"`
	ReceiptRef      string          `json:"receipt_ref,omitempty"`
	Status          string          `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// HandleSubmitPaymentRequest accepts a customer payment claim, either as
// JSON or as a multipart form carrying a receipt image.
func HandleSubmitPaymentRequest(svc PaymentRequestService, files blob.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeSubmitRequest(w, r, files)
		if !ok {
			return
		}

		request, err := svc.SubmitPaymentRequest(r.Context(), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, toRequestResponse(request))
	}
}

func decodeSubmitRequest(w http.ResponseWriter, r *http.Request, files blob.Store) (app.SubmitPaymentRequestInput, bool) {
	var in app.SubmitPaymentRequestInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req struct {
			CustomerID      string          `json:"customer_id"`
			PlotNumber      string          `json:"plot_number,omitempty"`
			Amount          decimal.Decimal `json:"amount"`
			Method          string          `json:"method,omitempty"`
			TransactionDate string          `json:"transaction_date,omitempty"`
			Notes           string          `json:"notes,omitempty"`
		}
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return in, false
		}
		in = app.SubmitPaymentRequestInput{
			CustomerID: req.CustomerID,
			PlotNumber: req.PlotNumber,
			Amount:     req.Amount,
			Method:     req.Method,
			Notes:      req.Notes,
		}
		if req.TransactionDate != "" {
			parsed, err := time.Parse(time.RFC3339, req.TransactionDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid transaction_date format")
				return in, false
			}
			in.TransactionDate = &parsed
		}
		return in, true
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid multipart form")
		return in, false
	}

	in = app.SubmitPaymentRequestInput{
		CustomerID: r.FormValue("customer_id"),
		PlotNumber: r.FormValue("plot_number"),
		Method:     r.FormValue("method"),
		Notes:      r.FormValue("notes"),
	}
	if raw := r.FormValue("amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidAmount, "invalid amount")
			return in, false
		}
		in.Amount = amount
	}
	if raw := r.FormValue("transaction_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid transaction_date format")
			return in, false
		}
		in.TransactionDate = &parsed
	}

	ref, ok := saveUpload(w, r, files, "receipt")
	if !ok {
		return in, false
	}
	in.ReceiptRef = ref
	return in, true
}

// HandleListPaymentRequests returns all requests, newest first.
func HandleListPaymentRequests(svc PaymentRequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, err := svc.ListPaymentRequests(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toRequestResponses(requests))
	}
}

// HandleListCustomerPaymentRequests returns one customer's requests.
func HandleListCustomerPaymentRequests(svc PaymentRequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, err := svc.ListPaymentRequestsByCustomer(r.Context(), r.PathValue("id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toRequestResponses(requests))
	}
}

// HandleApprovePaymentRequest materializes a pending request into the
// ledger. The approver is the authenticated admin.
func HandleApprovePaymentRequest(svc PaymentRequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		approvedBy := ""
		if claims, ok := claimsFromContext(r.Context()); ok {
			approvedBy = claims.AccountID
		}

		res, err := svc.ApprovePaymentRequest(r.Context(), r.PathValue("id"), approvedBy)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toPaymentResultResponse(res))
	}
}

// HandleRejectPaymentRequest marks a pending request rejected.
func HandleRejectPaymentRequest(svc PaymentRequestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Reason string `json:"reason,omitempty"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
		}

		if err := svc.RejectPaymentRequest(r.Context(), r.PathValue("id"), req.Reason); err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, nil)
	}
}

// saveUpload stores the named multipart file when present. Missing files are
// not an error; broken uploads are.
func saveUpload(w http.ResponseWriter, r *http.Request, files blob.Store, field string) (string, bool) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid "+field+" upload")
		return "", false
	}
	defer file.Close()

	ref, err := files.Save(header.Filename, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "failed to store "+field)
		return "", false
	}
	return ref, true
}

func toRequestResponse(q domain.PaymentRequest) paymentRequestResponse {
	return paymentRequestResponse{
		ID:              q.ID,
		CustomerID:      q.CustomerID,
		PlotNumber:      q.PlotNumber,
		Amount:          q.Amount,
		Method:          q.Method,
		TransactionDate: q.TransactionDate,
		Notes:           q.Notes,
		ReceiptRef:      q.ReceiptRef,
		Status:          string(q.Status),
		RejectionReason: q.RejectionReason,
		CreatedAt:       q.CreatedAt,
	}
}

func toRequestResponses(requests []domain.PaymentRequest) []paymentRequestResponse {
	resp := make([]paymentRequestResponse, 0, len(requests))
	for _, q := range requests {
		resp = append(resp, toRequestResponse(q))
	}
	return resp
}
