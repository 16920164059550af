package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"
	codeInvalidAmount      = "invalid_amount"
	codeInvalidPrice       = "invalid_price"
	codeMissingField       = "missing_required_field"
	codeUnauthorized       = "unauthorized"
	codeForbidden          = "forbidden"
	codeConflict           = "conflict"
	codeEmailTaken         = "email_taken"
	codePlotNumberTaken    = "plot_number_taken"
	codePlotUnavailable    = "plot_unavailable"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Success: false,
		Error:   msg,
		Code:    code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"success":false,"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successResponse{Success: true, Data: data})
}

// writeDomainError maps service errors onto HTTP statuses. Wrapped errors
// (batch plot failures carry the plot number in the message) still match.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrEmailRequired),
		errors.Is(err, domain.ErrContactRequired),
		errors.Is(err, domain.ErrPasswordRequired),
		errors.Is(err, domain.ErrNoPlotsSelected):
		writeError(w, http.StatusBadRequest, codeMissingField, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrSubscriptionNotFound),
		errors.Is(err, domain.ErrPlotNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrPlotNotAvailable),
		errors.Is(err, domain.ErrPlotNotReserved),
		errors.Is(err, domain.ErrPlotNotHeld):
		writeError(w, http.StatusConflict, codePlotUnavailable, err.Error())
	case errors.Is(err, domain.ErrRequestNotPending),
		errors.Is(err, domain.ErrSubscriptionNotPending):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, codeEmailTaken, err.Error())
	case errors.Is(err, domain.ErrPlotNumberTaken):
		writeError(w, http.StatusConflict, codePlotNumberTaken, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
