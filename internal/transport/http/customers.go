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

// CustomerService is the minimal interface needed for customer endpoints.
type CustomerService interface {
	CreateCustomer(ctx context.Context, in app.CreateCustomerInput) (domain.Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, in app.UpdateCustomerInput) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error
	GetCustomer(ctx context.Context, customerID string) (domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

type createCustomerRequest struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Contact        string          `json:"contact"`
	PlotNumbers    []string        `json:"plot_ids"`
	DateTaken      string          `json:"date_taken,omitempty"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

type updateCustomerRequest struct {
	Name           *string          `json:"name,omitempty"`
	Email          *string          `json:"email,omitempty"`
	Contact        *string          `json:"contact,omitempty"`
	PlotNumbers    []string         `json:"plot_ids,omitempty"`
	InitialDeposit *decimal.Decimal `json:"initial_deposit,omitempty"`
	TotalPrice     *decimal.Decimal `json:"total_price,omitempty"`
}

type customerResponse struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id,omitempty"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Contact        string          `json:"contact"`
	PlotNumbers    []string        `json:"plot_ids"`
	DateTaken      time.Time       `json:"date_taken"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Balance        decimal.Decimal `json:"balance"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// HandleCreateCustomer returns an HTTP handler for onboarding a customer.
func HandleCreateCustomer(svc CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCustomerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		in := app.CreateCustomerInput{
			Name:           req.Name,
			Email:          req.Email,
			Contact:        req.Contact,
			PlotNumbers:    req.PlotNumbers,
			InitialDeposit: req.InitialDeposit,
			TotalPrice:     req.TotalPrice,
		}
		if req.DateTaken != "" {
			parsed, err := time.Parse(time.RFC3339, req.DateTaken)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid date_taken format")
				return
			}
			in.DateTaken = &parsed
		}

		customer, err := svc.CreateCustomer(r.Context(), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, toCustomerResponse(customer))
	}
}

// HandleListCustomers returns all customers with freshly derived financials.
func HandleListCustomers(svc CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := svc.ListCustomers(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]customerResponse, 0, len(customers))
		for _, c := range customers {
			resp = append(resp, toCustomerResponse(c))
		}
		writeSuccess(w, http.StatusOK, resp)
	}
}

// HandleGetCustomer returns one customer by id.
func HandleGetCustomer(svc CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := svc.GetCustomer(r.Context(), r.PathValue("id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toCustomerResponse(customer))
	}
}

// HandleUpdateCustomer applies partial field changes to a customer.
func HandleUpdateCustomer(svc CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateCustomerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		customer, err := svc.UpdateCustomer(r.Context(), r.PathValue("id"), app.UpdateCustomerInput{
			Name:           req.Name,
			Email:          req.Email,
			Contact:        req.Contact,
			PlotNumbers:    req.PlotNumbers,
			InitialDeposit: req.InitialDeposit,
			TotalPrice:     req.TotalPrice,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toCustomerResponse(customer))
	}
}

// HandleDeleteCustomer removes a customer, their ledger and login account.
func HandleDeleteCustomer(svc CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteCustomer(r.Context(), r.PathValue("id")); err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, nil)
	}
}

func toCustomerResponse(c domain.Customer) customerResponse {
	plots := c.PlotsHeld
	if plots == nil {
		plots = []string{}
	}
	return customerResponse{
		ID:             c.ID,
		AccountID:      c.AccountID,
		Name:           c.Name,
		Email:          c.Email,
		Contact:        c.Contact,
		PlotNumbers:    plots,
		DateTaken:      c.DateTaken,
		InitialDeposit: c.InitialDeposit,
		TotalPrice:     c.TotalPrice,
		Balance:        c.Balance,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
