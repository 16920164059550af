package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/umphart/musabaha-ltd-backend/internal/app"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

// AccountService is the minimal interface needed for login and registration.
type AccountService interface {
	RegisterAdmin(ctx context.Context, in app.RegisterInput) (domain.Account, error)
	RegisterCustomerAccount(ctx context.Context, in app.RegisterInput) (domain.Account, error)
	Login(ctx context.Context, email, password string, role domain.AccountRole) (app.LoginResult, error)
	CurrentAccount(ctx context.Context, accountID string) (domain.Account, error)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Account accountResponse `json:"account"`
	Token   string          `json:"token"`
}

// HandleRegisterAdmin returns an HTTP handler for creating admin accounts.
func HandleRegisterAdmin(svc AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		account, err := svc.RegisterAdmin(r.Context(), app.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, toAccountResponse(account))
	}
}

// HandleRegisterCustomer returns an HTTP handler for customer
// self-registration.
func HandleRegisterCustomer(svc AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		account, err := svc.RegisterCustomerAccount(r.Context(), app.RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, toAccountResponse(account))
	}
}

// HandleLogin returns an HTTP handler exchanging credentials for a token.
// The role pins the endpoint: admin logins cannot use customer accounts and
// vice versa.
func HandleLogin(svc AccountService, role domain.AccountRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Password, role)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, loginResponse{
			Account: toAccountResponse(res.Account),
			Token:   res.Token,
		})
	}
}

// HandleCurrentAccount returns the account behind the verified token.
func HandleCurrentAccount(svc AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
			return
		}

		account, err := svc.CurrentAccount(r.Context(), claims.AccountID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toAccountResponse(account))
	}
}

func toAccountResponse(a domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt,
	}
}
