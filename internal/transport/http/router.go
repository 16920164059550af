package http

import (
	"net/http"

	"github.com/umphart/musabaha-ltd-backend/internal/blob"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

// RouterConfig carries the services the route table needs.
type RouterConfig struct {
	Accounts      AccountService
	Customers     CustomerService
	Payments      PaymentService
	Requests      PaymentRequestService
	Subscriptions SubscriptionService
	Plots         PlotService
	Files         blob.Store
	Verifier      TokenVerifier
}

// NewRouter builds the route table. Admin-only routes sit behind the auth
// middleware with the admin role; customer-facing reads accept either role.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	admin := func(h http.Handler) http.Handler {
		return RequireAuth(cfg.Verifier, h, domain.RoleAdmin)
	}
	authed := func(h http.Handler) http.Handler {
		return RequireAuth(cfg.Verifier, h)
	}

	mux.HandleFunc("GET /health", HealthHandler)

	mux.Handle("POST /auth/register", HandleRegisterCustomer(cfg.Accounts))
	mux.Handle("POST /auth/admin/register", HandleRegisterAdmin(cfg.Accounts))
	mux.Handle("POST /auth/admin/login", HandleLogin(cfg.Accounts, domain.RoleAdmin))
	mux.Handle("POST /auth/login", HandleLogin(cfg.Accounts, domain.RoleCustomer))
	mux.Handle("GET /auth/me", authed(HandleCurrentAccount(cfg.Accounts)))

	mux.Handle("POST /customers", admin(HandleCreateCustomer(cfg.Customers)))
	mux.Handle("GET /customers", admin(HandleListCustomers(cfg.Customers)))
	mux.Handle("GET /customers/{id}", authed(HandleGetCustomer(cfg.Customers)))
	mux.Handle("PUT /customers/{id}", admin(HandleUpdateCustomer(cfg.Customers)))
	mux.Handle("DELETE /customers/{id}", admin(HandleDeleteCustomer(cfg.Customers)))
	mux.Handle("GET /customers/{id}/payments", authed(HandleListCustomerPayments(cfg.Payments)))
	mux.Handle("GET /customers/{id}/payment-requests", authed(HandleListCustomerPaymentRequests(cfg.Requests)))

	mux.Handle("POST /payments", admin(HandleCreatePayment(cfg.Payments)))
	mux.Handle("GET /payments", admin(HandleListPayments(cfg.Payments)))
	mux.Handle("GET /payments/{id}", admin(HandleGetPayment(cfg.Payments)))
	mux.Handle("PUT /payments/{id}", admin(HandleUpdatePayment(cfg.Payments)))
	mux.Handle("DELETE /payments/{id}", admin(HandleDeletePayment(cfg.Payments)))

	mux.Handle("POST /payment-requests", authed(HandleSubmitPaymentRequest(cfg.Requests, cfg.Files)))
	mux.Handle("GET /payment-requests", admin(HandleListPaymentRequests(cfg.Requests)))
	mux.Handle("PUT /payment-requests/{id}/approve", admin(HandleApprovePaymentRequest(cfg.Requests)))
	mux.Handle("PUT /payment-requests/{id}/reject", admin(HandleRejectPaymentRequest(cfg.Requests)))

	mux.Handle("POST /subscriptions", HandleSubmitSubscription(cfg.Subscriptions, cfg.Files))
	mux.Handle("GET /subscriptions", admin(HandleListSubscriptions(cfg.Subscriptions)))
	mux.Handle("GET /subscriptions/{id}", authed(HandleGetSubscription(cfg.Subscriptions)))
	mux.Handle("PUT /subscriptions/{id}/approve", admin(HandleApproveSubscription(cfg.Subscriptions)))
	mux.Handle("PUT /subscriptions/{id}/reject", admin(HandleRejectSubscription(cfg.Subscriptions)))

	mux.Handle("POST /plots", admin(HandleCreatePlot(cfg.Plots)))
	mux.Handle("GET /plots", HandleListPlots(cfg.Plots))
	mux.Handle("GET /plots/{number}", HandleGetPlot(cfg.Plots))

	mux.Handle("/", NotFoundHandler())

	return mux
}
