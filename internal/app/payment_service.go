package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/umphart/musabaha-ltd-backend/internal/clock"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

type PaymentRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	GetCustomerForUpdate(ctx context.Context, id string) (domain.Customer, error)
	UpdateCustomerFinancials(ctx context.Context, customerID string, fin domain.Financials, now time.Time) error

	CreatePayment(ctx context.Context, p domain.Payment) error
	GetPayment(ctx context.Context, id string) (domain.Payment, error)
	UpdatePayment(ctx context.Context, p domain.Payment) error
	DeletePayment(ctx context.Context, id string) error
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	ListPaymentsByCustomer(ctx context.Context, customerID string) ([]domain.Payment, error)

	CreatePaymentRequest(ctx context.Context, r domain.PaymentRequest) error
	GetPaymentRequest(ctx context.Context, id string) (domain.PaymentRequest, error)
	GetPaymentRequestForUpdate(ctx context.Context, id string) (domain.PaymentRequest, error)
	UpdatePaymentRequestStatus(ctx context.Context, id string, status domain.RequestStatus, reason string, now time.Time) error
	ListPaymentRequests(ctx context.Context) ([]domain.PaymentRequest, error)
	ListPaymentRequestsByCustomer(ctx context.Context, customerID string) ([]domain.PaymentRequest, error)
	RecordRejectedRequest(ctx context.Context, r domain.PaymentRequest) error
}

// PaymentService coordinates ledger mutations. Every operation that touches
// the ledger recomputes and persists the owning customer's balance and status
// inside the same transaction, so stored and derived values never diverge.
type PaymentService struct {
	repo  PaymentRepository
	clock clock.Clock
}

func NewPaymentService(repo PaymentRepository, clk clock.Clock) *PaymentService {
	return &PaymentService{
		repo:  repo,
		clock: clk,
	}
}

// PaymentResult is a ledger entry enriched with the customer's recomputed
// financial state.
type PaymentResult struct {
	Payment   domain.Payment
	TotalPaid decimal.Decimal
	Balance   decimal.Decimal
	Status    domain.CustomerStatus
}

type CreatePaymentInput struct {
	CustomerID string
	Amount     decimal.Decimal
	Date       *time.Time
	Note       string
	RecordedBy string
}

func (s *PaymentService) CreatePayment(ctx context.Context, in CreatePaymentInput) (PaymentResult, error) {
	if in.CustomerID == "" {
		return PaymentResult{}, domain.ErrInvalidID
	}
	if !in.Amount.IsPositive() {
		return PaymentResult{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}

	var result PaymentResult
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		customer, err := s.repo.GetCustomerForUpdate(txCtx, in.CustomerID)
		if err != nil {
			return err
		}

		payment := domain.Payment{
			ID:         uuid.NewString(),
			CustomerID: customer.ID,
			Amount:     in.Amount,
			Date:       date,
			Note:       in.Note,
			RecordedBy: in.RecordedBy,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.CreatePayment(txCtx, payment); err != nil {
			return err
		}

		fin, err := s.recompute(txCtx, customer, now)
		if err != nil {
			return err
		}

		result = PaymentResult{Payment: payment, TotalPaid: fin.TotalPaid, Balance: fin.Balance, Status: fin.Status}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}
	return result, nil
}

type UpdatePaymentInput struct {
	Amount     *decimal.Decimal
	Date       *time.Time
	Note       *string
	RecordedBy *string
}

func (s *PaymentService) UpdatePayment(ctx context.Context, paymentID string, in UpdatePaymentInput) (PaymentResult, error) {
	if in.Amount != nil && !in.Amount.IsPositive() {
		return PaymentResult{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	var result PaymentResult
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		payment, err := s.repo.GetPayment(txCtx, paymentID)
		if err != nil {
			return err
		}
		customer, err := s.repo.GetCustomerForUpdate(txCtx, payment.CustomerID)
		if err != nil {
			return err
		}

		if in.Amount != nil {
			payment.Amount = *in.Amount
		}
		if in.Date != nil {
			payment.Date = *in.Date
		}
		if in.Note != nil {
			payment.Note = *in.Note
		}
		if in.RecordedBy != nil {
			payment.RecordedBy = *in.RecordedBy
		}
		payment.UpdatedAt = now

		if err := s.repo.UpdatePayment(txCtx, payment); err != nil {
			return err
		}

		fin, err := s.recompute(txCtx, customer, now)
		if err != nil {
			return err
		}

		result = PaymentResult{Payment: payment, TotalPaid: fin.TotalPaid, Balance: fin.Balance, Status: fin.Status}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}
	return result, nil
}

// DeleteResult reports the customer's financial state after a correction.
type DeleteResult struct {
	Balance decimal.Decimal
	Status  domain.CustomerStatus
}

func (s *PaymentService) DeletePayment(ctx context.Context, paymentID string) (DeleteResult, error) {
	now := s.clock.Now()
	var result DeleteResult
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		payment, err := s.repo.GetPayment(txCtx, paymentID)
		if err != nil {
			return err
		}
		customer, err := s.repo.GetCustomerForUpdate(txCtx, payment.CustomerID)
		if err != nil {
			return err
		}
		if err := s.repo.DeletePayment(txCtx, paymentID); err != nil {
			return err
		}

		fin, err := s.recompute(txCtx, customer, now)
		if err != nil {
			return err
		}
		result = DeleteResult{Balance: fin.Balance, Status: fin.Status}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return result, nil
}

type SubmitPaymentRequestInput struct {
	CustomerID      string
	PlotNumber      string
	Amount          decimal.Decimal
	Method          string
	TransactionDate *time.Time
	Notes           string
	ReceiptRef      string
}

const defaultPaymentMethod = "bank_transfer"

func (s *PaymentService) SubmitPaymentRequest(ctx context.Context, in SubmitPaymentRequestInput) (domain.PaymentRequest, error) {
	if in.CustomerID == "" {
		return domain.PaymentRequest{}, domain.ErrInvalidID
	}
	if !in.Amount.IsPositive() {
		return domain.PaymentRequest{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	txDate := now
	if in.TransactionDate != nil {
		txDate = *in.TransactionDate
	}
	method := in.Method
	if method == "" {
		method = defaultPaymentMethod
	}

	request := domain.PaymentRequest{
		ID:              uuid.NewString(),
		CustomerID:      in.CustomerID,
		PlotNumber:      in.PlotNumber,
		Amount:          in.Amount,
		Method:          method,
		TransactionDate: txDate,
		Notes:           in.Notes,
		ReceiptRef:      in.ReceiptRef,
		Status:          domain.RequestStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetCustomer(txCtx, in.CustomerID); err != nil {
			return err
		}
		return s.repo.CreatePaymentRequest(txCtx, request)
	})
	if err != nil {
		return domain.PaymentRequest{}, err
	}
	return request, nil
}

// ApprovePaymentRequest materializes a pending request into a ledger entry
// and recomputes the customer's balance from the full ledger. Approving a
// non-pending request fails without state change.
func (s *PaymentService) ApprovePaymentRequest(ctx context.Context, requestID, approvedBy string) (PaymentResult, error) {
	now := s.clock.Now()
	var result PaymentResult
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		request, err := s.repo.GetPaymentRequestForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}
		if request.Status != domain.RequestStatusPending {
			return domain.ErrRequestNotPending
		}

		customer, err := s.repo.GetCustomerForUpdate(txCtx, request.CustomerID)
		if err != nil {
			return err
		}

		payment := domain.Payment{
			ID:         uuid.NewString(),
			CustomerID: customer.ID,
			Amount:     request.Amount,
			Date:       request.TransactionDate,
			Note:       request.Notes,
			RecordedBy: approvedBy,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.CreatePayment(txCtx, payment); err != nil {
			return err
		}
		if err := s.repo.UpdatePaymentRequestStatus(txCtx, request.ID, domain.RequestStatusApproved, "", now); err != nil {
			return err
		}

		fin, err := s.recompute(txCtx, customer, now)
		if err != nil {
			return err
		}
		result = PaymentResult{Payment: payment, TotalPaid: fin.TotalPaid, Balance: fin.Balance, Status: fin.Status}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}
	return result, nil
}

// RejectPaymentRequest marks a pending request rejected. The rejection audit
// row is written after commit; a failed audit insert inside the transaction
// would abort the rejection itself.
func (s *PaymentService) RejectPaymentRequest(ctx context.Context, requestID, reason string) error {
	now := s.clock.Now()
	if reason == "" {
		reason = "No reason provided"
	}

	var rejected domain.PaymentRequest
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		request, err := s.repo.GetPaymentRequestForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}
		if request.Status != domain.RequestStatusPending {
			return domain.ErrRequestNotPending
		}
		if err := s.repo.UpdatePaymentRequestStatus(txCtx, request.ID, domain.RequestStatusRejected, reason, now); err != nil {
			return err
		}
		request.Status = domain.RequestStatusRejected
		request.RejectionReason = reason
		rejected = request
		return nil
	})
	if err != nil {
		return err
	}

	// Best effort.
	_ = s.repo.RecordRejectedRequest(ctx, rejected)
	return nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id string) (domain.Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

func (s *PaymentService) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.repo.ListPayments(ctx)
}

func (s *PaymentService) ListPaymentsByCustomer(ctx context.Context, customerID string) ([]domain.Payment, error) {
	if customerID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListPaymentsByCustomer(ctx, customerID)
}

func (s *PaymentService) GetPaymentRequest(ctx context.Context, id string) (domain.PaymentRequest, error) {
	return s.repo.GetPaymentRequest(ctx, id)
}

func (s *PaymentService) ListPaymentRequests(ctx context.Context) ([]domain.PaymentRequest, error) {
	return s.repo.ListPaymentRequests(ctx)
}

func (s *PaymentService) ListPaymentRequestsByCustomer(ctx context.Context, customerID string) ([]domain.PaymentRequest, error) {
	if customerID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListPaymentRequestsByCustomer(ctx, customerID)
}

// recompute reads the full post-write ledger and persists the derived
// balance and status back to the customer row.
func (s *PaymentService) recompute(ctx context.Context, customer domain.Customer, now time.Time) (domain.Financials, error) {
	ledger, err := s.repo.ListPaymentsByCustomer(ctx, customer.ID)
	if err != nil {
		return domain.Financials{}, err
	}
	fin := domain.ComputeFinancials(customer.TotalPrice, customer.InitialDeposit, customer.Status, ledger)
	if err := s.repo.UpdateCustomerFinancials(ctx, customer.ID, fin, now); err != nil {
		return domain.Financials{}, err
	}
	return fin, nil
}
