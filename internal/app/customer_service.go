package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/umphart/musabaha-ltd-backend/internal/clock"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

type CustomerRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	CreateAccount(ctx context.Context, a domain.Account) error
	DeleteAccount(ctx context.Context, id string) error

	CreateCustomer(ctx context.Context, c domain.Customer) error
	GetCustomer(ctx context.Context, id string) (domain.Customer, error)
	GetCustomerForUpdate(ctx context.Context, id string) (domain.Customer, error)
	UpdateCustomer(ctx context.Context, c domain.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	UpdateCustomerFinancials(ctx context.Context, customerID string, fin domain.Financials, now time.Time) error

	ListPaymentsByCustomer(ctx context.Context, customerID string) ([]domain.Payment, error)
	DeletePaymentsByCustomer(ctx context.Context, customerID string) error

	GetPlotForUpdate(ctx context.Context, number string) (domain.Plot, error)
	UpdatePlot(ctx context.Context, p domain.Plot) error
}

// PasswordHasher is the slice of the authenticator the customer manager
// needs to seed login credentials.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// CustomerService manages customer records and their linked login accounts.
// Plot membership changes go through the plot state machine; financial
// changes recompute balance and status from the full ledger.
type CustomerService struct {
	repo   CustomerRepository
	hasher PasswordHasher
	clock  clock.Clock
}

func NewCustomerService(repo CustomerRepository, hasher PasswordHasher, clk clock.Clock) *CustomerService {
	return &CustomerService{
		repo:   repo,
		hasher: hasher,
		clock:  clk,
	}
}

type CreateCustomerInput struct {
	Name           string
	Email          string
	Contact        string
	PlotNumbers    []string
	DateTaken      *time.Time
	InitialDeposit decimal.Decimal
	TotalPrice     decimal.Decimal
}

// CreateCustomer onboards a buyer: a login account (default password seeded
// from the contact number, legacy behavior), the customer record with derived
// financials, and a direct sale of each listed plot. One transaction.
func (s *CustomerService) CreateCustomer(ctx context.Context, in CreateCustomerInput) (domain.Customer, error) {
	if in.Name == "" {
		return domain.Customer{}, domain.ErrNameRequired
	}
	if in.Email == "" {
		return domain.Customer{}, domain.ErrEmailRequired
	}
	if in.Contact == "" {
		return domain.Customer{}, domain.ErrContactRequired
	}
	if !in.TotalPrice.IsPositive() {
		return domain.Customer{}, domain.ErrInvalidPrice
	}
	if in.InitialDeposit.IsNegative() {
		return domain.Customer{}, domain.ErrInvalidAmount
	}

	hash, err := s.hasher.HashPassword(in.Contact)
	if err != nil {
		return domain.Customer{}, err
	}

	now := s.clock.Now()
	dateTaken := now
	if in.DateTaken != nil {
		dateTaken = *in.DateTaken
	}

	fin := domain.ComputeFinancials(in.TotalPrice, in.InitialDeposit, "", nil)

	customer := domain.Customer{
		ID:             uuid.NewString(),
		AccountID:      uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		Contact:        in.Contact,
		PlotsHeld:      append([]string(nil), in.PlotNumbers...),
		DateTaken:      dateTaken,
		InitialDeposit: in.InitialDeposit,
		TotalPrice:     in.TotalPrice,
		Balance:        fin.Balance,
		Status:         fin.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		account := domain.Account{
			ID:           customer.AccountID,
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: hash,
			Role:         domain.RoleCustomer,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.CreateAccount(txCtx, account); err != nil {
			return err
		}
		if err := s.repo.CreateCustomer(txCtx, customer); err != nil {
			return err
		}
		return s.sellPlots(txCtx, customer.PlotsHeld, customer.Name, now)
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

type UpdateCustomerInput struct {
	Name           *string
	Email          *string
	Contact        *string
	PlotNumbers    []string // nil means unchanged
	InitialDeposit *decimal.Decimal
	TotalPrice     *decimal.Decimal
}

// UpdateCustomer applies field changes. A changed plot list releases every
// previously held plot before selling the new ones; a changed deposit or
// total price recomputes balance and status from the full ledger.
func (s *CustomerService) UpdateCustomer(ctx context.Context, customerID string, in UpdateCustomerInput) (domain.Customer, error) {
	if in.TotalPrice != nil && !in.TotalPrice.IsPositive() {
		return domain.Customer{}, domain.ErrInvalidPrice
	}
	if in.InitialDeposit != nil && in.InitialDeposit.IsNegative() {
		return domain.Customer{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	var result domain.Customer

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		customer, err := s.repo.GetCustomerForUpdate(txCtx, customerID)
		if err != nil {
			return err
		}

		// Plots sold during onboarding carry the holder's name at the time
		// of sale; release must match against that, not a renamed value
		// from this same request.
		oldName := customer.Name

		if in.Name != nil {
			customer.Name = *in.Name
		}
		if in.Email != nil {
			customer.Email = *in.Email
		}
		if in.Contact != nil {
			customer.Contact = *in.Contact
		}

		financialsChanged := false
		if in.InitialDeposit != nil {
			customer.InitialDeposit = *in.InitialDeposit
			financialsChanged = true
		}
		if in.TotalPrice != nil {
			customer.TotalPrice = *in.TotalPrice
			financialsChanged = true
		}

		if in.PlotNumbers != nil && !samePlots(customer.PlotsHeld, in.PlotNumbers) {
			if err := s.releasePlots(txCtx, customer.PlotsHeld, oldName, now); err != nil {
				return err
			}
			if err := s.sellPlots(txCtx, in.PlotNumbers, customer.Name, now); err != nil {
				return err
			}
			customer.PlotsHeld = append([]string(nil), in.PlotNumbers...)
		}

		if financialsChanged {
			ledger, err := s.repo.ListPaymentsByCustomer(txCtx, customer.ID)
			if err != nil {
				return err
			}
			fin := domain.ComputeFinancials(customer.TotalPrice, customer.InitialDeposit, customer.Status, ledger)
			customer.Balance = fin.Balance
			customer.Status = fin.Status
		}

		customer.UpdatedAt = now
		if err := s.repo.UpdateCustomer(txCtx, customer); err != nil {
			return err
		}
		result = customer
		return nil
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return result, nil
}

// DeleteCustomer releases held plots, removes the ledger, the customer
// record, and the linked login account as one atomic unit.
func (s *CustomerService) DeleteCustomer(ctx context.Context, customerID string) error {
	now := s.clock.Now()
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		customer, err := s.repo.GetCustomerForUpdate(txCtx, customerID)
		if err != nil {
			return err
		}
		if err := s.releasePlots(txCtx, customer.PlotsHeld, customer.Name, now); err != nil {
			return err
		}
		if err := s.repo.DeletePaymentsByCustomer(txCtx, customer.ID); err != nil {
			return err
		}
		if err := s.repo.DeleteCustomer(txCtx, customer.ID); err != nil {
			return err
		}
		if customer.AccountID != "" {
			if err := s.repo.DeleteAccount(txCtx, customer.AccountID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetCustomer returns a customer with freshly derived financials, persisting
// them when the stored values drifted.
func (s *CustomerService) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	now := s.clock.Now()
	var result domain.Customer
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		customer, err := s.repo.GetCustomerForUpdate(txCtx, customerID)
		if err != nil {
			return err
		}
		refreshed, err := s.refreshFinancials(txCtx, customer, now)
		if err != nil {
			return err
		}
		result = refreshed
		return nil
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return result, nil
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	now := s.clock.Now()
	var result []domain.Customer
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		customers, err := s.repo.ListCustomers(txCtx)
		if err != nil {
			return err
		}
		result = make([]domain.Customer, 0, len(customers))
		for _, customer := range customers {
			refreshed, err := s.refreshFinancials(txCtx, customer, now)
			if err != nil {
				return err
			}
			result = append(result, refreshed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CustomerService) refreshFinancials(ctx context.Context, customer domain.Customer, now time.Time) (domain.Customer, error) {
	ledger, err := s.repo.ListPaymentsByCustomer(ctx, customer.ID)
	if err != nil {
		return domain.Customer{}, err
	}
	fin := domain.ComputeFinancials(customer.TotalPrice, customer.InitialDeposit, customer.Status, ledger)
	if !fin.Balance.Equal(customer.Balance) || fin.Status != customer.Status {
		if err := s.repo.UpdateCustomerFinancials(ctx, customer.ID, fin, now); err != nil {
			return domain.Customer{}, err
		}
	}
	customer.Balance = fin.Balance
	customer.Status = fin.Status
	return customer, nil
}

func (s *CustomerService) sellPlots(ctx context.Context, numbers []string, holder string, now time.Time) error {
	for _, number := range numbers {
		plot, err := s.repo.GetPlotForUpdate(ctx, number)
		if err != nil {
			return fmt.Errorf("plot %s: %w", number, err)
		}
		sold, err := plot.DirectSell(holder, now)
		if err != nil {
			return fmt.Errorf("plot %s: %w", number, err)
		}
		sold.UpdatedAt = now
		if err := s.repo.UpdatePlot(ctx, sold); err != nil {
			return err
		}
	}
	return nil
}

// releasePlots resets the plots a customer previously held. Plots whose
// owner no longer matches are skipped rather than stolen back.
func (s *CustomerService) releasePlots(ctx context.Context, numbers []string, holder string, now time.Time) error {
	for _, number := range numbers {
		plot, err := s.repo.GetPlotForUpdate(ctx, number)
		if err != nil {
			return fmt.Errorf("plot %s: %w", number, err)
		}
		if plot.Owner != holder {
			continue
		}
		released, err := plot.Release()
		if err != nil {
			continue
		}
		released.UpdatedAt = now
		if err := s.repo.UpdatePlot(ctx, released); err != nil {
			return err
		}
	}
	return nil
}

func samePlots(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, n := range a {
		seen[n] = struct{}{}
	}
	for _, n := range b {
		if _, ok := seen[n]; !ok {
			return false
		}
	}
	return true
}
