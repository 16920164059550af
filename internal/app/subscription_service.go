package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/umphart/musabaha-ltd-backend/internal/clock"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

type SubscriptionRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	CreateSubscription(ctx context.Context, s domain.Subscription) error
	GetSubscription(ctx context.Context, id string) (domain.Subscription, error)
	GetSubscriptionForUpdate(ctx context.Context, id string) (domain.Subscription, error)
	UpdateSubscriptionStatus(ctx context.Context, id string, status domain.SubscriptionStatus) error
	ListSubscriptions(ctx context.Context) ([]domain.Subscription, error)
	FindSubscriptionsByEmail(ctx context.Context, email string) ([]domain.Subscription, error)

	GetPlotForUpdate(ctx context.Context, number string) (domain.Plot, error)
	UpdatePlot(ctx context.Context, p domain.Plot) error
}

// SubscriptionService runs the reservation workflow: submit reserves every
// requested plot, approval sells them, rejection releases them. Each
// operation locks all affected plots and validates every precondition before
// writing, inside one transaction.
type SubscriptionService struct {
	repo  SubscriptionRepository
	clock clock.Clock
}

func NewSubscriptionService(repo SubscriptionRepository, clk clock.Clock) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		clock: clk,
	}
}

// Fallback used when neither the plot catalog nor the applicant supplied a
// usable price.
var defaultPlotPrice = decimal.NewFromInt(50000)

type SubmitSubscriptionInput struct {
	Title          string
	Name           string
	Email          string
	Phone          string
	Address        string
	Occupation     string
	Nationality    string
	NextOfKinName  string
	NextOfKinPhone string

	PlotNumbers []string
	// PricePerPlot is the applicant-declared price list, used only when the
	// plot catalog carries no price for the selected plots.
	PricePerPlot []decimal.Decimal

	PassportPhotoRef  string
	IdentificationRef string
	SignatureRef      string
}

func (s *SubscriptionService) Submit(ctx context.Context, in SubmitSubscriptionInput) (domain.Subscription, error) {
	if in.Name == "" {
		return domain.Subscription{}, domain.ErrNameRequired
	}
	if in.Email == "" {
		return domain.Subscription{}, domain.ErrEmailRequired
	}
	if len(in.PlotNumbers) == 0 {
		return domain.Subscription{}, domain.ErrNoPlotsSelected
	}

	now := s.clock.Now()
	var result domain.Subscription

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		// Lock and validate every plot before any write.
		plots := make([]domain.Plot, 0, len(in.PlotNumbers))
		for _, number := range in.PlotNumbers {
			plot, err := s.repo.GetPlotForUpdate(txCtx, number)
			if err != nil {
				return fmt.Errorf("plot %s: %w", number, err)
			}
			if plot.Status != domain.PlotStatusAvailable {
				return fmt.Errorf("plot %s already reserved: %w", number, domain.ErrPlotNotAvailable)
			}
			plots = append(plots, plot)
		}

		prices, total := subscriptionPrice(plots, in.PricePerPlot)

		subscription := domain.Subscription{
			ID:                uuid.NewString(),
			Title:             in.Title,
			Name:              in.Name,
			Email:             in.Email,
			Phone:             in.Phone,
			Address:           in.Address,
			Occupation:        in.Occupation,
			Nationality:       in.Nationality,
			NextOfKinName:     in.NextOfKinName,
			NextOfKinPhone:    in.NextOfKinPhone,
			PlotNumbers:       append([]string(nil), in.PlotNumbers...),
			Price:             total,
			PricePerPlot:      prices,
			Status:            domain.SubscriptionStatusPending,
			PassportPhotoRef:  in.PassportPhotoRef,
			IdentificationRef: in.IdentificationRef,
			SignatureRef:      in.SignatureRef,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.repo.CreateSubscription(txCtx, subscription); err != nil {
			return err
		}

		for _, plot := range plots {
			reserved, err := plot.Reserve(in.Name, subscription.ID, now)
			if err != nil {
				return fmt.Errorf("plot %s: %w", plot.Number, err)
			}
			reserved.UpdatedAt = now
			if err := s.repo.UpdatePlot(txCtx, reserved); err != nil {
				return err
			}
		}

		result = subscription
		return nil
	})
	if err != nil {
		return domain.Subscription{}, err
	}
	return result, nil
}

// Approve moves every plot on a pending subscription Reserved→Sold.
// Re-approving a processed subscription fails without state change.
func (s *SubscriptionService) Approve(ctx context.Context, subscriptionID string) (domain.Subscription, error) {
	now := s.clock.Now()
	var result domain.Subscription

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		subscription, err := s.repo.GetSubscriptionForUpdate(txCtx, subscriptionID)
		if err != nil {
			return err
		}
		if subscription.Status != domain.SubscriptionStatusPending {
			return domain.ErrSubscriptionNotPending
		}

		if err := s.repo.UpdateSubscriptionStatus(txCtx, subscription.ID, domain.SubscriptionStatusApproved); err != nil {
			return err
		}

		for _, number := range subscription.PlotNumbers {
			plot, err := s.repo.GetPlotForUpdate(txCtx, number)
			if err != nil {
				return fmt.Errorf("plot %s: %w", number, err)
			}
			sold, err := plot.MarkSold(now)
			if err != nil {
				return fmt.Errorf("plot %s: %w", number, err)
			}
			sold.UpdatedAt = now
			if err := s.repo.UpdatePlot(txCtx, sold); err != nil {
				return err
			}
		}

		subscription.Status = domain.SubscriptionStatusApproved
		result = subscription
		return nil
	})
	if err != nil {
		return domain.Subscription{}, err
	}
	return result, nil
}

// Reject returns every plot on a pending subscription to Available with the
// holder cleared. Terminal; re-rejecting fails without state change.
func (s *SubscriptionService) Reject(ctx context.Context, subscriptionID string) (domain.Subscription, error) {
	now := s.clock.Now()
	var result domain.Subscription

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		subscription, err := s.repo.GetSubscriptionForUpdate(txCtx, subscriptionID)
		if err != nil {
			return err
		}
		if subscription.Status != domain.SubscriptionStatusPending {
			return domain.ErrSubscriptionNotPending
		}

		if err := s.repo.UpdateSubscriptionStatus(txCtx, subscription.ID, domain.SubscriptionStatusRejected); err != nil {
			return err
		}

		for _, number := range subscription.PlotNumbers {
			plot, err := s.repo.GetPlotForUpdate(txCtx, number)
			if err != nil {
				return fmt.Errorf("plot %s: %w", number, err)
			}
			released, err := plot.Release()
			if err != nil {
				return fmt.Errorf("plot %s: %w", number, err)
			}
			released.UpdatedAt = now
			if err := s.repo.UpdatePlot(txCtx, released); err != nil {
				return err
			}
		}

		subscription.Status = domain.SubscriptionStatusRejected
		result = subscription
		return nil
	})
	if err != nil {
		return domain.Subscription{}, err
	}
	return result, nil
}

func (s *SubscriptionService) Get(ctx context.Context, id string) (domain.Subscription, error) {
	return s.repo.GetSubscription(ctx, id)
}

func (s *SubscriptionService) List(ctx context.Context) ([]domain.Subscription, error) {
	return s.repo.ListSubscriptions(ctx)
}

func (s *SubscriptionService) FindByEmail(ctx context.Context, email string) ([]domain.Subscription, error) {
	if email == "" {
		return nil, domain.ErrEmailRequired
	}
	return s.repo.FindSubscriptionsByEmail(ctx, email)
}

// subscriptionPrice derives the per-plot price list and total. Catalog
// prices win; the applicant-declared list covers plots the catalog prices at
// zero; any plot still unpriced falls back to the default.
func subscriptionPrice(plots []domain.Plot, declared []decimal.Decimal) ([]decimal.Decimal, decimal.Decimal) {
	prices := make([]decimal.Decimal, len(plots))
	total := decimal.Zero
	for i, plot := range plots {
		price := plot.Price
		if !price.IsPositive() && i < len(declared) && declared[i].IsPositive() {
			price = declared[i]
		}
		if !price.IsPositive() {
			price = defaultPlotPrice
		}
		prices[i] = price
		total = total.Add(price)
	}
	return prices, total
}
