package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/umphart/musabaha-ltd-backend/internal/clock"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

type PlotRepository interface {
	CreatePlot(ctx context.Context, p domain.Plot) error
	GetPlotByNumber(ctx context.Context, number string) (domain.Plot, error)
	ListPlots(ctx context.Context) ([]domain.Plot, error)
}

// PlotService manages the plot catalog.
type PlotService struct {
	repo  PlotRepository
	clock clock.Clock
}

func NewPlotService(repo PlotRepository, clk clock.Clock) *PlotService {
	return &PlotService{
		repo:  repo,
		clock: clk,
	}
}

type CreatePlotInput struct {
	Number   string
	Size     string
	Location string
	Price    decimal.Decimal
}

func (s *PlotService) CreatePlot(ctx context.Context, in CreatePlotInput) (domain.Plot, error) {
	if in.Number == "" {
		return domain.Plot{}, domain.ErrInvalidID
	}
	if !in.Price.IsPositive() {
		return domain.Plot{}, domain.ErrInvalidPrice
	}

	now := s.clock.Now()
	plot := domain.Plot{
		ID:        uuid.NewString(),
		Number:    in.Number,
		Size:      in.Size,
		Location:  in.Location,
		Price:     in.Price,
		Status:    domain.PlotStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreatePlot(ctx, plot); err != nil {
		return domain.Plot{}, err
	}
	return plot, nil
}

func (s *PlotService) GetPlotByNumber(ctx context.Context, number string) (domain.Plot, error) {
	if number == "" {
		return domain.Plot{}, domain.ErrInvalidID
	}
	return s.repo.GetPlotByNumber(ctx, number)
}

func (s *PlotService) ListPlots(ctx context.Context) ([]domain.Plot, error) {
	return s.repo.ListPlots(ctx)
}
