package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umphart/musabaha-ltd-backend/internal/clock"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

type fakePlotRepo struct {
	plots map[string]domain.Plot
}

func newFakePlotRepo() *fakePlotRepo {
	return &fakePlotRepo{plots: make(map[string]domain.Plot)}
}

func (r *fakePlotRepo) CreatePlot(_ context.Context, p domain.Plot) error {
	if _, exists := r.plots[p.Number]; exists {
		return domain.ErrPlotNumberTaken
	}
	r.plots[p.Number] = p
	return nil
}

func (r *fakePlotRepo) GetPlotByNumber(_ context.Context, number string) (domain.Plot, error) {
	p, ok := r.plots[number]
	if !ok {
		return domain.Plot{}, domain.ErrPlotNotFound
	}
	return p, nil
}

func (r *fakePlotRepo) ListPlots(_ context.Context) ([]domain.Plot, error) {
	out := make([]domain.Plot, 0, len(r.plots))
	for _, p := range r.plots {
		out = append(out, p)
	}
	return out, nil
}

func TestPlotService_CreatePlot(t *testing.T) {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("creates an available plot", func(t *testing.T) {
		repo := newFakePlotRepo()
		svc := NewPlotService(repo, clock.NewFixed(now))

		plot, err := svc.CreatePlot(ctx, CreatePlotInput{
			Number:   "A1",
			Size:     "500sqm",
			Location: "Phase 2",
			Price:    decimal.NewFromInt(50000),
		})
		if err != nil {
			t.Fatalf("CreatePlot: %v", err)
		}
		if plot.ID == "" {
			t.Error("expected a generated id")
		}
		if plot.Status != domain.PlotStatusAvailable {
			t.Errorf("expected status Available, got %s", plot.Status)
		}
		if !plot.CreatedAt.Equal(now) {
			t.Errorf("expected created_at %v, got %v", now, plot.CreatedAt)
		}
		if _, err := svc.GetPlotByNumber(ctx, "A1"); err != nil {
			t.Fatalf("GetPlotByNumber after create: %v", err)
		}
	})

	t.Run("rejects a duplicate number", func(t *testing.T) {
		repo := newFakePlotRepo()
		svc := NewPlotService(repo, clock.NewFixed(now))

		if _, err := svc.CreatePlot(ctx, CreatePlotInput{Number: "A1", Price: decimal.NewFromInt(50000)}); err != nil {
			t.Fatalf("first CreatePlot: %v", err)
		}
		_, err := svc.CreatePlot(ctx, CreatePlotInput{Number: "A1", Price: decimal.NewFromInt(60000)})
		if !errors.Is(err, domain.ErrPlotNumberTaken) {
			t.Fatalf("expected ErrPlotNumberTaken, got %v", err)
		}
	})

	t.Run("rejects a non-positive price", func(t *testing.T) {
		svc := NewPlotService(newFakePlotRepo(), clock.NewFixed(now))

		_, err := svc.CreatePlot(ctx, CreatePlotInput{Number: "A1", Price: decimal.Zero})
		if !errors.Is(err, domain.ErrInvalidPrice) {
			t.Fatalf("expected ErrInvalidPrice, got %v", err)
		}
	})

	t.Run("rejects a blank number", func(t *testing.T) {
		svc := NewPlotService(newFakePlotRepo(), clock.NewFixed(now))

		_, err := svc.CreatePlot(ctx, CreatePlotInput{Price: decimal.NewFromInt(50000)})
		if !errors.Is(err, domain.ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})
}
