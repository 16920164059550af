package domain

import (
	"testing"
	"time"
)

func TestPlotTransitions(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	available := Plot{ID: "plot-1", Number: "A-12", Status: PlotStatusAvailable}

	t.Run("reserve available plot", func(t *testing.T) {
		got, err := available.Reserve("Aisha Bello", "sub-1", now)
		if err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if got.Status != PlotStatusReserved {
			t.Fatalf("expected Reserved, got %s", got.Status)
		}
		if got.Owner != "Aisha Bello" || got.ReservedBy != "sub-1" {
			t.Fatalf("unexpected holder: %+v", got)
		}
		if got.ReservedAt == nil || !got.ReservedAt.Equal(now) {
			t.Fatalf("expected reserved_at %v, got %v", now, got.ReservedAt)
		}
	})

	t.Run("reserve fails unless available", func(t *testing.T) {
		reserved, _ := available.Reserve("Aisha Bello", "sub-1", now)
		if _, err := reserved.Reserve("Other", "sub-2", now); err != ErrPlotNotAvailable {
			t.Fatalf("expected ErrPlotNotAvailable, got %v", err)
		}
	})

	t.Run("mark sold requires reserved", func(t *testing.T) {
		reserved, _ := available.Reserve("Aisha Bello", "sub-1", now)
		sold, err := reserved.MarkSold(now)
		if err != nil {
			t.Fatalf("mark sold: %v", err)
		}
		if sold.Status != PlotStatusSold {
			t.Fatalf("expected Sold, got %s", sold.Status)
		}
		if sold.SoldAt == nil || !sold.SoldAt.Equal(now) {
			t.Fatalf("expected sold_at %v, got %v", now, sold.SoldAt)
		}

		if _, err := available.MarkSold(now); err != ErrPlotNotReserved {
			t.Fatalf("expected ErrPlotNotReserved, got %v", err)
		}
		if _, err := sold.MarkSold(now); err != ErrPlotNotReserved {
			t.Fatalf("expected ErrPlotNotReserved on re-sell, got %v", err)
		}
	})

	t.Run("release clears holder from reserved and sold", func(t *testing.T) {
		reserved, _ := available.Reserve("Aisha Bello", "sub-1", now)
		sold, _ := reserved.MarkSold(now)

		for _, p := range []Plot{reserved, sold} {
			got, err := p.Release()
			if err != nil {
				t.Fatalf("release from %s: %v", p.Status, err)
			}
			if got.Status != PlotStatusAvailable {
				t.Fatalf("expected Available, got %s", got.Status)
			}
			if got.Owner != "" || got.ReservedBy != "" || got.ReservedAt != nil || got.SoldAt != nil {
				t.Fatalf("expected holder cleared, got %+v", got)
			}
		}

		if _, err := available.Release(); err != ErrPlotNotHeld {
			t.Fatalf("expected ErrPlotNotHeld, got %v", err)
		}
	})

	t.Run("direct sell skips reservation", func(t *testing.T) {
		got, err := available.DirectSell("Musa Ibrahim", now)
		if err != nil {
			t.Fatalf("direct sell: %v", err)
		}
		if got.Status != PlotStatusSold || got.Owner != "Musa Ibrahim" {
			t.Fatalf("unexpected plot: %+v", got)
		}
		if got.ReservedAt == nil || !got.ReservedAt.Equal(now) {
			t.Fatalf("expected reserved_at stamped, got %v", got.ReservedAt)
		}

		if _, err := got.DirectSell("Other", now); err != ErrPlotNotAvailable {
			t.Fatalf("expected ErrPlotNotAvailable, got %v", err)
		}
	})
}
