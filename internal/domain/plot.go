package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlotStatus string

const (
	PlotStatusAvailable PlotStatus = "Available"
	PlotStatusReserved  PlotStatus = "Reserved"
	PlotStatusSold      PlotStatus = "Sold"
)

// Plot is a sellable unit of land identified by a unique human-facing number.
type Plot struct {
	ID         string
	Number     string
	Size       string
	Location   string
	Price      decimal.Decimal
	Status     PlotStatus
	Owner      string // holder name, empty when Available
	ReservedBy string // subscription id holding the reservation, if any
	ReservedAt *time.Time
	SoldAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Reserve places a temporary hold on an Available plot for a subscription.
func (p Plot) Reserve(holder, subscriptionID string, now time.Time) (Plot, error) {
	if p.Status != PlotStatusAvailable {
		return Plot{}, ErrPlotNotAvailable
	}
	p.Status = PlotStatusReserved
	p.Owner = holder
	p.ReservedBy = subscriptionID
	p.ReservedAt = &now
	return p, nil
}

// MarkSold completes a reservation. Only Reserved plots can be sold this way.
func (p Plot) MarkSold(now time.Time) (Plot, error) {
	if p.Status != PlotStatusReserved {
		return Plot{}, ErrPlotNotReserved
	}
	p.Status = PlotStatusSold
	p.SoldAt = &now
	return p, nil
}

// Release returns a Reserved or Sold plot to Available and clears the
// holder. Used on subscription rejection and administrative rollback.
func (p Plot) Release() (Plot, error) {
	if p.Status != PlotStatusReserved && p.Status != PlotStatusSold {
		return Plot{}, ErrPlotNotHeld
	}
	p.Status = PlotStatusAvailable
	p.Owner = ""
	p.ReservedBy = ""
	p.ReservedAt = nil
	p.SoldAt = nil
	return p, nil
}

// DirectSell moves an Available plot straight to Sold without a reservation
// step. Legacy path used when an admin records a sale during customer
// onboarding.
func (p Plot) DirectSell(holder string, now time.Time) (Plot, error) {
	if p.Status != PlotStatusAvailable {
		return Plot{}, ErrPlotNotAvailable
	}
	p.Status = PlotStatusSold
	p.Owner = holder
	p.ReservedAt = &now
	return p, nil
}
