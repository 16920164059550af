package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "Active"
	CustomerStatusCompleted CustomerStatus = "Completed"
)

// Customer is a plot buyer. Balance and Status are always derived from the
// payment ledger via ComputeFinancials; the stored columns are kept in sync
// inside the same transaction as any ledger mutation.
type Customer struct {
	ID        string
	AccountID string
	Name      string
	Email     string
	Contact   string
	// PlotsHeld is the ordered list of plot numbers held by this customer.
	PlotsHeld      []string
	DateTaken      time.Time
	InitialDeposit decimal.Decimal
	TotalPrice     decimal.Decimal
	Balance        decimal.Decimal
	Status         CustomerStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
