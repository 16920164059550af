package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one entry in a customer's append-only ledger. Updates and
// deletes are corrections, not reversals, and always trigger a full balance
// recomputation for the owning customer.
type Payment struct {
	ID         string
	CustomerID string
	Amount     decimal.Decimal
	Date       time.Time
	Note       string
	RecordedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
