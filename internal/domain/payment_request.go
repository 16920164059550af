package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// PaymentRequest is a customer-submitted payment awaiting an admin decision.
// It makes at most one terminal transition: pending→approved materializes a
// Payment, pending→rejected is terminal with no ledger effect.
type PaymentRequest struct {
	ID              string
	CustomerID      string
	PlotNumber      string // optional
	Amount          decimal.Decimal
	Method          string
	TransactionDate time.Time
	Notes           string
	ReceiptRef      string // blob store reference, optional
	Status          RequestStatus
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
