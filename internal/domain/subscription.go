package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending  SubscriptionStatus = "pending"
	SubscriptionStatusApproved SubscriptionStatus = "approved"
	SubscriptionStatusRejected SubscriptionStatus = "rejected"
)

// Subscription is an application to acquire one or more plots. Approval
// moves every referenced plot Reserved→Sold; rejection returns them all to
// Available. Both transitions are terminal.
type Subscription struct {
	ID             string
	Title          string
	Name           string
	Email          string
	Phone          string
	Address        string
	Occupation     string
	Nationality    string
	NextOfKinName  string
	NextOfKinPhone string

	// PlotNumbers is the ordered list of plot numbers applied for; the first
	// entry is the primary plot.
	PlotNumbers  []string
	Price        decimal.Decimal
	PricePerPlot []decimal.Decimal
	Status       SubscriptionStatus

	PassportPhotoRef  string
	IdentificationRef string
	SignatureRef      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
