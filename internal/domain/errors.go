package domain

import "errors"

var (
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrRequestNotFound      = errors.New("payment request not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPlotNotFound         = errors.New("plot not found")
	ErrAccountNotFound      = errors.New("account not found")

	ErrEmailTaken      = errors.New("email already registered")
	ErrPlotNumberTaken = errors.New("plot number already exists")

	ErrPlotNotAvailable = errors.New("plot not available")
	ErrPlotNotReserved  = errors.New("plot not reserved")
	ErrPlotNotHeld      = errors.New("plot not held")

	ErrRequestNotPending      = errors.New("payment request already processed")
	ErrSubscriptionNotPending = errors.New("subscription already processed")

	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrContactRequired  = errors.New("contact is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrNoPlotsSelected  = errors.New("at least one plot must be selected")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidPrice     = errors.New("price must be greater than zero")
	ErrInvalidID        = errors.New("invalid id")

	ErrInvalidCredentials = errors.New("invalid email or password")
)
