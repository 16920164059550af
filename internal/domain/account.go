package domain

import "time"

type AccountRole string

const (
	RoleAdmin    AccountRole = "admin"
	RoleCustomer AccountRole = "customer"
)

// Account is a login identity for an admin or a customer.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         AccountRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
