package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, a domain.Account) error {
	const stmt = `
INSERT INTO accounts (id, name, email, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, stmt, a.ID, a.Name, a.Email, a.PasswordHash, a.Role, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT id, name, email, password_hash, role, created_at, updated_at
FROM accounts
WHERE id = $1`

	var a domain.Account
	var role string
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Account{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	a.Role = domain.AccountRole(role)
	return a, nil
}

func (r *AccountRepository) FindAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	const query = `
SELECT id, name, email, password_hash, role, created_at, updated_at
FROM accounts
WHERE email = $1`

	var a domain.Account
	var role string
	err := r.pool.QueryRow(ctx, query, email).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("find account by email: %w", err)
	}
	a.Role = domain.AccountRole(role)
	return a, nil
}
