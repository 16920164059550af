package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *CustomerRepository) CreateAccount(ctx context.Context, a domain.Account) error {
	const stmt = `
INSERT INTO accounts (id, name, email, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.exec(ctx, stmt, a.ID, a.Name, a.Email, a.PasswordHash, a.Role, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *CustomerRepository) DeleteAccount(ctx context.Context, id string) error {
	const stmt = `DELETE FROM accounts WHERE id = $1`

	if _, err := r.exec(ctx, stmt, id); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, c domain.Customer) error {
	const stmt = `
INSERT INTO customers (id, account_id, name, email, contact, plot_ids, date_taken,
	initial_deposit, total_price, balance, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.exec(ctx, stmt,
		c.ID,
		c.AccountID,
		c.Name,
		c.Email,
		c.Contact,
		encodePlotList(c.PlotsHeld),
		c.DateTaken,
		c.InitialDeposit,
		c.TotalPrice,
		c.Balance,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	return getCustomer(ctx, r, id, false)
}

func (r *CustomerRepository) GetCustomerForUpdate(ctx context.Context, id string) (domain.Customer, error) {
	return getCustomer(ctx, r, id, true)
}

func (r *CustomerRepository) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	const stmt = `
UPDATE customers
SET name = $2, email = $3, contact = $4, plot_ids = $5, date_taken = $6,
	initial_deposit = $7, total_price = $8, balance = $9, status = $10, updated_at = $11
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		c.ID,
		c.Name,
		c.Email,
		c.Contact,
		encodePlotList(c.PlotsHeld),
		c.DateTaken,
		c.InitialDeposit,
		c.TotalPrice,
		c.Balance,
		c.Status,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) DeleteCustomer(ctx context.Context, id string) error {
	const stmt = `DELETE FROM customers WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate customers: %w", rows.Err())
	}
	return customers, nil
}

func (r *CustomerRepository) UpdateCustomerFinancials(ctx context.Context, customerID string, fin domain.Financials, now time.Time) error {
	const stmt = `UPDATE customers SET balance = $2, status = $3, updated_at = $4 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, customerID, fin.Balance, fin.Status, now)
	if err != nil {
		return fmt.Errorf("update customer financials: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) ListPaymentsByCustomer(ctx context.Context, customerID string) ([]domain.Payment, error) {
	return listPaymentsByCustomer(ctx, r, customerID)
}

func (r *CustomerRepository) DeletePaymentsByCustomer(ctx context.Context, customerID string) error {
	const stmt = `DELETE FROM payments WHERE customer_id = $1`

	if _, err := r.exec(ctx, stmt, customerID); err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetPlotForUpdate(ctx context.Context, number string) (domain.Plot, error) {
	return getPlotForUpdate(ctx, r, number)
}

func (r *CustomerRepository) UpdatePlot(ctx context.Context, p domain.Plot) error {
	return updatePlot(ctx, r, p)
}

func (r *CustomerRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *CustomerRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *CustomerRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
