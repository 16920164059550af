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

const requestColumns = `id, customer_id, plot_number, amount, method, transaction_date,
notes, receipt_ref, status, rejection_reason, created_at, updated_at`

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *PaymentRepository) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	return getCustomer(ctx, r, id, false)
}

func (r *PaymentRepository) GetCustomerForUpdate(ctx context.Context, id string) (domain.Customer, error) {
	return getCustomer(ctx, r, id, true)
}

func (r *PaymentRepository) UpdateCustomerFinancials(ctx context.Context, customerID string, fin domain.Financials, now time.Time) error {
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

func (r *PaymentRepository) CreatePayment(ctx context.Context, p domain.Payment) error {
	const stmt = `
INSERT INTO payments (id, customer_id, amount, date, note, recorded_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt, p.ID, p.CustomerID, p.Amount, p.Date, p.Note, p.RecordedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCustomerNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetPayment(ctx context.Context, id string) (domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Payment{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Payment{}, domain.ErrPaymentNotFound
		}
		return domain.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) UpdatePayment(ctx context.Context, p domain.Payment) error {
	const stmt = `
UPDATE payments
SET amount = $2, date = $3, note = $4, recorded_by = $5, updated_at = $6
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, p.ID, p.Amount, p.Date, p.Note, p.RecordedBy, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) DeletePayment(ctx context.Context, id string) error {
	const stmt = `DELETE FROM payments WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY date DESC, created_at DESC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate payments: %w", rows.Err())
	}
	return payments, nil
}

func (r *PaymentRepository) ListPaymentsByCustomer(ctx context.Context, customerID string) ([]domain.Payment, error) {
	return listPaymentsByCustomer(ctx, r, customerID)
}

func (r *PaymentRepository) CreatePaymentRequest(ctx context.Context, q domain.PaymentRequest) error {
	const stmt = `
INSERT INTO payment_requests (id, customer_id, plot_number, amount, method, transaction_date,
	notes, receipt_ref, status, rejection_reason, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.exec(ctx, stmt,
		q.ID,
		q.CustomerID,
		q.PlotNumber,
		q.Amount,
		q.Method,
		q.TransactionDate,
		q.Notes,
		q.ReceiptRef,
		q.Status,
		q.RejectionReason,
		q.CreatedAt,
		q.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCustomerNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create payment request: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetPaymentRequest(ctx context.Context, id string) (domain.PaymentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM payment_requests WHERE id = $1`
	return r.getRequest(ctx, query, id)
}

func (r *PaymentRepository) GetPaymentRequestForUpdate(ctx context.Context, id string) (domain.PaymentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM payment_requests WHERE id = $1 FOR UPDATE`
	return r.getRequest(ctx, query, id)
}

func (r *PaymentRepository) UpdatePaymentRequestStatus(ctx context.Context, id string, status domain.RequestStatus, reason string, now time.Time) error {
	const stmt = `
UPDATE payment_requests
SET status = $2, rejection_reason = $3, updated_at = $4
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id, status, reason, now)
	if err != nil {
		return fmt.Errorf("update payment request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *PaymentRepository) ListPaymentRequests(ctx context.Context) ([]domain.PaymentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM payment_requests ORDER BY created_at DESC`
	return r.listRequests(ctx, query)
}

func (r *PaymentRepository) ListPaymentRequestsByCustomer(ctx context.Context, customerID string) ([]domain.PaymentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM payment_requests WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.listRequests(ctx, query, customerID)
}

// RecordRejectedRequest writes the rejection audit row. Callers treat a
// failure here as non-fatal; it runs outside the decision transaction.
func (r *PaymentRepository) RecordRejectedRequest(ctx context.Context, q domain.PaymentRequest) error {
	const stmt = `
INSERT INTO rejected_payments (request_id, customer_id, plot_number, amount, method,
	transaction_date, notes, receipt_ref, rejection_reason, rejected_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		q.ID,
		q.CustomerID,
		q.PlotNumber,
		q.Amount,
		q.Method,
		q.TransactionDate,
		q.Notes,
		q.ReceiptRef,
		q.RejectionReason,
		q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("record rejected request: %w", err)
	}
	return nil
}

func (r *PaymentRepository) getRequest(ctx context.Context, query, id string) (domain.PaymentRequest, error) {
	q, err := scanRequest(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.PaymentRequest{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.PaymentRequest{}, domain.ErrRequestNotFound
		}
		return domain.PaymentRequest{}, fmt.Errorf("get payment request: %w", err)
	}
	return q, nil
}

func (r *PaymentRepository) listRequests(ctx context.Context, query string, args ...any) ([]domain.PaymentRequest, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payment requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.PaymentRequest
	for rows.Next() {
		q, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment request: %w", err)
		}
		requests = append(requests, q)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate payment requests: %w", rows.Err())
	}
	return requests, nil
}

func scanRequest(row pgx.Row) (domain.PaymentRequest, error) {
	var q domain.PaymentRequest
	var status string
	err := row.Scan(
		&q.ID,
		&q.CustomerID,
		&q.PlotNumber,
		&q.Amount,
		&q.Method,
		&q.TransactionDate,
		&q.Notes,
		&q.ReceiptRef,
		&status,
		&q.RejectionReason,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return domain.PaymentRequest{}, err
	}
	q.Status = domain.RequestStatus(status)
	return q, nil
}

func (r *PaymentRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PaymentRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *PaymentRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
