package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

// querier is the tx-aware query surface every repository implements. Plot
// rows and the payment ledger are touched from several repositories; the SQL
// for them lives here so each statement exists once.
type querier interface {
	exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	queryRow(ctx context.Context, sql string, args ...any) pgx.Row
	query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const plotColumns = `id, number, size, location, price, status, owner, reserved_by,
reserved_at, sold_at, created_at, updated_at`

func getPlotForUpdate(ctx context.Context, q querier, number string) (domain.Plot, error) {
	query := `SELECT ` + plotColumns + ` FROM plots WHERE number = $1 FOR UPDATE`
	p, err := scanPlot(q.queryRow(ctx, query, number))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Plot{}, domain.ErrPlotNotFound
		}
		return domain.Plot{}, fmt.Errorf("get plot: %w", err)
	}
	return p, nil
}

func updatePlot(ctx context.Context, q querier, p domain.Plot) error {
	const stmt = `
UPDATE plots
SET status = $2, owner = $3, reserved_by = $4, reserved_at = $5, sold_at = $6, updated_at = $7
WHERE number = $1`

	tag, err := q.exec(ctx, stmt, p.Number, p.Status, p.Owner, p.ReservedBy, p.ReservedAt, p.SoldAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update plot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlotNotFound
	}
	return nil
}

func scanPlot(row pgx.Row) (domain.Plot, error) {
	var p domain.Plot
	var status string
	err := row.Scan(
		&p.ID,
		&p.Number,
		&p.Size,
		&p.Location,
		&p.Price,
		&status,
		&p.Owner,
		&p.ReservedBy,
		&p.ReservedAt,
		&p.SoldAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Plot{}, err
	}
	p.Status = domain.PlotStatus(status)
	return p, nil
}

const customerColumns = `id, account_id, name, email, contact, plot_ids, date_taken,
initial_deposit, total_price, balance, status, created_at, updated_at`

func getCustomer(ctx context.Context, q querier, id string, forUpdate bool) (domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanCustomer(q.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Customer{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	var plotIDs string
	var status string
	err := row.Scan(
		&c.ID,
		&c.AccountID,
		&c.Name,
		&c.Email,
		&c.Contact,
		&plotIDs,
		&c.DateTaken,
		&c.InitialDeposit,
		&c.TotalPrice,
		&c.Balance,
		&status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return domain.Customer{}, err
	}
	c.PlotsHeld = decodePlotList(plotIDs)
	c.Status = domain.CustomerStatus(status)
	return c, nil
}

const paymentColumns = `id, customer_id, amount, date, note, recorded_by, created_at, updated_at`

func listPaymentsByCustomer(ctx context.Context, q querier, customerID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE customer_id = $1 ORDER BY date ASC, created_at ASC`

	rows, err := q.query(ctx, query, customerID)
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

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.CustomerID,
		&p.Amount,
		&p.Date,
		&p.Note,
		&p.RecordedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
