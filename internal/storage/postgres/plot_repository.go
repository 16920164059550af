package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

type PlotRepository struct {
	pool *pgxpool.Pool
}

func NewPlotRepository(pool *pgxpool.Pool) *PlotRepository {
	return &PlotRepository{pool: pool}
}

func (r *PlotRepository) CreatePlot(ctx context.Context, p domain.Plot) error {
	const stmt = `
INSERT INTO plots (id, number, size, location, price, status, owner, reserved_by,
	reserved_at, sold_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.exec(ctx, stmt,
		p.ID,
		p.Number,
		p.Size,
		p.Location,
		p.Price,
		p.Status,
		p.Owner,
		p.ReservedBy,
		p.ReservedAt,
		p.SoldAt,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPlotNumberTaken
		}
		return fmt.Errorf("create plot: %w", err)
	}
	return nil
}

func (r *PlotRepository) GetPlotByNumber(ctx context.Context, number string) (domain.Plot, error) {
	query := `SELECT ` + plotColumns + ` FROM plots WHERE number = $1`

	p, err := scanPlot(r.queryRow(ctx, query, number))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Plot{}, domain.ErrPlotNotFound
		}
		return domain.Plot{}, fmt.Errorf("get plot: %w", err)
	}
	return p, nil
}

func (r *PlotRepository) ListPlots(ctx context.Context) ([]domain.Plot, error) {
	query := `SELECT ` + plotColumns + ` FROM plots ORDER BY number ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list plots: %w", err)
	}
	defer rows.Close()

	var plots []domain.Plot
	for rows.Next() {
		p, err := scanPlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plot: %w", err)
		}
		plots = append(plots, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate plots: %w", rows.Err())
	}
	return plots, nil
}

func (r *PlotRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PlotRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *PlotRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
