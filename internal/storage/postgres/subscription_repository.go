package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

const subscriptionColumns = `id, title, name, email, phone, address, occupation, nationality,
next_of_kin_name, next_of_kin_phone, plot_ids, price, price_per_plot, status,
passport_photo_ref, identification_ref, signature_ref, created_at, updated_at`

type SubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool}
}

func (r *SubscriptionRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, s domain.Subscription) error {
	const stmt = `
INSERT INTO subscriptions (id, title, name, email, phone, address, occupation, nationality,
	next_of_kin_name, next_of_kin_phone, plot_ids, price, price_per_plot, status,
	passport_photo_ref, identification_ref, signature_ref, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := r.exec(ctx, stmt,
		s.ID,
		s.Title,
		s.Name,
		s.Email,
		s.Phone,
		s.Address,
		s.Occupation,
		s.Nationality,
		s.NextOfKinName,
		s.NextOfKinPhone,
		encodePlotList(s.PlotNumbers),
		s.Price,
		encodePriceList(s.PricePerPlot),
		s.Status,
		s.PassportPhotoRef,
		s.IdentificationRef,
		s.SignatureRef,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetSubscription(ctx context.Context, id string) (domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	return r.getSubscription(ctx, query, id)
}

func (r *SubscriptionRepository) GetSubscriptionForUpdate(ctx context.Context, id string) (domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 FOR UPDATE`
	return r.getSubscription(ctx, query, id)
}

func (r *SubscriptionRepository) UpdateSubscriptionStatus(ctx context.Context, id string, status domain.SubscriptionStatus) error {
	const stmt = `UPDATE subscriptions SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id, status)
	if err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepository) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY created_at DESC`
	return r.listSubscriptions(ctx, query)
}

func (r *SubscriptionRepository) FindSubscriptionsByEmail(ctx context.Context, email string) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE email = $1 ORDER BY created_at DESC`
	return r.listSubscriptions(ctx, query, email)
}

func (r *SubscriptionRepository) GetPlotForUpdate(ctx context.Context, number string) (domain.Plot, error) {
	return getPlotForUpdate(ctx, r, number)
}

func (r *SubscriptionRepository) UpdatePlot(ctx context.Context, p domain.Plot) error {
	return updatePlot(ctx, r, p)
}

func (r *SubscriptionRepository) getSubscription(ctx context.Context, query, id string) (domain.Subscription, error) {
	s, err := scanSubscription(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Subscription{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Subscription{}, domain.ErrSubscriptionNotFound
		}
		return domain.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	return s, nil
}

func (r *SubscriptionRepository) listSubscriptions(ctx context.Context, query string, args ...any) ([]domain.Subscription, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subscriptions []domain.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subscriptions = append(subscriptions, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", rows.Err())
	}
	return subscriptions, nil
}

func scanSubscription(row pgx.Row) (domain.Subscription, error) {
	var s domain.Subscription
	var plotIDs, prices, status string
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.Address,
		&s.Occupation,
		&s.Nationality,
		&s.NextOfKinName,
		&s.NextOfKinPhone,
		&plotIDs,
		&s.Price,
		&prices,
		&status,
		&s.PassportPhotoRef,
		&s.IdentificationRef,
		&s.SignatureRef,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return domain.Subscription{}, err
	}
	s.PlotNumbers = decodePlotList(plotIDs)
	s.PricePerPlot = decodePriceList(prices)
	s.Status = domain.SubscriptionStatus(status)
	return s, nil
}

func (r *SubscriptionRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SubscriptionRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *SubscriptionRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
