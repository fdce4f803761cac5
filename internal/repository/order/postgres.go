package order

import (
	"context"
	"errors"

	"chopmate/internal/domain"
	"chopmate/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

const orderColumns = `id::text, session_id, vendor_id::text, vendor_name, lines, subtotal, delivery_fee, service_fee,
discount_amount, total, COALESCE(promo_code, ''), delivery_address, contact_phone, payment_method, status, created_at, updated_at`

func scanOrder(row pgx.Row, o *domain.Order) error {
	return row.Scan(
		&o.ID,
		&o.SessionID,
		&o.VendorID,
		&o.VendorName,
		&o.Lines,
		&o.Subtotal,
		&o.DeliveryFee,
		&o.ServiceFee,
		&o.DiscountAmount,
		&o.Total,
		&o.PromoCode,
		&o.DeliveryAddress,
		&o.ContactPhone,
		&o.PaymentMethod,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	q := `
INSERT INTO orders (id, session_id, vendor_id, vendor_name, lines, subtotal, delivery_fee, service_fee,
    discount_amount, total, promo_code, delivery_address, contact_phone, payment_method, status, created_at, updated_at)
VALUES ($1::uuid, $2, $3::uuid, $4, $5::jsonb, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14, $15, $16, $16)
RETURNING ` + orderColumns
	var res domain.Order
	row := r.pool.QueryRow(ctx, q,
		o.ID,
		o.SessionID,
		o.VendorID,
		o.VendorName,
		o.Lines,
		o.Subtotal,
		o.DeliveryFee,
		o.ServiceFee,
		o.DiscountAmount,
		o.Total,
		o.PromoCode,
		o.DeliveryAddress,
		o.ContactPhone,
		string(o.PaymentMethod),
		string(o.Status),
		o.CreatedAt,
	)
	if err := scanOrder(row, &res); err != nil {
		r.logger.Error("order repo: create", zap.String("order_id", o.ID), zap.Error(err))
		return nil, err
	}
	r.logger.Info("order repo: created", zap.String("order_id", res.ID), zap.String("vendor_id", res.VendorID))
	return &res, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + `
FROM orders
WHERE id::text = $1
`
	var o domain.Order
	if err := scanOrder(r.pool.QueryRow(ctx, q, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("order repo: get", zap.String("order_id", id), zap.Error(err))
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + `
FROM orders
WHERE session_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		r.logger.Error("order repo: list", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $3, updated_at = now()
WHERE id::text = $1 AND status = $2
`, id, string(from), string(to))
	if err != nil {
		r.logger.Error("order repo: update status", zap.String("order_id", id), zap.Error(err))
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}
