package cart

import (
	"context"
	"errors"

	"chopmate/internal/domain"
	"chopmate/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresStorage struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres keeps cart snapshots in the cart_snapshots table.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Storage {
	return &postgresStorage{pool: pool, logger: logging.OrNop(logger)}
}

func (r *postgresStorage) Get(ctx context.Context, key string) (string, error) {
	const q = `
SELECT payload::text
FROM cart_snapshots
WHERE key = $1
`
	var payload string
	if err := r.pool.QueryRow(ctx, q, key).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		r.logger.Warn("cart storage: get failed", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return payload, nil
}

func (r *postgresStorage) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO cart_snapshots (key, payload, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (key) DO UPDATE
SET payload = EXCLUDED.payload,
    updated_at = EXCLUDED.updated_at
`
	if _, err := r.pool.Exec(ctx, q, key, value); err != nil {
		r.logger.Error("cart storage: set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (r *postgresStorage) Remove(ctx context.Context, key string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_snapshots WHERE key = $1`, key)
	if err != nil {
		r.logger.Error("cart storage: remove failed", zap.String("key", key), zap.Error(err))
		return err
	}
	r.logger.Debug("cart storage: removed", zap.String("key", key), zap.Int64("rows", cmd.RowsAffected()))
	return nil
}
