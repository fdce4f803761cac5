package application

import (
	"context"
	"encoding/json"
	"errors"

	"chopmate/internal/domain"
	"chopmate/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

const applicationColumns = `id::text, step, status, business, contact, payout, created_at, updated_at, submitted_at`

func (r *postgresRepo) Create(ctx context.Context, a domain.VendorApplication) (*domain.VendorApplication, error) {
	business, contact, payout, err := encodeSections(a)
	if err != nil {
		return nil, err
	}
	q := `
INSERT INTO vendor_applications (id, step, status, business, contact, payout, created_at, updated_at, submitted_at)
VALUES ($1::uuid, $2, $3, $4::jsonb, $5::jsonb, $6::jsonb, $7, $7, $8)
RETURNING ` + applicationColumns
	return r.scanApplication(r.pool.QueryRow(ctx, q,
		a.ID,
		string(a.Step),
		string(a.Status),
		business,
		contact,
		payout,
		a.CreatedAt,
		a.SubmittedAt,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.VendorApplication, error) {
	q := `SELECT ` + applicationColumns + `
FROM vendor_applications
WHERE id::text = $1
LIMIT 1
`
	return r.scanApplication(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) Update(ctx context.Context, a domain.VendorApplication) (*domain.VendorApplication, error) {
	business, contact, payout, err := encodeSections(a)
	if err != nil {
		return nil, err
	}
	q := `
UPDATE vendor_applications
SET step = $2, status = $3, business = $4::jsonb, contact = $5::jsonb, payout = $6::jsonb,
    updated_at = $7, submitted_at = $8
WHERE id::text = $1
RETURNING ` + applicationColumns
	return r.scanApplication(r.pool.QueryRow(ctx, q,
		a.ID,
		string(a.Step),
		string(a.Status),
		business,
		contact,
		payout,
		a.UpdatedAt,
		a.SubmittedAt,
	))
}

// encodeSections marshals the optional form sections; a nil section is stored as SQL NULL.
func encodeSections(a domain.VendorApplication) (business, contact, payout []byte, err error) {
	if a.Business != nil {
		if business, err = json.Marshal(a.Business); err != nil {
			return nil, nil, nil, err
		}
	}
	if a.Contact != nil {
		if contact, err = json.Marshal(a.Contact); err != nil {
			return nil, nil, nil, err
		}
	}
	if a.Payout != nil {
		if payout, err = json.Marshal(a.Payout); err != nil {
			return nil, nil, nil, err
		}
	}
	return business, contact, payout, nil
}

func (r *postgresRepo) scanApplication(row pgx.Row) (*domain.VendorApplication, error) {
	var a domain.VendorApplication
	var step, status string
	var businessJSON, contactJSON, payoutJSON []byte
	err := row.Scan(
		&a.ID,
		&step,
		&status,
		&businessJSON,
		&contactJSON,
		&payoutJSON,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("application repo: scan", zap.Error(err))
		return nil, err
	}
	a.Step = domain.OnboardingStep(step)
	a.Status = domain.ApplicationStatus(status)
	if len(businessJSON) > 0 {
		a.Business = &domain.BusinessInfo{}
		if err := json.Unmarshal(businessJSON, a.Business); err != nil {
			r.logger.Error("application repo: decode business", zap.String("application_id", a.ID), zap.Error(err))
			return nil, err
		}
	}
	if len(contactJSON) > 0 {
		a.Contact = &domain.ContactInfo{}
		if err := json.Unmarshal(contactJSON, a.Contact); err != nil {
			r.logger.Error("application repo: decode contact", zap.String("application_id", a.ID), zap.Error(err))
			return nil, err
		}
	}
	if len(payoutJSON) > 0 {
		a.Payout = &domain.PayoutInfo{}
		if err := json.Unmarshal(payoutJSON, a.Payout); err != nil {
			r.logger.Error("application repo: decode payout", zap.String("application_id", a.ID), zap.Error(err))
			return nil, err
		}
	}
	return &a, nil
}
