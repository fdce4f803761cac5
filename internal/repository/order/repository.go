package order

import (
	"context"

	"chopmate/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error)
	// UpdateStatus moves the order from one status to another and reports whether a row matched.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error)
}
