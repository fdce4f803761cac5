package application

import (
	"context"

	"chopmate/internal/domain"
)

// Repository persists vendor onboarding applications.
type Repository interface {
	Create(ctx context.Context, a domain.VendorApplication) (*domain.VendorApplication, error)
	GetByID(ctx context.Context, id string) (*domain.VendorApplication, error)
	Update(ctx context.Context, a domain.VendorApplication) (*domain.VendorApplication, error)
}
