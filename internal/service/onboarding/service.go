package onboarding

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"chopmate/internal/domain"
	"chopmate/internal/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrApplicationSubmitted = errors.New("application already submitted")
	ErrStepIncomplete       = errors.New("application step incomplete")
	ErrInvalidApplication   = errors.New("invalid application")
)

type applicationRepo interface {
	Create(ctx context.Context, a domain.VendorApplication) (*domain.VendorApplication, error)
	GetByID(ctx context.Context, id string) (*domain.VendorApplication, error)
	Update(ctx context.Context, a domain.VendorApplication) (*domain.VendorApplication, error)
}

var steps = []domain.OnboardingStep{
	domain.StepBusiness,
	domain.StepContact,
	domain.StepPayout,
	domain.StepReview,
}

func stepIndex(step domain.OnboardingStep) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return 0
}

// Service drives the vendor signup form through business, contact, payout and review.
type Service struct {
	repo   applicationRepo
	logger *zap.Logger
	now    func() time.Time
}

func New(repo applicationRepo, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logging.OrNop(logger), now: time.Now}
}

func (s *Service) Start(ctx context.Context) (*domain.VendorApplication, error) {
	now := s.now().UTC()
	a, err := s.repo.Create(ctx, domain.VendorApplication{
		ID:        uuid.NewString(),
		Step:      domain.StepBusiness,
		Status:    domain.ApplicationDraft,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("vendor application started", zap.String("application_id", a.ID))
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.VendorApplication, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) SaveBusiness(ctx context.Context, id string, in domain.BusinessInfo) (*domain.VendorApplication, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Cuisine = strings.TrimSpace(in.Cuisine)
	in.Address = strings.TrimSpace(in.Address)
	if err := validateBusiness(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(a *domain.VendorApplication) error {
		a.Business = &in
		advance(a, domain.StepBusiness)
		return nil
	})
}

func (s *Service) SaveContact(ctx context.Context, id string, in domain.ContactInfo) (*domain.VendorApplication, error) {
	in.OwnerName = strings.TrimSpace(in.OwnerName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateContact(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(a *domain.VendorApplication) error {
		if a.Business == nil {
			return ErrStepIncomplete
		}
		a.Contact = &in
		advance(a, domain.StepContact)
		return nil
	})
}

func (s *Service) SavePayout(ctx context.Context, id string, in domain.PayoutInfo) (*domain.VendorApplication, error) {
	in.BankName = strings.TrimSpace(in.BankName)
	in.AccountHolder = strings.TrimSpace(in.AccountHolder)
	in.AccountNumber = strings.ReplaceAll(strings.TrimSpace(in.AccountNumber), " ", "")
	if err := validatePayout(in); err != nil {
		return nil, err
	}
	in.AccountNumber = MaskAccountNumber(in.AccountNumber)
	return s.mutate(ctx, id, func(a *domain.VendorApplication) error {
		if a.Business == nil || a.Contact == nil {
			return ErrStepIncomplete
		}
		a.Payout = &in
		advance(a, domain.StepPayout)
		return nil
	})
}

// Back moves the form one step back. At the first step it does nothing.
func (s *Service) Back(ctx context.Context, id string) (*domain.VendorApplication, error) {
	return s.mutate(ctx, id, func(a *domain.VendorApplication) error {
		if idx := stepIndex(a.Step); idx > 0 {
			a.Step = steps[idx-1]
		}
		return nil
	})
}

func (s *Service) Submit(ctx context.Context, id string) (*domain.VendorApplication, error) {
	a, err := s.mutate(ctx, id, func(a *domain.VendorApplication) error {
		if a.Step != domain.StepReview || a.Business == nil || a.Contact == nil || a.Payout == nil {
			return ErrStepIncomplete
		}
		now := s.now().UTC()
		a.Status = domain.ApplicationSubmitted
		a.SubmittedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("vendor application submitted",
		zap.String("application_id", a.ID),
		zap.String("business", a.Business.Name))
	return a, nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*domain.VendorApplication) error) (*domain.VendorApplication, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == domain.ApplicationSubmitted {
		return nil, ErrApplicationSubmitted
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	a.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, *a)
}

// advance moves the form to the step after saved unless it already got further.
func advance(a *domain.VendorApplication, saved domain.OnboardingStep) {
	next := stepIndex(saved) + 1
	if next >= len(steps) {
		next = len(steps) - 1
	}
	if stepIndex(a.Step) < next {
		a.Step = steps[next]
	}
}

// MaskAccountNumber keeps only the last four digits.
func MaskAccountNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

func invalid(field, msg string) error {
	return domain.NewValidationError(field, msg, ErrInvalidApplication)
}

func validateBusiness(in domain.BusinessInfo) error {
	if in.Name == "" {
		return invalid("name", "business name required")
	}
	if in.Cuisine == "" {
		return invalid("cuisine", "cuisine required")
	}
	if in.Address == "" {
		return invalid("address", "business address required")
	}
	return nil
}

func validateContact(in domain.ContactInfo) error {
	if in.OwnerName == "" {
		return invalid("ownerName", "owner name required")
	}
	if !digitsBetween(strings.TrimPrefix(in.Phone, "+"), 7, 15) {
		return invalid("phone", "phone must be 7 to 15 digits")
	}
	// Only a bare address is accepted; display-name forms parse but are not stored as typed.
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return invalid("email", "email invalid")
	}
	return nil
}

func validatePayout(in domain.PayoutInfo) error {
	if in.BankName == "" {
		return invalid("bankName", "bank name required")
	}
	if in.AccountHolder == "" {
		return invalid("accountHolder", "account holder required")
	}
	if !digitsBetween(in.AccountNumber, 6, 20) {
		return invalid("accountNumber", "account number must be 6 to 20 digits")
	}
	return nil
}

func digitsBetween(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
