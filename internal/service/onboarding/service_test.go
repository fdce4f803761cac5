package onboarding

import (
	"context"
	"errors"
	"testing"

	"chopmate/internal/domain"
)

type memRepo struct {
	apps    map[string]domain.VendorApplication
	updates int
}

func newMemRepo() *memRepo {
	return &memRepo{apps: map[string]domain.VendorApplication{}}
}

func (r *memRepo) Create(ctx context.Context, a domain.VendorApplication) (*domain.VendorApplication, error) {
	r.apps[a.ID] = a
	return &a, nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*domain.VendorApplication, error) {
	a, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *memRepo) Update(ctx context.Context, a domain.VendorApplication) (*domain.VendorApplication, error) {
	if _, ok := r.apps[a.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.updates++
	r.apps[a.ID] = a
	return &a, nil
}

var (
	business = domain.BusinessInfo{Name: "Mama Put", Cuisine: "Nigerian", Address: "12 Allen Avenue"}
	contact  = domain.ContactInfo{OwnerName: "Ada Obi", Phone: "+2348012345678", Email: "Ada@Example.com"}
	payout   = domain.PayoutInfo{BankName: "GTBank", AccountHolder: "Ada Obi", AccountNumber: "0123456789"}
)

func TestOnboarding_HappyPath(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemRepo(), nil)

	a, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if a.Step != domain.StepBusiness || a.Status != domain.ApplicationDraft {
		t.Fatalf("unexpected draft %+v", a)
	}

	if a, err = svc.SaveBusiness(ctx, a.ID, business); err != nil || a.Step != domain.StepContact {
		t.Fatalf("save business: %+v %v", a, err)
	}
	if a, err = svc.SaveContact(ctx, a.ID, contact); err != nil || a.Step != domain.StepPayout {
		t.Fatalf("save contact: %+v %v", a, err)
	}
	if a.Contact.Email != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %q", a.Contact.Email)
	}
	if a, err = svc.SavePayout(ctx, a.ID, payout); err != nil || a.Step != domain.StepReview {
		t.Fatalf("save payout: %+v %v", a, err)
	}
	if a.Payout.AccountNumber != "******6789" {
		t.Fatalf("expected masked account number, got %q", a.Payout.AccountNumber)
	}

	a, err = svc.Submit(ctx, a.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if a.Status != domain.ApplicationSubmitted || a.SubmittedAt == nil {
		t.Fatalf("expected submitted, got %+v", a)
	}

	if _, err := svc.SaveBusiness(ctx, a.ID, business); !errors.Is(err, ErrApplicationSubmitted) {
		t.Fatalf("expected ErrApplicationSubmitted, got %v", err)
	}
	if _, err := svc.Back(ctx, a.ID); !errors.Is(err, ErrApplicationSubmitted) {
		t.Fatalf("expected ErrApplicationSubmitted on back, got %v", err)
	}
}

func TestOnboarding_EditKeepsFurthestStep(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemRepo(), nil)
	a, _ := svc.Start(ctx)
	a, _ = svc.SaveBusiness(ctx, a.ID, business)
	a, _ = svc.SaveContact(ctx, a.ID, contact)

	edited := business
	edited.Name = "Mama Put Express"
	a, err := svc.SaveBusiness(ctx, a.ID, edited)
	if err != nil {
		t.Fatalf("edit business: %v", err)
	}
	if a.Step != domain.StepPayout {
		t.Fatalf("expected step to stay at payout, got %s", a.Step)
	}
	if a.Business.Name != "Mama Put Express" {
		t.Fatalf("expected edit saved, got %q", a.Business.Name)
	}
}

func TestOnboarding_Back(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemRepo(), nil)
	a, _ := svc.Start(ctx)

	a, err := svc.Back(ctx, a.ID)
	if err != nil || a.Step != domain.StepBusiness {
		t.Fatalf("back at first step should be a no-op, got %+v %v", a, err)
	}

	a, _ = svc.SaveBusiness(ctx, a.ID, business)
	a, _ = svc.Back(ctx, a.ID)
	if a.Step != domain.StepBusiness {
		t.Fatalf("expected business, got %s", a.Step)
	}
	if a.Business == nil {
		t.Fatalf("going back must keep saved sections")
	}
}

func TestOnboarding_StepOrderEnforced(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemRepo(), nil)
	a, _ := svc.Start(ctx)

	if _, err := svc.SaveContact(ctx, a.ID, contact); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete for contact before business, got %v", err)
	}
	if _, err := svc.SavePayout(ctx, a.ID, payout); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete for payout before contact, got %v", err)
	}
	if _, err := svc.Submit(ctx, a.ID); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete for early submit, got %v", err)
	}

	a, _ = svc.SaveBusiness(ctx, a.ID, business)
	a, _ = svc.SaveContact(ctx, a.ID, contact)
	a, _ = svc.SavePayout(ctx, a.ID, payout)
	a, _ = svc.Back(ctx, a.ID)
	if _, err := svc.Submit(ctx, a.ID); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("submit requires the review step, got %v", err)
	}
}

func TestOnboarding_Validation(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := New(repo, nil)
	a, _ := svc.Start(ctx)

	cases := []struct {
		field string
		call  func() error
	}{
		{"name", func() error {
			_, err := svc.SaveBusiness(ctx, a.ID, domain.BusinessInfo{Cuisine: "x", Address: "y"})
			return err
		}},
		{"email", func() error {
			in := contact
			in.Email = "not-an-email"
			_, err := svc.SaveContact(ctx, a.ID, in)
			return err
		}},
		{"email", func() error {
			in := contact
			in.Email = "Bob <bob@x.io>"
			_, err := svc.SaveContact(ctx, a.ID, in)
			return err
		}},
		{"phone", func() error {
			in := contact
			in.Phone = "12ab"
			_, err := svc.SaveContact(ctx, a.ID, in)
			return err
		}},
		{"accountNumber", func() error {
			in := payout
			in.AccountNumber = "12"
			_, err := svc.SavePayout(ctx, a.ID, in)
			return err
		}},
	}
	for _, tc := range cases {
		err := tc.call()
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || verr.Field != tc.field || !errors.Is(err, ErrInvalidApplication) {
			t.Fatalf("expected validation error on %s, got %v", tc.field, err)
		}
	}
	if repo.updates != 0 {
		t.Fatalf("invalid input must not be persisted, got %d updates", repo.updates)
	}
}

func TestOnboarding_UnknownApplication(t *testing.T) {
	svc := New(newMemRepo(), nil)
	if _, err := svc.SaveBusiness(context.Background(), "missing", business); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMaskAccountNumber(t *testing.T) {
	if got := MaskAccountNumber("1234"); got != "1234" {
		t.Fatalf("expected short number untouched, got %q", got)
	}
	if got := MaskAccountNumber("0123456789"); got != "******6789" {
		t.Fatalf("unexpected mask %q", got)
	}
}
