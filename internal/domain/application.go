package domain

import "time"

// OnboardingStep names a page of the vendor signup form.
type OnboardingStep string

const (
	StepBusiness OnboardingStep = "business"
	StepContact  OnboardingStep = "contact"
	StepPayout   OnboardingStep = "payout"
	StepReview   OnboardingStep = "review"
)

type ApplicationStatus string

const (
	ApplicationDraft     ApplicationStatus = "draft"
	ApplicationSubmitted ApplicationStatus = "submitted"
)

type BusinessInfo struct {
	Name    string `json:"name"`
	Cuisine string `json:"cuisine"`
	Address string `json:"address"`
}

type ContactInfo struct {
	OwnerName string `json:"ownerName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// PayoutInfo holds bank details; AccountNumber is stored masked to its last four digits.
type PayoutInfo struct {
	BankName      string `json:"bankName"`
	AccountHolder string `json:"accountHolder"`
	AccountNumber string `json:"accountNumber"`
}

// VendorApplication is a vendor onboarding form in progress.
type VendorApplication struct {
	ID          string            `json:"id"`
	Step        OnboardingStep    `json:"step"`
	Status      ApplicationStatus `json:"status"`
	Business    *BusinessInfo     `json:"business,omitempty"`
	Contact     *ContactInfo      `json:"contact,omitempty"`
	Payout      *PayoutInfo       `json:"payout,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	SubmittedAt *time.Time        `json:"submittedAt,omitempty"`
}
