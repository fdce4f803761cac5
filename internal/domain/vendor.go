package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor is a restaurant or shop listed in the storefront.
type Vendor struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Address         string    `json:"address,omitempty"`
	LogoURL         string    `json:"logoUrl,omitempty"`
	Cuisine         string    `json:"cuisine,omitempty"`
	Rating          float64   `json:"rating,omitempty"`
	DeliveryMinutes int       `json:"deliveryMinutes,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CustomizationOption is a selectable modifier offered on a menu item.
type CustomizationOption struct {
	ID         string          `json:"id"`
	Group      string          `json:"group,omitempty"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"priceDelta"`
}

// MenuItem is a purchasable dish of a vendor.
type MenuItem struct {
	ID             string                `json:"id"`
	VendorID       string                `json:"vendorId"`
	Name           string                `json:"name"`
	Description    string                `json:"description,omitempty"`
	Price          decimal.Decimal       `json:"price"`
	ImageURL       string                `json:"imageUrl,omitempty"`
	Category       string                `json:"category,omitempty"`
	Available      bool                  `json:"available"`
	Customizations []CustomizationOption `json:"customizations,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
}
