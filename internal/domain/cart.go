package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomizationSelection is one chosen customization option carried on a cart line.
type CustomizationSelection struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"priceDelta"`
}

// CartLine is one distinct configuration of a menu item within a cart.
type CartLine struct {
	Item                MenuItem                 `json:"item"`
	Quantity            int                      `json:"quantity"`
	Customizations      []CustomizationSelection `json:"customizations"`
	SpecialInstructions string                   `json:"specialInstructions,omitempty"`
	LineTotal           decimal.Decimal          `json:"lineTotal"`
}

// UnitPrice is the item price plus every customization delta.
func (l CartLine) UnitPrice() decimal.Decimal {
	unit := l.Item.Price
	for _, c := range l.Customizations {
		unit = unit.Add(c.PriceDelta)
	}
	return unit
}

// Cart is the in-progress order of a session for a single vendor.
type Cart struct {
	SessionID      string          `json:"sessionId"`
	VendorID       string          `json:"vendorId"`
	Vendor         Vendor          `json:"vendor"`
	Lines          []CartLine      `json:"lines"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
	ServiceFee     decimal.Decimal `json:"serviceFee"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
	PromoCode      string          `json:"promoCode,omitempty"`
	Version        int64           `json:"version"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ItemCount sums quantities across lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
