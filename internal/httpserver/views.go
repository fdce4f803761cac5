package httpserver

import (
	"time"

	"chopmate/internal/domain"
	cartsvc "chopmate/internal/service/cart"
	"github.com/shopspring/decimal"
)

type cartView struct {
	VendorID       string          `json:"vendorId"`
	VendorName     string          `json:"vendorName"`
	Lines          []cartLineView  `json:"lines"`
	ItemCount      int             `json:"itemCount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
	ServiceFee     decimal.Decimal `json:"serviceFee"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
	PromoCode      string          `json:"promoCode,omitempty"`
	Version        int64           `json:"version"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type cartLineView struct {
	MenuItemID          string                          `json:"menuItemId"`
	Name                string                          `json:"name"`
	ImageURL            string                          `json:"imageUrl,omitempty"`
	UnitPrice           decimal.Decimal                 `json:"unitPrice"`
	Quantity            int                             `json:"quantity"`
	Customizations      []domain.CustomizationSelection `json:"customizations"`
	SpecialInstructions string                          `json:"specialInstructions,omitempty"`
	LineTotal           decimal.Decimal                 `json:"lineTotal"`
}

type cartResponse struct {
	Cart *cartView `json:"cart"`
}

// toCartResponse renders an absent cart as {"cart": null}.
func toCartResponse(c *domain.Cart) cartResponse {
	if c == nil {
		return cartResponse{}
	}
	lines := make([]cartLineView, 0, len(c.Lines))
	for _, line := range c.Lines {
		customizations := line.Customizations
		if customizations == nil {
			customizations = []domain.CustomizationSelection{}
		}
		lines = append(lines, cartLineView{
			MenuItemID:          line.Item.ID,
			Name:                line.Item.Name,
			ImageURL:            line.Item.ImageURL,
			UnitPrice:           line.UnitPrice(),
			Quantity:            line.Quantity,
			Customizations:      customizations,
			SpecialInstructions: line.SpecialInstructions,
			LineTotal:           line.LineTotal,
		})
	}
	return cartResponse{Cart: &cartView{
		VendorID:       c.VendorID,
		VendorName:     c.Vendor.Name,
		Lines:          lines,
		ItemCount:      c.ItemCount(),
		Subtotal:       c.Subtotal,
		DeliveryFee:    c.DeliveryFee,
		ServiceFee:     c.ServiceFee,
		DiscountAmount: c.DiscountAmount,
		Total:          c.Total,
		PromoCode:      c.PromoCode,
		Version:        c.Version,
		UpdatedAt:      c.UpdatedAt,
	}}
}

type menuSection struct {
	Category string            `json:"category"`
	Items    []domain.MenuItem `json:"items"`
}

type menuResponse struct {
	Vendor   domain.Vendor `json:"vendor"`
	Sections []menuSection `json:"sections"`
}

// toMenuResponse groups items by category, keeping the order categories first appear in.
func toMenuResponse(v domain.Vendor, items []domain.MenuItem) menuResponse {
	out := menuResponse{Vendor: v, Sections: []menuSection{}}
	index := map[string]int{}
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "Other"
		}
		i, ok := index[category]
		if !ok {
			i = len(out.Sections)
			index[category] = i
			out.Sections = append(out.Sections, menuSection{Category: category})
		}
		out.Sections[i].Items = append(out.Sections[i].Items, item)
	}
	return out
}

type promoView struct {
	Code        string          `json:"code"`
	Kind        string          `json:"kind"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
}

type promoList struct {
	Count   int         `json:"count"`
	Results []promoView `json:"results"`
}

func toPromoList(rules []cartsvc.PromoRule) promoList {
	results := make([]promoView, 0, len(rules))
	for _, r := range rules {
		results = append(results, promoView{
			Code:        r.Code,
			Kind:        string(r.Kind),
			Value:       r.Value,
			Description: r.Description,
		})
	}
	return promoList{Count: len(results), Results: results}
}
