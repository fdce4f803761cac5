package cart

import (
	"sort"
	"strings"

	"chopmate/internal/domain"
	"github.com/shopspring/decimal"
)

type DiscountKind string

const (
	DiscountPercent      DiscountKind = "percent"
	DiscountFixed        DiscountKind = "fixed"
	DiscountFreeDelivery DiscountKind = "free_delivery"
)

// PromoRule is one redeemable code. Value is a percentage for DiscountPercent and an amount
// for DiscountFixed; it is unused for DiscountFreeDelivery.
type PromoRule struct {
	Code        string
	Kind        DiscountKind
	Value       decimal.Decimal
	Description string
}

// Discount computes the rule's discount for a cart whose totals are already calculated.
func (r PromoRule) Discount(c domain.Cart) decimal.Decimal {
	switch r.Kind {
	case DiscountPercent:
		return c.Subtotal.Mul(r.Value).Div(decimal.NewFromInt(100))
	case DiscountFixed:
		return r.Value
	case DiscountFreeDelivery:
		return c.DeliveryFee
	default:
		return decimal.Zero
	}
}

// PromoResolver looks up a normalized (trimmed, upper-case) code.
type PromoResolver interface {
	Resolve(code string) (PromoRule, bool)
}

// StaticPromos is a fixed rule table keyed by upper-case code.
type StaticPromos map[string]PromoRule

func (p StaticPromos) Resolve(code string) (PromoRule, bool) {
	rule, ok := p[NormalizeCode(code)]
	return rule, ok
}

// List returns the rules sorted by code.
func (p StaticPromos) List() []PromoRule {
	out := make([]PromoRule, 0, len(p))
	for _, r := range p {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// DefaultPromos is the built-in rule table.
func DefaultPromos() StaticPromos {
	rules := []PromoRule{
		{Code: "WELCOME5", Kind: DiscountFixed, Value: decimal.NewFromInt(5), Description: "5 off your first order"},
		{Code: "TAKE10", Kind: DiscountFixed, Value: decimal.NewFromInt(10), Description: "10 off"},
		{Code: "CHOPMATE10", Kind: DiscountPercent, Value: decimal.NewFromInt(10), Description: "10% off the subtotal"},
		{Code: "SAVE20", Kind: DiscountPercent, Value: decimal.NewFromInt(20), Description: "20% off the subtotal"},
		{Code: "FREEDELIVERY", Kind: DiscountFreeDelivery, Description: "delivery fee waived"},
	}
	out := make(StaticPromos, len(rules))
	for _, r := range rules {
		out[r.Code] = r
	}
	return out
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
