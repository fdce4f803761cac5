package cart

import (
	"chopmate/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// FreeDeliveryThreshold is the subtotal from which delivery is free.
	FreeDeliveryThreshold = decimal.NewFromInt(50)
	// StandardDeliveryFee applies below FreeDeliveryThreshold.
	StandardDeliveryFee = decimal.NewFromInt(5)
	// ServiceFeeRate is charged on the subtotal.
	ServiceFeeRate = decimal.RequireFromString("0.02")
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 99

// CalculateTotals derives subtotal, delivery fee, service fee and total from the line totals
// and the stored discount. It does no I/O and returns the same result when applied twice.
func CalculateTotals(c domain.Cart) domain.Cart {
	subtotal := decimal.Zero
	for _, line := range c.Lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	c.Subtotal = subtotal
	c.DeliveryFee = DeliveryFee(subtotal)
	c.ServiceFee = subtotal.Mul(ServiceFeeRate)

	total := subtotal.Add(c.DeliveryFee).Add(c.ServiceFee).Sub(c.DiscountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	c.Total = total
	return c
}

// DeliveryFee returns the delivery fee owed for subtotal.
func DeliveryFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return StandardDeliveryFee
}

// LineTotal is quantity × (item price + customization deltas), computed from scratch.
func LineTotal(line domain.CartLine) decimal.Decimal {
	return line.UnitPrice().Mul(decimal.NewFromInt(int64(line.Quantity)))
}
