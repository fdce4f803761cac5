package cart

import "errors"

var (
	// ErrInvalidPromoCode is returned (wrapped in a domain.ValidationError) for unknown codes.
	ErrInvalidPromoCode = errors.New("invalid promo code")
	// ErrQuantityTooLarge is returned (wrapped in a domain.ValidationError) when a line would
	// exceed MaxLineQuantity.
	ErrQuantityTooLarge = errors.New("quantity too large")
	// ErrPersist wraps storage write failures. The caller should reload with GetCart.
	ErrPersist = errors.New("cart not saved")
)
