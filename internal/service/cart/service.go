package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chopmate/internal/domain"
	"chopmate/internal/logging"
	cartrepo "chopmate/internal/repository/cart"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service keeps the single active cart of each session.
//
// Reads never fail: a missing, unreadable or corrupt snapshot is reported as no cart.
// Writes propagate storage failures wrapped in ErrPersist.
type Service struct {
	storage         cartrepo.Storage
	promos          PromoResolver
	locks           *sessionLocks
	logger          *zap.Logger
	now             func() time.Time
	orderedMatching bool
}

type Option func(*Service)

// WithPromoResolver replaces the built-in promo table.
func WithPromoResolver(r PromoResolver) Option {
	return func(s *Service) { s.promos = r }
}

// WithClock overrides time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithOrderedCustomizations matches lines on customization ids in selection order, so picking
// the same options in another order creates a separate line.
func WithOrderedCustomizations() Option {
	return func(s *Service) { s.orderedMatching = true }
}

func New(storage cartrepo.Storage, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		promos:  DefaultPromos(),
		locks:   newSessionLocks(),
		logger:  logging.OrNop(logger),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddInput describes one addToCart call. Vendor and Item are snapshots copied into the cart.
// Quantity zero means one; callers must not pass a negative quantity.
type AddInput struct {
	Vendor              domain.Vendor
	Item                domain.MenuItem
	Quantity            int
	Customizations      []domain.CustomizationSelection
	SpecialInstructions string
}

func storageKey(sessionID string) string {
	return "cart:" + sessionID
}

// GetCart returns the session's cart or nil when there is none.
func (s *Service) GetCart(ctx context.Context, sessionID string) *domain.Cart {
	return s.load(ctx, sessionID)
}

// AddToCart adds quantity of item to the session's cart, creating the cart when absent and
// replacing it when it belongs to another vendor.
func (s *Service) AddToCart(ctx context.Context, sessionID string, in AddInput) (*domain.Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}

	c := s.load(ctx, sessionID)
	if c != nil && c.VendorID != in.Vendor.ID {
		s.logger.Info("cart vendor switch, discarding cart",
			zap.String("session_id", sessionID),
			zap.String("from_vendor", c.VendorID),
			zap.String("to_vendor", in.Vendor.ID),
			zap.Int("discarded_lines", len(c.Lines)))
		c = nil
	}
	if c == nil {
		c = &domain.Cart{
			SessionID:      sessionID,
			VendorID:       in.Vendor.ID,
			Vendor:         in.Vendor,
			DiscountAmount: decimal.Zero,
		}
	}

	idx := s.findLine(c, in.Item.ID, in.Customizations)
	merged := quantity
	if idx >= 0 {
		merged += c.Lines[idx].Quantity
	}
	if quantity > MaxLineQuantity || merged > MaxLineQuantity {
		return nil, quantityTooLarge()
	}

	if idx >= 0 {
		line := &c.Lines[idx]
		line.Quantity = merged
		if in.SpecialInstructions != "" {
			line.SpecialInstructions = in.SpecialInstructions
		}
		line.LineTotal = LineTotal(*line)
	} else {
		item := in.Item
		item.Customizations = nil
		line := domain.CartLine{
			Item:                item,
			Quantity:            quantity,
			Customizations:      append([]domain.CustomizationSelection{}, in.Customizations...),
			SpecialInstructions: in.SpecialInstructions,
		}
		line.LineTotal = LineTotal(line)
		c.Lines = append(c.Lines, line)
	}

	*c = s.reprice(*c)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Debug("cart item added",
		zap.String("session_id", sessionID),
		zap.String("menu_item_id", in.Item.ID),
		zap.Int("quantity", quantity),
		zap.Stringer("total", c.Total))
	return c, nil
}

// RemoveFromCart drops the matching line whatever its quantity. Removing the last line deletes
// the cart and returns nil. A missing cart or line is not an error.
func (s *Service) RemoveFromCart(ctx context.Context, sessionID, menuItemID string, customizations []domain.CustomizationSelection) (*domain.Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()
	return s.removeLocked(ctx, sessionID, menuItemID, customizations)
}

func (s *Service) removeLocked(ctx context.Context, sessionID, menuItemID string, customizations []domain.CustomizationSelection) (*domain.Cart, error) {
	c := s.load(ctx, sessionID)
	if c == nil {
		return nil, nil
	}
	idx := s.findLine(c, menuItemID, customizations)
	if idx < 0 {
		return c, nil
	}

	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	if len(c.Lines) == 0 {
		if err := s.remove(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	*c = s.reprice(*c)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity sets the quantity of the matching line. Zero or less removes the line.
// Returns nil when the session has no cart.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, menuItemID string, customizations []domain.CustomizationSelection, quantity int) (*domain.Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	if quantity <= 0 {
		return s.removeLocked(ctx, sessionID, menuItemID, customizations)
	}
	if quantity > MaxLineQuantity {
		return nil, quantityTooLarge()
	}

	c := s.load(ctx, sessionID)
	if c == nil {
		return nil, nil
	}
	idx := s.findLine(c, menuItemID, customizations)
	if idx < 0 {
		return c, nil
	}

	c.Lines[idx].Quantity = quantity
	c.Lines[idx].LineTotal = LineTotal(c.Lines[idx])

	*c = s.reprice(*c)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ClearCart deletes the session's cart. Clearing an absent cart succeeds.
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()
	return s.remove(ctx, sessionID)
}

// CheckoutCart hands the session's cart to place while holding the session lock, then deletes
// the cart once place succeeds. place receives nil when there is no cart. An error from place
// is returned as is and leaves the cart untouched.
func (s *Service) CheckoutCart(ctx context.Context, sessionID string, place func(*domain.Cart) error) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	c := s.load(ctx, sessionID)
	if err := place(c); err != nil {
		return err
	}
	if c == nil {
		return nil
	}
	return s.remove(ctx, sessionID)
}

// ApplyPromoCode attaches code to the cart. Unknown codes fail with ErrInvalidPromoCode and
// leave the cart untouched. With no cart it is a no-op returning nil.
func (s *Service) ApplyPromoCode(ctx context.Context, sessionID, code string) (*domain.Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	normalized := NormalizeCode(code)
	rule, ok := s.promos.Resolve(normalized)
	if !ok {
		return nil, domain.NewValidationError("code", fmt.Sprintf("promo code %q is not valid", normalized), ErrInvalidPromoCode)
	}

	c := s.load(ctx, sessionID)
	if c == nil {
		return nil, nil
	}

	c.PromoCode = rule.Code
	*c = s.reprice(*c)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("promo applied",
		zap.String("session_id", sessionID),
		zap.String("code", rule.Code),
		zap.Stringer("discount", c.DiscountAmount))
	return c, nil
}

// RemovePromoCode detaches any promo code and zeroes the discount. Returns nil with no cart.
func (s *Service) RemovePromoCode(ctx context.Context, sessionID string) (*domain.Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	c := s.load(ctx, sessionID)
	if c == nil {
		return nil, nil
	}
	c.PromoCode = ""
	c.DiscountAmount = decimal.Zero
	*c = CalculateTotals(*c)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func quantityTooLarge() error {
	return domain.NewValidationError("quantity", fmt.Sprintf("quantity must not exceed %d", MaxLineQuantity), ErrQuantityTooLarge)
}

// reprice recalculates totals and, when a promo is attached, re-resolves its discount against
// the new subtotal so percentage rules track the cart contents.
func (s *Service) reprice(c domain.Cart) domain.Cart {
	if c.PromoCode == "" {
		c.DiscountAmount = decimal.Zero
		return CalculateTotals(c)
	}
	rule, ok := s.promos.Resolve(c.PromoCode)
	if !ok {
		s.logger.Warn("stored promo no longer valid, dropping",
			zap.String("session_id", c.SessionID),
			zap.String("code", c.PromoCode))
		c.PromoCode = ""
		c.DiscountAmount = decimal.Zero
		return CalculateTotals(c)
	}
	c = CalculateTotals(c)
	c.DiscountAmount = rule.Discount(c)
	return CalculateTotals(c)
}

func (s *Service) load(ctx context.Context, sessionID string) *domain.Cart {
	raw, err := s.storage.Get(ctx, storageKey(sessionID))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("cart read failed, treating as empty",
				zap.String("session_id", sessionID), zap.Error(err))
		}
		return nil
	}

	var c domain.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.logger.Warn("cart snapshot corrupt, treating as empty",
			zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	if len(c.Lines) == 0 {
		return nil
	}
	c.SessionID = sessionID
	return &c
}

func (s *Service) save(ctx context.Context, c *domain.Cart) error {
	c.Version++
	c.UpdatedAt = s.now().UTC()
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}
	if err := s.storage.Set(ctx, storageKey(c.SessionID), string(raw)); err != nil {
		s.logger.Error("cart write failed", zap.String("session_id", c.SessionID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (s *Service) remove(ctx context.Context, sessionID string) error {
	if err := s.storage.Remove(ctx, storageKey(sessionID)); err != nil {
		s.logger.Error("cart delete failed", zap.String("session_id", sessionID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
