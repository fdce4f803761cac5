package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"chopmate/internal/domain"
	"chopmate/internal/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCartEmpty         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidCheckout   = errors.New("invalid checkout")
)

type cartStore interface {
	CheckoutCart(ctx context.Context, sessionID string, place func(*domain.Cart) error) error
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error)
}

type Service struct {
	carts  cartStore
	repo   orderRepo
	logger *zap.Logger
	now    func() time.Time
}

func New(carts cartStore, repo orderRepo, logger *zap.Logger) *Service {
	return &Service{
		carts:  carts,
		repo:   repo,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

type CheckoutInput struct {
	DeliveryAddress string
	ContactPhone    string
	PaymentMethod   domain.PaymentMethod
}

// transitions lists the statuses reachable from each status.
var transitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderPlaced:         {domain.OrderConfirmed, domain.OrderCancelled},
	domain.OrderConfirmed:      {domain.OrderPreparing, domain.OrderCancelled},
	domain.OrderPreparing:      {domain.OrderOutForDelivery},
	domain.OrderOutForDelivery: {domain.OrderDelivered},
}

func CanTransition(from, to domain.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Checkout turns the session's cart into a placed order and clears the cart.
func (s *Service) Checkout(ctx context.Context, sessionID string, in CheckoutInput) (*domain.Order, error) {
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.PaymentMethod = domain.PaymentMethod(strings.ToLower(strings.TrimSpace(string(in.PaymentMethod))))
	if err := validateCheckout(in); err != nil {
		return nil, err
	}

	var created *domain.Order
	err := s.carts.CheckoutCart(ctx, sessionID, func(c *domain.Cart) error {
		if c == nil || len(c.Lines) == 0 {
			return ErrCartEmpty
		}
		o, err := s.repo.Create(ctx, s.orderFromCart(sessionID, *c, in))
		if err != nil {
			return err
		}
		created = o
		return nil
	})
	if created == nil {
		return nil, err
	}
	if err != nil {
		s.logger.Warn("order placed but cart not cleared",
			zap.String("session_id", sessionID),
			zap.String("order_id", created.ID),
			zap.Error(err))
	}
	s.logger.Info("order placed",
		zap.String("order_id", created.ID),
		zap.String("vendor_id", created.VendorID),
		zap.Stringer("total", created.Total))
	return created, nil
}

func (s *Service) orderFromCart(sessionID string, c domain.Cart, in CheckoutInput) domain.Order {
	now := s.now().UTC()
	return domain.Order{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		VendorID:        c.VendorID,
		VendorName:      c.Vendor.Name,
		Lines:           c.Lines,
		Subtotal:        c.Subtotal,
		DeliveryFee:     c.DeliveryFee,
		ServiceFee:      c.ServiceFee,
		DiscountAmount:  c.DiscountAmount,
		Total:           c.Total,
		PromoCode:       c.PromoCode,
		DeliveryAddress: in.DeliveryAddress,
		ContactPhone:    in.ContactPhone,
		PaymentMethod:   in.PaymentMethod,
		Status:          domain.OrderPlaced,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func invalid(msg string) error {
	return domain.NewValidationError("", msg, ErrInvalidCheckout)
}

func validateCheckout(in CheckoutInput) error {
	if in.DeliveryAddress == "" {
		return invalid("delivery address required")
	}
	if in.ContactPhone == "" {
		return invalid("contact phone required")
	}
	if !validPhone(in.ContactPhone) {
		return invalid("contact phone invalid")
	}
	switch in.PaymentMethod {
	case domain.PaymentCard, domain.PaymentCash:
	case "":
		return invalid("payment method required")
	default:
		return invalid("payment method must be card or cash")
	}
	return nil
}

// validPhone accepts an optional leading + followed by 7 to 15 digits, ignoring spaces and dashes.
func validPhone(phone string) bool {
	digits := 0
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

// Get returns an order of the session. Orders of other sessions are reported as not found.
func (s *Service) Get(ctx context.Context, sessionID, id string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.SessionID != sessionID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, sessionID string) ([]domain.Order, error) {
	return s.repo.ListBySession(ctx, sessionID)
}

// Advance moves the order to status if the status machine allows it.
func (s *Service) Advance(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, status) {
		return nil, ErrInvalidTransition
	}
	ok, err := s.repo.UpdateStatus(ctx, id, o.Status, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		// status changed underneath us
		return nil, ErrInvalidTransition
	}
	s.logger.Info("order status changed",
		zap.String("order_id", id),
		zap.String("from", string(o.Status)),
		zap.String("to", string(status)))
	return s.repo.GetByID(ctx, id)
}
