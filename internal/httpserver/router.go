package httpserver

import (
	"context"
	"errors"
	"slices"
	"time"

	"chopmate/internal/domain"
	cartsvc "chopmate/internal/service/cart"
	ordersvc "chopmate/internal/service/order"
	vendorsvc "chopmate/internal/service/vendor"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionService interface {
	Issue(ctx context.Context) (token, sessionID string, err error)
	Lookup(ctx context.Context, token string) (string, error)
	TTLSeconds() int
}

type VendorService interface {
	List(ctx context.Context) ([]domain.Vendor, error)
	Get(ctx context.Context, id string) (*domain.Vendor, error)
	Menu(ctx context.Context, vendorID string) ([]domain.MenuItem, error)
	ResolveLine(ctx context.Context, vendorID, itemID string, optionIDs []string) (*vendorsvc.Line, error)
}

type CartService interface {
	GetCart(ctx context.Context, sessionID string) *domain.Cart
	AddToCart(ctx context.Context, sessionID string, in cartsvc.AddInput) (*domain.Cart, error)
	RemoveFromCart(ctx context.Context, sessionID, menuItemID string, customizations []domain.CustomizationSelection) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, menuItemID string, customizations []domain.CustomizationSelection, quantity int) (*domain.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
	ApplyPromoCode(ctx context.Context, sessionID, code string) (*domain.Cart, error)
	RemovePromoCode(ctx context.Context, sessionID string) (*domain.Cart, error)
}

type OrderService interface {
	Checkout(ctx context.Context, sessionID string, in ordersvc.CheckoutInput) (*domain.Order, error)
	Get(ctx context.Context, sessionID, id string) (*domain.Order, error)
	List(ctx context.Context, sessionID string) ([]domain.Order, error)
	Advance(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type OnboardingService interface {
	Start(ctx context.Context) (*domain.VendorApplication, error)
	Get(ctx context.Context, id string) (*domain.VendorApplication, error)
	SaveBusiness(ctx context.Context, id string, in domain.BusinessInfo) (*domain.VendorApplication, error)
	SaveContact(ctx context.Context, id string, in domain.ContactInfo) (*domain.VendorApplication, error)
	SavePayout(ctx context.Context, id string, in domain.PayoutInfo) (*domain.VendorApplication, error)
	Back(ctx context.Context, id string) (*domain.VendorApplication, error)
	Submit(ctx context.Context, id string) (*domain.VendorApplication, error)
}

type PromoCatalog interface {
	List() []cartsvc.PromoRule
}

// Deps are the services the router dispatches to.
type Deps struct {
	Sessions       SessionService
	Vendors        VendorService
	Carts          CartService
	Orders         OrderService
	Onboarding     OnboardingService
	Promos         PromoCatalog
	ReadyChecks    []ReadyCheck
	AllowedOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.Sessions == nil:
		return errors.New("httpserver: session service required")
	case d.Vendors == nil:
		return errors.New("httpserver: vendor service required")
	case d.Carts == nil:
		return errors.New("httpserver: cart service required")
	case d.Orders == nil:
		return errors.New("httpserver: order service required")
	case d.Onboarding == nil:
		return errors.New("httpserver: onboarding service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), cors.New(corsConfig(deps.AllowedOrigins)))

	h := &handlers{deps: deps, logger: logger}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.ReadyChecks, logger))

	router.POST("/sessions", h.createSession)
	router.GET("/vendors", h.listVendors)
	router.GET("/vendors/:vendorId", h.getVendor)
	router.GET("/vendors/:vendorId/menu", h.getMenu)
	router.GET("/promos", h.listPromos)

	authed := router.Group("/", sessionMiddleware(deps.Sessions))
	authed.GET("/cart", h.getCart)
	authed.DELETE("/cart", h.clearCart)
	authed.POST("/cart/items", h.addCartItem)
	authed.PATCH("/cart/items", h.updateCartItem)
	authed.DELETE("/cart/items", h.removeCartItem)
	authed.POST("/cart/promo", h.applyPromo)
	authed.DELETE("/cart/promo", h.removePromo)

	authed.POST("/orders", h.checkout)
	authed.GET("/orders", h.listOrders)
	authed.GET("/orders/:orderId", h.getOrder)
	authed.POST("/orders/:orderId/cancel", h.cancelOrder)

	router.POST("/vendor-applications", h.startApplication)
	router.GET("/vendor-applications/:id", h.getApplication)
	router.PUT("/vendor-applications/:id/business", h.saveBusiness)
	router.PUT("/vendor-applications/:id/contact", h.saveContact)
	router.PUT("/vendor-applications/:id/payout", h.savePayout)
	router.POST("/vendor-applications/:id/back", h.applicationBack)
	router.POST("/vendor-applications/:id/submit", h.submitApplication)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
