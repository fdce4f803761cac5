package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"chopmate/internal/domain"
	cartsvc "chopmate/internal/service/cart"
	ordersvc "chopmate/internal/service/order"
	"github.com/gin-gonic/gin"
)

func (h *handlers) createSession(c *gin.Context) {
	token, sessionID, err := h.deps.Sessions.Issue(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token":     token,
		"tokenType": "Bearer",
		"sessionId": sessionID,
		"expiresIn": h.deps.Sessions.TTLSeconds(),
	})
}

func (h *handlers) listVendors(c *gin.Context) {
	vendors, err := h.deps.Vendors.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if vendors == nil {
		vendors = []domain.Vendor{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(vendors), "results": vendors})
}

func (h *handlers) getVendor(c *gin.Context) {
	v, err := h.deps.Vendors.Get(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *handlers) getMenu(c *gin.Context) {
	ctx := c.Request.Context()
	vendorID := c.Param("vendorId")
	v, err := h.deps.Vendors.Get(ctx, vendorID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	items, err := h.deps.Vendors.Menu(ctx, vendorID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMenuResponse(*v, items))
}

func (h *handlers) listPromos(c *gin.Context) {
	if h.deps.Promos == nil {
		c.JSON(http.StatusOK, toPromoList(nil))
		return
	}
	c.JSON(http.StatusOK, toPromoList(h.deps.Promos.List()))
}

type addItemRequest struct {
	VendorID            string   `json:"vendorId" binding:"required"`
	MenuItemID          string   `json:"menuItemId" binding:"required"`
	Quantity            int      `json:"quantity"`
	CustomizationIDs    []string `json:"customizationIds"`
	SpecialInstructions string   `json:"specialInstructions"`
}

type lineRequest struct {
	MenuItemID       string   `json:"menuItemId" binding:"required"`
	CustomizationIDs []string `json:"customizationIds"`
	Quantity         int      `json:"quantity"`
}

type promoRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(h.deps.Carts.GetCart(c.Request.Context(), sessionID(c))))
}

func (h *handlers) clearCart(c *gin.Context) {
	if err := h.deps.Carts.ClearCart(c.Request.Context(), sessionID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(nil))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "vendorId and menuItemId required")
		return
	}
	if req.Quantity < 0 || req.Quantity > cartsvc.MaxLineQuantity {
		badRequest(c, fmt.Sprintf("quantity must be between 1 and %d", cartsvc.MaxLineQuantity))
		return
	}
	ctx := c.Request.Context()
	line, err := h.deps.Vendors.ResolveLine(ctx, req.VendorID, req.MenuItemID, req.CustomizationIDs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	cart, err := h.deps.Carts.AddToCart(ctx, sessionID(c), cartsvc.AddInput{
		Vendor:              line.Vendor,
		Item:                line.Item,
		Quantity:            req.Quantity,
		Customizations:      line.Customizations,
		SpecialInstructions: strings.TrimSpace(req.SpecialInstructions),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "menuItemId required")
		return
	}
	if req.Quantity > cartsvc.MaxLineQuantity {
		badRequest(c, fmt.Sprintf("quantity must not exceed %d", cartsvc.MaxLineQuantity))
		return
	}
	cart, err := h.deps.Carts.UpdateQuantity(c.Request.Context(), sessionID(c), req.MenuItemID,
		cartsvc.Selections(req.CustomizationIDs...), req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	var req lineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "menuItemId required")
		return
	}
	cart, err := h.deps.Carts.RemoveFromCart(c.Request.Context(), sessionID(c), req.MenuItemID,
		cartsvc.Selections(req.CustomizationIDs...))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) applyPromo(c *gin.Context) {
	var req promoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "code required")
		return
	}
	cart, err := h.deps.Carts.ApplyPromoCode(c.Request.Context(), sessionID(c), req.Code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *handlers) removePromo(c *gin.Context) {
	cart, err := h.deps.Carts.RemovePromoCode(c.Request.Context(), sessionID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

type checkoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress"`
	ContactPhone    string `json:"contactPhone"`
	PaymentMethod   string `json:"paymentMethod"`
}

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	order, err := h.deps.Orders.Checkout(c.Request.Context(), sessionID(c), ordersvc.CheckoutInput{
		DeliveryAddress: req.DeliveryAddress,
		ContactPhone:    req.ContactPhone,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.Orders.List(c.Request.Context(), sessionID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "results": orders})
}

func (h *handlers) getOrder(c *gin.Context) {
	order, err := h.deps.Orders.Get(c.Request.Context(), sessionID(c), c.Param("orderId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// cancelOrder is the only status change a customer may make.
func (h *handlers) cancelOrder(c *gin.Context) {
	ctx := c.Request.Context()
	order, err := h.deps.Orders.Get(ctx, sessionID(c), c.Param("orderId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	order, err = h.deps.Orders.Advance(ctx, order.ID, domain.OrderCancelled)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) startApplication(c *gin.Context) {
	app, err := h.deps.Onboarding.Start(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *handlers) getApplication(c *gin.Context) {
	app, err := h.deps.Onboarding.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *handlers) saveBusiness(c *gin.Context) {
	var req domain.BusinessInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	h.respondApplication(c)(h.deps.Onboarding.SaveBusiness(c.Request.Context(), c.Param("id"), req))
}

func (h *handlers) saveContact(c *gin.Context) {
	var req domain.ContactInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	h.respondApplication(c)(h.deps.Onboarding.SaveContact(c.Request.Context(), c.Param("id"), req))
}

func (h *handlers) savePayout(c *gin.Context) {
	var req domain.PayoutInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json body")
		return
	}
	h.respondApplication(c)(h.deps.Onboarding.SavePayout(c.Request.Context(), c.Param("id"), req))
}

func (h *handlers) applicationBack(c *gin.Context) {
	h.respondApplication(c)(h.deps.Onboarding.Back(c.Request.Context(), c.Param("id")))
}

func (h *handlers) submitApplication(c *gin.Context) {
	h.respondApplication(c)(h.deps.Onboarding.Submit(c.Request.Context(), c.Param("id")))
}

func (h *handlers) respondApplication(c *gin.Context) func(*domain.VendorApplication, error) {
	return func(app *domain.VendorApplication, err error) {
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, app)
	}
}
