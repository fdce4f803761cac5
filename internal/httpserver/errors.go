package httpserver

import (
	"errors"
	"net/http"

	"chopmate/internal/domain"
	cartsvc "chopmate/internal/service/cart"
	onboardingsvc "chopmate/internal/service/onboarding"
	ordersvc "chopmate/internal/service/order"
	vendorsvc "chopmate/internal/service/vendor"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var conflictErrors = []error{
	ordersvc.ErrCartEmpty,
	ordersvc.ErrInvalidTransition,
	onboardingsvc.ErrApplicationSubmitted,
	onboardingsvc.ErrStepIncomplete,
	vendorsvc.ErrVendorClosed,
	vendorsvc.ErrItemUnavailable,
}

// writeError maps service errors onto status codes with an {"error": ...} body.
func (h *handlers) writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		body := gin.H{"error": verr.Message}
		if verr.Field != "" {
			body["field"] = verr.Field
		}
		c.JSON(http.StatusBadRequest, body)
		return
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	case errors.Is(err, cartsvc.ErrPersist):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart could not be saved, reload and retry"})
		return
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
	}
	h.logger.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
