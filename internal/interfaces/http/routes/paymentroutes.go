package routes

import (
	"github.com/gin-gonic/gin"

	"unimarket/internal/interfaces/http/handlers"
)

// PaymentRouteConfig holds dependencies for payment routes.
type PaymentRouteConfig struct {
	PaymentHandler *handlers.PaymentHandler
}

// SetupPaymentRoutes configures payment routes. The IPN endpoint is
// deliberately unauthenticated; the gateway sends no credentials and the
// payload is validated by resolving a known order.
func SetupPaymentRoutes(group *gin.RouterGroup, cfg *PaymentRouteConfig) {
	payments := group.Group("/payments")
	{
		payments.POST("/ipn", cfg.PaymentHandler.HandleIPN)
		payments.POST("/start", cfg.PaymentHandler.StartSubscription)
	}
}
