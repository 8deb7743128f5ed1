package routes

import (
	"github.com/gin-gonic/gin"

	"unimarket/internal/interfaces/http/handlers"
	"unimarket/internal/interfaces/http/middleware"
)

// RenewalRouteConfig holds dependencies for renewal and admin routes.
type RenewalRouteConfig struct {
	RenewalHandler   *handlers.RenewalHandler
	DowngradeHandler *handlers.DowngradeHandler
	CronSecret       *middleware.SharedSecret
	AdminSecret      *middleware.SharedSecret
}

// SetupRenewalRoutes configures the renewal trigger and admin routes.
func SetupRenewalRoutes(group *gin.RouterGroup, cfg *RenewalRouteConfig) {
	renewals := group.Group("/renewals")
	renewals.Use(cfg.CronSecret.Require())
	{
		renewals.POST("/run", cfg.RenewalHandler.RunScheduled)
	}

	admin := group.Group("/admin")
	admin.Use(cfg.AdminSecret.Require())
	{
		admin.POST("/renewals/run", cfg.RenewalHandler.RunDue)
		admin.POST("/users/:id/downgrade", cfg.DowngradeHandler.Downgrade)
	}
}
