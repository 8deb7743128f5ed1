package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"unimarket/internal/application/billing/usecases"
	"unimarket/internal/infrastructure/config"
	"unimarket/internal/infrastructure/email"
	"unimarket/internal/infrastructure/gateway/netopia"
	"unimarket/internal/infrastructure/repository"
	"unimarket/internal/interfaces/http/handlers"
	"unimarket/internal/interfaces/http/middleware"
	"unimarket/internal/interfaces/http/routes"
	"unimarket/internal/shared/logger"

	_ "unimarket/docs"
)

// Router wires the billing use cases into the HTTP surface.
type Router struct {
	engine           *gin.Engine
	paymentHandler   *handlers.PaymentHandler
	renewalHandler   *handlers.RenewalHandler
	downgradeHandler *handlers.DowngradeHandler
	cronSecret       *middleware.SharedSecret
	adminSecret      *middleware.SharedSecret
	logger           logger.Interface

	// ChargeRenewals is exposed for the background scheduler so the
	// periodic job and the HTTP triggers share one code path.
	ChargeRenewals *usecases.ChargeRenewalsUseCase
}

// NewRouter creates a new HTTP router with all dependencies.
func NewRouter(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.Logger(log))

	orderRepo := repository.NewOrderRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)

	gatewayClient := netopia.NewClient(cfg.Netopia, log.With("component", "netopia"))

	reconciler := usecases.NewPaymentReconciler(orderRepo, subscriptionRepo, planRepo, userRepo, log.With("component", "reconciler"))

	notifier, err := email.NewNotifier(cfg.Email, log.With("component", "email"))
	if err != nil {
		return nil, err
	}
	reconciler.SetNotifier(notifier)

	handleIPNUC := usecases.NewHandleIPNUseCase(orderRepo, userRepo, reconciler, log.With("component", "ipn"))
	startSubscriptionUC := usecases.NewStartSubscriptionUseCase(orderRepo, planRepo, userRepo, gatewayClient, log.With("component", "start_subscription"))
	chargeRenewalsUC := usecases.NewChargeRenewalsUseCase(subscriptionRepo, planRepo, orderRepo, userRepo, gatewayClient, reconciler, log.With("component", "renewals"))

	downgradeUC := usecases.NewDowngradeUserUseCase(userRepo, subscriptionRepo, log.With("component", "downgrade"))
	downgradeUC.SetNotifier(notifier)

	return &Router{
		engine:           engine,
		paymentHandler:   handlers.NewPaymentHandler(handleIPNUC, startSubscriptionUC, log.With("component", "payment_handler")),
		renewalHandler:   handlers.NewRenewalHandler(chargeRenewalsUC, log.With("component", "renewal_handler")),
		downgradeHandler: handlers.NewDowngradeHandler(downgradeUC, log.With("component", "downgrade_handler")),
		cronSecret:       middleware.NewSharedSecret(cfg.Billing.CronSecret, "cron_secret", log),
		adminSecret:      middleware.NewSharedSecret(cfg.Billing.AdminSecret, "admin_secret", log),
		logger:           log,
		ChargeRenewals:   chargeRenewalsUC,
	}, nil
}

// SetupRoutes registers all routes on the engine.
func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/v1")

	routes.SetupPaymentRoutes(api, &routes.PaymentRouteConfig{
		PaymentHandler: r.paymentHandler,
	})

	routes.SetupRenewalRoutes(api, &routes.RenewalRouteConfig{
		RenewalHandler:   r.renewalHandler,
		DowngradeHandler: r.downgradeHandler,
		CronSecret:       r.cronSecret,
		AdminSecret:      r.adminSecret,
	})
}

// GetEngine returns the underlying gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
