package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"unimarket/internal/application/billing/usecases"
	"unimarket/internal/infrastructure/config"
	"unimarket/internal/infrastructure/database"
	"unimarket/internal/infrastructure/email"
	"unimarket/internal/infrastructure/gateway/netopia"
	"unimarket/internal/infrastructure/repository"
	"unimarket/internal/infrastructure/scheduler"
	"unimarket/internal/shared/biztime"
	"unimarket/internal/shared/logger"
)

// The renewal worker runs the recurring charge batch on an interval. It
// is deployed separately from the HTTP server; a redis lock keeps
// overlapping instances from double charging.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.NewLogger()
	log.Infow("starting renewal worker", "environment", env)

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		log.Errorw("failed to initialize business timezone", "error", err)
		os.Exit(1)
	}

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Errorw("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	db := database.Get()
	orderRepo := repository.NewOrderRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)

	gatewayClient := netopia.NewClient(cfg.Netopia, log.With("component", "netopia"))

	reconciler := usecases.NewPaymentReconciler(orderRepo, subscriptionRepo, planRepo, userRepo, log.With("component", "reconciler"))

	notifier, err := email.NewNotifier(cfg.Email, log.With("component", "email"))
	if err != nil {
		log.Errorw("failed to initialize email notifier", "error", err)
		os.Exit(1)
	}
	reconciler.SetNotifier(notifier)

	chargeRenewalsUC := usecases.NewChargeRenewalsUseCase(
		subscriptionRepo, planRepo, orderRepo, userRepo,
		gatewayClient, reconciler, log.With("component", "renewals"),
	)

	interval := time.Duration(cfg.Billing.SchedulerIntervalMinutes) * time.Minute
	renewalScheduler := scheduler.NewRenewalScheduler(chargeRenewalsUC, redisClient, interval, log.With("component", "scheduler"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renewalScheduler.Start(ctx)
	log.Infow("renewal worker started", "interval", interval.String())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Infow("shutting down renewal worker")
	cancel()
	renewalScheduler.Stop()
	log.Infow("renewal worker stopped")
}
