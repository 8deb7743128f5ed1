package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"unimarket/internal/application/billing/usecases"
	"unimarket/internal/shared/logger"
)

const (
	renewalLockKey = "unimarket:billing:renewal_batch_lock"
	renewalLockTTL = 30 * time.Minute
)

// RenewalScheduler runs the recurring charge batch on a fixed interval.
// A redis lock guards each batch so two instances of the worker never
// charge the same subscriptions twice; the lock expires on its own if a
// crashed worker never releases it.
type RenewalScheduler struct {
	chargeRenewalsUC *usecases.ChargeRenewalsUseCase
	redisClient      *redis.Client
	logger           logger.Interface
	stopChan         chan struct{}
	stopOnce         sync.Once
	wg               sync.WaitGroup
	interval         time.Duration
}

func NewRenewalScheduler(
	chargeRenewalsUC *usecases.ChargeRenewalsUseCase,
	redisClient *redis.Client,
	interval time.Duration,
	logger logger.Interface,
) *RenewalScheduler {
	return &RenewalScheduler{
		chargeRenewalsUC: chargeRenewalsUC,
		redisClient:      redisClient,
		logger:           logger,
		stopChan:         make(chan struct{}),
		interval:         interval,
	}
}

// Start starts the scheduler loop in the background.
func (s *RenewalScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting renewal scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully. Safe to call multiple times.
func (s *RenewalScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping renewal scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("renewal scheduler stopped")
	})
}

func (s *RenewalScheduler) runLoop(ctx context.Context) {
	// Run once on startup so a restarted worker does not wait a full
	// interval with due renewals pending.
	s.runBatch(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("renewal scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runBatch(ctx)
		}
	}
}

func (s *RenewalScheduler) runBatch(ctx context.Context) {
	if !s.acquireLock(ctx) {
		s.logger.Infow("renewal batch skipped, another instance holds the lock")
		return
	}
	defer s.releaseLock(ctx)

	result, err := s.chargeRenewalsUC.Execute(ctx, usecases.ChargeRenewalsCommand{
		Lookahead: usecases.ScheduledRenewalLookahead,
	})
	if err != nil {
		s.logger.Errorw("renewal batch failed", "error", err)
		return
	}

	if result.Processed > 0 {
		s.logger.Infow("renewal batch completed",
			"processed", result.Processed,
			"successful", result.Successful,
			"failed", result.Failed,
			"downgraded", result.Downgraded,
		)
	}
}

func (s *RenewalScheduler) acquireLock(ctx context.Context) bool {
	if s.redisClient == nil {
		return true
	}
	acquired, err := s.redisClient.SetNX(ctx, renewalLockKey, "1", renewalLockTTL).Result()
	if err != nil {
		// A broken lock store must not silently stop all renewals.
		s.logger.Warnw("failed to acquire renewal lock, proceeding without it", "error", err)
		return true
	}
	return acquired
}

func (s *RenewalScheduler) releaseLock(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, renewalLockKey).Err(); err != nil {
		s.logger.Warnw("failed to release renewal lock", "error", err)
	}
}
