package usecases

import (
	"context"
	"fmt"
	"time"

	"unimarket/internal/domain/subscription"
	"unimarket/internal/domain/user"
	apperrors "unimarket/internal/shared/errors"
	"unimarket/internal/shared/goroutine"
	"unimarket/internal/shared/logger"
)

// DowngradeUserCommand demotes a user to the free tier.
type DowngradeUserCommand struct {
	UserID uint
	Reason string
}

// DowngradeUserUseCase drops a user to the basic plan and cancels the
// active subscription. Safe to call repeatedly; a user already on basic
// with no active subscription is left untouched.
type DowngradeUserUseCase struct {
	userRepo         user.UserRepository
	subscriptionRepo subscription.SubscriptionRepository
	notifier         BillingNotifier // Optional
	logger           logger.Interface
}

func NewDowngradeUserUseCase(
	userRepo user.UserRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *DowngradeUserUseCase {
	return &DowngradeUserUseCase{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// SetNotifier sets the outcome notifier (optional dependency injection).
func (uc *DowngradeUserUseCase) SetNotifier(notifier BillingNotifier) {
	uc.notifier = notifier
}

func (uc *DowngradeUserUseCase) Execute(ctx context.Context, cmd DowngradeUserCommand) error {
	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return apperrors.NewNotFoundError("user not found")
	}

	alreadyBasic := u.PlanType() == user.PlanBasic

	if err := u.SetPlanType(user.PlanBasic); err != nil {
		return fmt.Errorf("failed to downgrade plan type: %w", err)
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to persist downgrade: %w", err)
	}

	sub, err := uc.subscriptionRepo.GetActiveByUserID(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("failed to load active subscription: %w", err)
	}
	cancelled := false
	if sub != nil {
		if err := sub.Cancel(); err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			return fmt.Errorf("failed to update cancelled subscription: %w", err)
		}
		cancelled = true
	}

	if alreadyBasic && !cancelled {
		uc.logger.Debugw("user already on basic plan", "user_id", cmd.UserID)
		return nil
	}

	uc.logger.Infow("user downgraded",
		"user_id", cmd.UserID,
		"reason", cmd.Reason,
		"subscription_cancelled", cancelled,
	)

	if uc.notifier != nil {
		n := FailureNotification{
			Email:      u.Email(),
			Name:       u.Name(),
			PlanName:   user.PlanBasic.String(),
			Reason:     cmd.Reason,
			Downgraded: true,
		}
		goroutine.SafeGo(uc.logger, "billing-notify-downgrade", func() {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := uc.notifier.NotifyFailure(notifyCtx, n); err != nil {
				uc.logger.Warnw("failed to send downgrade notification",
					"user_id", cmd.UserID, "error", err)
			}
		})
	}

	return nil
}
