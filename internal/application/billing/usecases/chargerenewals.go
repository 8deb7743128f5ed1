package usecases

import (
	"context"
	"fmt"
	"time"

	appbilling "unimarket/internal/application/billing"
	"unimarket/internal/application/billing/gateway"
	"unimarket/internal/domain/billing"
	vo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/domain/subscription"
	"unimarket/internal/domain/user"
	"unimarket/internal/shared/biztime"
	"unimarket/internal/shared/logger"
)

// Lookahead windows for the two renewal entry points. The periodic job
// charges ahead of expiry so a failed card still has the grace window to
// be retried; the admin trigger only touches already-due subscriptions.
const (
	ScheduledRenewalLookahead = 72 * time.Hour
	AdminRenewalLookahead     = 0
)

// ChargeRenewalsCommand selects the batch window.
type ChargeRenewalsCommand struct {
	Lookahead time.Duration
}

// RenewalDetail is the per-subscription record of one batch item.
type RenewalDetail struct {
	SubscriptionID uint   `json:"subscription_id"`
	UserID         uint   `json:"user_id"`
	OrderID        string `json:"order_id,omitempty"`
	Success        bool   `json:"success"`
	Downgraded     bool   `json:"downgraded,omitempty"`
	Message        string `json:"message,omitempty"`
}

// BatchResult summarizes one renewal batch.
type BatchResult struct {
	Processed  int             `json:"processed"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Downgraded int             `json:"downgraded"`
	Details    []RenewalDetail `json:"details"`
}

// ChargeRenewalsUseCase runs one renewal batch: it finds due
// subscriptions, charges each stored token and reconciles the result
// through the same path the IPN handler uses. One misbehaving
// subscription never takes down the batch.
type ChargeRenewalsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	orderRepo        billing.OrderRepository
	userRepo         user.UserRepository
	gateway          gateway.PaymentGateway
	reconciler       *PaymentReconciler
	logger           logger.Interface
}

func NewChargeRenewalsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	orderRepo billing.OrderRepository,
	userRepo user.UserRepository,
	gw gateway.PaymentGateway,
	reconciler *PaymentReconciler,
	logger logger.Interface,
) *ChargeRenewalsUseCase {
	return &ChargeRenewalsUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		orderRepo:        orderRepo,
		userRepo:         userRepo,
		gateway:          gw,
		reconciler:       reconciler,
		logger:           logger,
	}
}

// Execute processes all subscriptions due within the lookahead window.
func (uc *ChargeRenewalsUseCase) Execute(ctx context.Context, cmd ChargeRenewalsCommand) (*BatchResult, error) {
	cutoff := biztime.NowUTC().Add(cmd.Lookahead)

	due, err := uc.subscriptionRepo.FindDueForRenewal(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to find due subscriptions: %w", err)
	}

	result := &BatchResult{Details: make([]RenewalDetail, 0, len(due))}
	if len(due) == 0 {
		return result, nil
	}

	uc.logger.Infow("renewal batch started", "count", len(due), "lookahead", cmd.Lookahead.String())

	for _, sub := range due {
		result.Processed++
		detail := uc.processSubscription(ctx, sub)
		result.Details = append(result.Details, detail)
		if detail.Success {
			result.Successful++
		} else {
			result.Failed++
			if detail.Downgraded {
				result.Downgraded++
			}
		}
	}

	uc.logger.Infow("renewal batch finished",
		"processed", result.Processed,
		"successful", result.Successful,
		"failed", result.Failed,
		"downgraded", result.Downgraded,
	)
	return result, nil
}

func (uc *ChargeRenewalsUseCase) processSubscription(ctx context.Context, sub *subscription.Subscription) (detail RenewalDetail) {
	detail = RenewalDetail{SubscriptionID: sub.ID(), UserID: sub.UserID()}

	defer func() {
		if rec := recover(); rec != nil {
			uc.logger.Errorw("panic while renewing subscription",
				"subscription_id", sub.ID(), "user_id", sub.UserID(), "panic", rec)
			detail.Success = false
			detail.Message = fmt.Sprintf("internal error: %v", rec)
		}
	}()

	u, err := uc.userRepo.GetByID(ctx, sub.UserID())
	if err != nil {
		detail.Message = fmt.Sprintf("user not found: %v", err)
		return detail
	}

	// The user's stored token mirrors the token captured on the last
	// successful order; the user copy is the fast lookup path for
	// scheduling, the order copy keeps per-transaction provenance.
	if !u.AutoRenewEnabled() || u.RecurringToken() == nil || *u.RecurringToken() == "" {
		uc.logger.Infow("no recurring token, downgrading",
			"subscription_id", sub.ID(), "user_id", u.ID())
		uc.demote(ctx, sub, u)
		detail.Message = "no recurring token on file"
		detail.Downgraded = true
		return detail
	}

	// The charge always uses the plan the user is on right now, so a
	// user who switched tiers since the last cycle pays the new price.
	plan, err := uc.planRepo.GetByType(ctx, u.PlanType().String())
	if err != nil {
		detail.Message = fmt.Sprintf("plan %s not found: %v", u.PlanType(), err)
		return detail
	}

	prior, err := uc.orderRepo.FindLatestTokenOrder(ctx, u.ID())
	if err != nil {
		uc.logger.Warnw("no prior order snapshot for billing profile",
			"user_id", u.ID(), "error", err)
		prior = nil
	}
	profile := appbilling.ResolveBillingProfile(prior, u)

	order, err := billing.NewOrder(u.ID(), plan.ID(), plan.PlanType(), plan.Price(), vo.OriginRecurring, profile)
	if err != nil {
		detail.Message = fmt.Sprintf("failed to build order: %v", err)
		return detail
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		detail.Message = fmt.Sprintf("failed to create order: %v", err)
		return detail
	}
	detail.OrderID = order.OrderID()

	res := uc.gateway.CreateRecurringPayment(ctx, gateway.RecurringPaymentRequest{
		OrderID:     order.OrderID(),
		Token:       *u.RecurringToken(),
		Amount:      plan.Price().Units(),
		Currency:    plan.Price().Currency(),
		Description: fmt.Sprintf("%s subscription renewal", plan.Name()),
		Billing:     profile,
	})

	in := ReconcilePaymentInput{
		Order:  order,
		User:   u,
		Signal: res.Signal(),
		NtpID:  res.NtpID,
	}
	if res.Token != "" {
		in.Token = &res.Token
	}
	if res.TokenExpiry != "" {
		in.TokenExpiry = &res.TokenExpiry
	}
	if res.MaskedCard != "" {
		in.MaskedCard = &res.MaskedCard
	}

	outcome, err := uc.reconciler.Apply(ctx, in)
	if err != nil {
		detail.Message = fmt.Sprintf("reconciliation failed: %v", err)
		return detail
	}

	switch outcome.Status {
	case vo.OrderStatusCompleted:
		detail.Success = true
		return detail
	case vo.OrderStatusFailed:
		uc.demote(ctx, sub, u)
		detail.Message = outcome.Reason
		detail.Downgraded = true
		return detail
	default:
		detail.Success = true
		detail.Message = outcome.Reason
		return detail
	}
}

// demote expires the subscription and drops the user back to the free
// tier after a renewal could not be collected.
func (uc *ChargeRenewalsUseCase) demote(ctx context.Context, sub *subscription.Subscription, u *user.User) {
	fresh, err := uc.subscriptionRepo.GetByID(ctx, sub.ID())
	if err != nil {
		uc.logger.Errorw("failed to reload subscription for demotion",
			"subscription_id", sub.ID(), "error", err)
		fresh = sub
	}
	if err := fresh.MarkAsExpired(); err != nil {
		uc.logger.Warnw("failed to expire subscription",
			"subscription_id", fresh.ID(), "error", err)
	} else if err := uc.subscriptionRepo.Update(ctx, fresh); err != nil {
		uc.logger.Errorw("failed to update expired subscription",
			"subscription_id", fresh.ID(), "error", err)
	}

	if err := u.SetPlanType(user.PlanBasic); err != nil {
		uc.logger.Errorw("failed to downgrade plan type", "user_id", u.ID(), "error", err)
		return
	}
	if err := uc.userRepo.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to persist downgrade", "user_id", u.ID(), "error", err)
	}
}
