package usecases

import (
	"context"
	"fmt"
	"time"

	"unimarket/internal/domain/billing"
	vo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/domain/subscription"
	subvo "unimarket/internal/domain/subscription/valueobjects"
	"unimarket/internal/domain/user"
	"unimarket/internal/shared/biztime"
	"unimarket/internal/shared/goroutine"
	"unimarket/internal/shared/logger"
	"unimarket/internal/shared/utils"
)

// ReconcilePaymentInput is the normalized payment signal plus the
// already-loaded aggregates it applies to. Both the IPN handler and the
// recurring-charge scheduler feed their results through here, so the
// asynchronous and synchronous paths cannot drift apart.
type ReconcilePaymentInput struct {
	Order       *billing.Order
	User        *user.User
	Signal      billing.GatewaySignal
	NtpID       string
	Token       *string
	TokenExpiry *string
	MaskedCard  *string
}

// PaymentReconciler applies a gateway outcome to the order, the
// subscription window, the user's entitlement and the stored token.
// The order-status transition is the only step that can fail the call;
// everything after it is best-effort and individually isolated.
type PaymentReconciler struct {
	orderRepo        billing.OrderRepository
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	userRepo         user.UserRepository
	notifier         BillingNotifier // Optional
	logger           logger.Interface
}

func NewPaymentReconciler(
	orderRepo billing.OrderRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	userRepo user.UserRepository,
	logger logger.Interface,
) *PaymentReconciler {
	return &PaymentReconciler{
		orderRepo:        orderRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// SetNotifier sets the outcome notifier (optional dependency injection).
func (r *PaymentReconciler) SetNotifier(notifier BillingNotifier) {
	r.notifier = notifier
}

// Apply maps the signal and transitions the aggregates. Calling it twice
// for the same order id (synchronous charge response plus the later IPN)
// reaches the same end state: terminal orders short-circuit and the
// subscription refuses to re-extend for an order id it already counted.
func (r *PaymentReconciler) Apply(ctx context.Context, in ReconcilePaymentInput) (billing.Outcome, error) {
	if in.Order == nil || in.User == nil {
		return billing.Outcome{}, fmt.Errorf("order and user are required")
	}

	outcome := billing.MapSignal(in.Signal)

	if in.Order.Status().IsTerminal() {
		r.logger.Infow("order already reconciled",
			"order_id", in.Order.OrderID(),
			"status", in.Order.Status().String(),
		)
		if in.NtpID != "" && in.Order.NtpID() == nil {
			in.Order.AttachTransactionMetadata(in.NtpID, in.MaskedCard)
			if err := r.orderRepo.Update(ctx, in.Order); err != nil {
				r.logger.Warnw("failed to attach transaction metadata",
					"order_id", in.Order.OrderID(), "error", err)
			}
		}
		return billing.Outcome{Status: in.Order.Status()}, nil
	}

	switch outcome.Status {
	case vo.OrderStatusCompleted:
		return outcome, r.applySuccess(ctx, in)
	case vo.OrderStatusFailed:
		return outcome, r.applyFailure(ctx, in, outcome.Reason)
	case vo.OrderStatusPendingUserAction:
		if err := in.Order.MarkPendingUserAction(outcome.Reason); err != nil {
			return outcome, err
		}
		if err := r.orderRepo.Update(ctx, in.Order); err != nil {
			return outcome, fmt.Errorf("failed to update order: %w", err)
		}
		return outcome, nil
	default:
		r.logger.Infow("payment still pending",
			"order_id", in.Order.OrderID(),
			"gateway_status", in.Signal.Status,
			"reason", outcome.Reason,
		)
		return outcome, nil
	}
}

func (r *PaymentReconciler) applySuccess(ctx context.Context, in ReconcilePaymentInput) error {
	order := in.Order

	if err := order.MarkCompleted(in.NtpID, in.Token, in.MaskedCard); err != nil {
		return err
	}
	if err := r.orderRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	newEndDate := r.extendSubscription(ctx, order)

	r.updateEntitlement(ctx, in)

	r.logger.Infow("payment reconciled",
		"order_id", order.OrderID(),
		"user_id", order.UserID(),
		"ntp_id", in.NtpID,
		"recurring", order.IsRecurring(),
	)

	r.notifySuccess(order, in.User, newEndDate)

	return nil
}

// extendSubscription re-fetches the active subscription immediately
// before mutating it and extends it, or creates a fresh window when the
// user has none. An active window extends from its current end date so
// an early charge never shortens the paid period.
func (r *PaymentReconciler) extendSubscription(ctx context.Context, order *billing.Order) time.Time {
	sub, err := r.subscriptionRepo.GetActiveByUserID(ctx, order.UserID())
	if err != nil {
		r.logger.Errorw("failed to load subscription for extension",
			"order_id", order.OrderID(), "user_id", order.UserID(), "error", err)
		return biztime.NowUTC().Add(subscription.RenewalPeriod)
	}

	newEndDate := renewalWindow(sub)

	if sub != nil {
		if err := sub.Renew(order.OrderID(), newEndDate); err != nil {
			r.logger.Errorw("failed to renew subscription",
				"subscription_id", sub.ID(), "order_id", order.OrderID(), "error", err)
			return newEndDate
		}
		if err := r.subscriptionRepo.Update(ctx, sub); err != nil {
			r.logger.Errorw("failed to update renewed subscription",
				"subscription_id", sub.ID(), "error", err)
		}
		return sub.EndDate()
	}

	planName := order.PlanType()
	if plan, err := r.planRepo.GetByID(ctx, order.PlanID()); err == nil {
		planName = plan.Name()
	}

	fresh, err := subscription.NewSubscription(order.UserID(), order.PlanID(), planName, order.Amount(), newEndDate)
	if err != nil {
		r.logger.Errorw("failed to build subscription",
			"order_id", order.OrderID(), "user_id", order.UserID(), "error", err)
		return newEndDate
	}
	if err := fresh.Renew(order.OrderID(), newEndDate); err != nil {
		r.logger.Errorw("failed to stamp subscription order",
			"order_id", order.OrderID(), "error", err)
	}
	if err := r.subscriptionRepo.Create(ctx, fresh); err != nil {
		r.logger.Errorw("failed to create subscription",
			"order_id", order.OrderID(), "user_id", order.UserID(), "error", err)
	}
	return newEndDate
}

// updateEntitlement moves the user to the paid-for tier and upserts the
// recurring token delivered with the charge.
func (r *PaymentReconciler) updateEntitlement(ctx context.Context, in ReconcilePaymentInput) {
	u := in.User
	order := in.Order

	if err := u.SetPlanType(user.ParsePlanType(order.PlanType())); err != nil {
		r.logger.Errorw("failed to update plan type",
			"user_id", u.ID(), "plan_type", order.PlanType(), "error", err)
	}

	if in.Token != nil && *in.Token != "" {
		if err := u.SaveRecurringToken(*in.Token, in.TokenExpiry, order.Billing()); err != nil {
			r.logger.Warnw("failed to save recurring token",
				"user_id", u.ID(), "token", utils.MaskToken(*in.Token), "error", err)
		} else {
			r.logger.Debugw("recurring token saved",
				"user_id", u.ID(), "token", utils.MaskToken(*in.Token))
		}
	}

	if err := r.userRepo.Update(ctx, u); err != nil {
		r.logger.Errorw("failed to update user entitlement",
			"user_id", u.ID(), "error", err)
	}
}

func (r *PaymentReconciler) applyFailure(ctx context.Context, in ReconcilePaymentInput, reason string) error {
	order := in.Order

	if err := order.MarkFailed(reason); err != nil {
		return err
	}
	if err := r.orderRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	// A failed recurring charge flags the window; demotion is the
	// scheduler's explicit responsibility, not the reconciler's.
	if order.IsRecurring() {
		sub, err := r.subscriptionRepo.GetActiveByUserID(ctx, order.UserID())
		if err != nil {
			r.logger.Errorw("failed to load subscription after failed charge",
				"order_id", order.OrderID(), "user_id", order.UserID(), "error", err)
		} else if sub != nil {
			if err := sub.MarkPaymentFailed(); err != nil {
				r.logger.Warnw("failed to flag subscription payment failure",
					"subscription_id", sub.ID(), "error", err)
			} else if err := r.subscriptionRepo.Update(ctx, sub); err != nil {
				r.logger.Errorw("failed to update subscription after failed charge",
					"subscription_id", sub.ID(), "error", err)
			}
		}
	}

	r.logger.Infow("payment failed",
		"order_id", order.OrderID(),
		"user_id", order.UserID(),
		"reason", reason,
	)

	r.notifyFailure(order, in.User, reason, false)

	return nil
}

func (r *PaymentReconciler) notifySuccess(order *billing.Order, u *user.User, newEndDate time.Time) {
	if r.notifier == nil {
		return
	}
	n := SuccessNotification{
		Email:      u.Email(),
		Name:       u.Name(),
		PlanName:   r.planName(order),
		Amount:     order.Amount(),
		OrderID:    order.OrderID(),
		NewEndDate: newEndDate,
		Recurring:  order.IsRecurring(),
	}
	goroutine.SafeGo(r.logger, "billing-notify-success", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := r.notifier.NotifySuccess(ctx, n); err != nil {
			r.logger.Warnw("failed to send payment success notification",
				"order_id", n.OrderID, "error", err)
		}
	})
}

func (r *PaymentReconciler) notifyFailure(order *billing.Order, u *user.User, reason string, downgraded bool) {
	if r.notifier == nil {
		return
	}
	n := FailureNotification{
		Email:      u.Email(),
		Name:       u.Name(),
		PlanName:   r.planName(order),
		Amount:     order.Amount(),
		OrderID:    order.OrderID(),
		Reason:     reason,
		Downgraded: downgraded,
	}
	goroutine.SafeGo(r.logger, "billing-notify-failure", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := r.notifier.NotifyFailure(ctx, n); err != nil {
			r.logger.Warnw("failed to send payment failure notification",
				"order_id", n.OrderID, "error", err)
		}
	})
}

func (r *PaymentReconciler) planName(order *billing.Order) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if plan, err := r.planRepo.GetByID(ctx, order.PlanID()); err == nil {
		return plan.Name()
	}
	return order.PlanType()
}

// renewalWindow computes the end date a confirmed payment buys. With an
// active window the extension is anchored on the current end date;
// otherwise a fresh period starts now.
func renewalWindow(sub *subscription.Subscription) time.Time {
	if sub != nil && sub.Status() == subvo.StatusActive {
		return sub.NextEndDate()
	}
	return biztime.NowUTC().Add(subscription.RenewalPeriod)
}
