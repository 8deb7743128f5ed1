package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimarket/internal/domain/billing"
	vo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/domain/subscription"
	subvo "unimarket/internal/domain/subscription/valueobjects"
	"unimarket/internal/domain/user"
	"unimarket/internal/shared/biztime"
)

func newReconciler(orders *mockOrderRepository, subs *mockSubscriptionRepository, users *mockUserRepository) *PaymentReconciler {
	plans := &mockPlanRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*subscription.Plan, error) {
			return subscription.NewPlan(id, "premium", "Premium", premiumPrice())
		},
	}
	return NewPaymentReconciler(orders, subs, plans, users, &mockLogger{})
}

func TestPaymentReconciler_InitialSuccess_CreatesSubscription(t *testing.T) {
	order := buildOrder(t, 1, vo.OriginInitial)
	u := buildUser(t, user.PlanBasic, nil)

	var created *subscription.Subscription
	subs := &mockSubscriptionRepository{
		CreateFunc: func(ctx context.Context, sub *subscription.Subscription) error {
			created = sub
			return nil
		},
	}
	r := newReconciler(&mockOrderRepository{}, subs, &mockUserRepository{})

	token := "tok_new"
	expiry := "11/28"
	card := "**** **** **** 1111"
	outcome, err := r.Apply(context.Background(), ReconcilePaymentInput{
		Order:       order,
		User:        u,
		Signal:      billing.GatewaySignal{Status: billing.GatewayStatusPaid},
		NtpID:       "ntp_1",
		Token:       &token,
		TokenExpiry: &expiry,
		MaskedCard:  &card,
	})
	require.NoError(t, err)
	assert.Equal(t, vo.OrderStatusCompleted, outcome.Status)

	assert.Equal(t, vo.OrderStatusCompleted, order.Status())
	require.NotNil(t, order.NtpID())
	assert.Equal(t, "ntp_1", *order.NtpID())

	// A user with no active window gets a fresh period starting now.
	require.NotNil(t, created)
	assert.WithinDuration(t, biztime.NowUTC().Add(subscription.RenewalPeriod), created.EndDate(), 5*time.Second)
	require.NotNil(t, created.LastOrderID())
	assert.Equal(t, order.OrderID(), *created.LastOrderID())

	assert.Equal(t, user.PlanPremium, u.PlanType())
	require.NotNil(t, u.RecurringToken())
	assert.Equal(t, "tok_new", *u.RecurringToken())
	assert.True(t, u.AutoRenewEnabled())
}

func TestPaymentReconciler_RenewalExtendsFromCurrentEndDate(t *testing.T) {
	order := buildOrder(t, 1, vo.OriginRecurring)
	u := buildUser(t, user.PlanPremium, nil)
	sub := buildActiveSubscription(t, 1, 10*24*time.Hour)
	oldEnd := sub.EndDate()

	subs := &mockSubscriptionRepository{
		GetActiveByUserIDFunc: func(ctx context.Context, userID uint) (*subscription.Subscription, error) {
			return sub, nil
		},
	}
	r := newReconciler(&mockOrderRepository{}, subs, &mockUserRepository{})

	_, err := r.Apply(context.Background(), ReconcilePaymentInput{
		Order:  order,
		User:   u,
		Signal: billing.GatewaySignal{Status: billing.GatewayStatusConfirmed},
		NtpID:  "ntp_2",
	})
	require.NoError(t, err)

	// The extension is anchored on the existing end date, not on "now".
	assert.Equal(t, oldEnd.Add(subscription.RenewalPeriod), sub.EndDate())
	assert.Equal(t, subvo.StatusActive, sub.Status())
}

func TestPaymentReconciler_DoubleApply_NoDoubleExtension(t *testing.T) {
	order := buildOrder(t, 1, vo.OriginRecurring)
	u := buildUser(t, user.PlanPremium, nil)
	sub := buildActiveSubscription(t, 1, 10*24*time.Hour)

	subUpdates := 0
	subs := &mockSubscriptionRepository{
		GetActiveByUserIDFunc: func(ctx context.Context, userID uint) (*subscription.Subscription, error) {
			return sub, nil
		},
		UpdateFunc: func(ctx context.Context, s *subscription.Subscription) error {
			subUpdates++
			return nil
		},
	}
	r := newReconciler(&mockOrderRepository{}, subs, &mockUserRepository{})

	in := ReconcilePaymentInput{
		Order:  order,
		User:   u,
		Signal: billing.GatewaySignal{Status: billing.GatewayStatusPaid},
		NtpID:  "ntp_3",
	}

	_, err := r.Apply(context.Background(), in)
	require.NoError(t, err)
	endAfterFirst := sub.EndDate()

	// The notification for the same order arrives again: the terminal
	// order short-circuits and nothing moves.
	outcome, err := r.Apply(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, vo.OrderStatusCompleted, outcome.Status)
	assert.Equal(t, endAfterFirst, sub.EndDate())
	assert.Equal(t, 1, subUpdates)
}

func TestPaymentReconciler_RecurringFailure_FlagsSubscription(t *testing.T) {
	order := buildOrder(t, 1, vo.OriginRecurring)
	u := buildUser(t, user.PlanPremium, nil)
	sub := buildActiveSubscription(t, 1, 24*time.Hour)

	subs := &mockSubscriptionRepository{
		GetActiveByUserIDFunc: func(ctx context.Context, userID uint) (*subscription.Subscription, error) {
			return sub, nil
		},
	}
	r := newReconciler(&mockOrderRepository{}, subs, &mockUserRepository{})

	outcome, err := r.Apply(context.Background(), ReconcilePaymentInput{
		Order:  order,
		User:   u,
		Signal: billing.GatewaySignal{Status: billing.GatewayStatusPaid, ErrorCode: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, vo.OrderStatusFailed, outcome.Status)

	assert.Equal(t, vo.OrderStatusFailed, order.Status())
	require.NotNil(t, order.FailureReason())
	assert.Equal(t, "Insufficient Funds", *order.FailureReason())

	// The window is flagged but entitlement stays; demotion belongs to
	// the scheduler.
	assert.Equal(t, subvo.StatusPaymentFailed, sub.Status())
	assert.Equal(t, user.PlanPremium, u.PlanType())
}

func TestPaymentReconciler_InitialFailure_LeavesSubscriptionAlone(t *testing.T) {
	order := buildOrder(t, 1, vo.OriginInitial)
	u := buildUser(t, user.PlanBasic, nil)
	sub := buildActiveSubscription(t, 1, 24*time.Hour)

	subs := &mockSubscriptionRepository{
		GetActiveByUserIDFunc: func(ctx context.Context, userID uint) (*subscription.Subscription, error) {
			return sub, nil
		},
	}
	r := newReconciler(&mockOrderRepository{}, subs, &mockUserRepository{})

	_, err := r.Apply(context.Background(), ReconcilePaymentInput{
		Order:  order,
		User:   u,
		Signal: billing.GatewaySignal{Status: billing.GatewayStatusInvalid},
	})
	require.NoError(t, err)

	assert.Equal(t, vo.OrderStatusFailed, order.Status())
	assert.Equal(t, subvo.StatusActive, sub.Status())
}

func TestPaymentReconciler_PendingStates(t *testing.T) {
	u := buildUser(t, user.PlanBasic, nil)
	r := newReconciler(&mockOrderRepository{}, &mockSubscriptionRepository{}, &mockUserRepository{})

	order := buildOrder(t, 1, vo.OriginInitial)
	outcome, err := r.Apply(context.Background(), ReconcilePaymentInput{
		Order:  order,
		User:   u,
		Signal: billing.GatewaySignal{Status: billing.GatewayStatusPendingAuth},
	})
	require.NoError(t, err)
	assert.Equal(t, vo.OrderStatusPendingUserAction, outcome.Status)
	assert.Equal(t, vo.OrderStatusPendingUserAction, order.Status())

	order = buildOrder(t, 1, vo.OriginInitial)
	outcome, err = r.Apply(context.Background(), ReconcilePaymentInput{
		Order:  order,
		User:   u,
		Signal: billing.GatewaySignal{Status: billing.GatewayStatusPending3DS},
	})
	require.NoError(t, err)
	assert.Equal(t, vo.OrderStatusPending, outcome.Status)
	assert.Equal(t, vo.OrderStatusPending, order.Status())
	assert.Equal(t, user.PlanBasic, u.PlanType())
}
