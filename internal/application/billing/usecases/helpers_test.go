package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"unimarket/internal/domain/billing"
	billingvo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/domain/subscription"
	"unimarket/internal/domain/user"
	"unimarket/internal/shared/biztime"
)

func premiumPrice() billingvo.Money {
	return billingvo.NewMoney(4990, "RON")
}

func goldPrice() billingvo.Money {
	return billingvo.NewMoney(9990, "RON")
}

func buildOrder(t *testing.T, userID uint, origin billingvo.OrderOrigin) *billing.Order {
	t.Helper()
	order, err := billing.NewOrder(userID, 2, "premium", premiumPrice(), origin, billing.BillingInfo{
		Email: "ana@example.com",
		Name:  "Ana Pop",
	})
	require.NoError(t, err)
	order.SetID(100)
	return order
}

func buildUser(t *testing.T, planType user.PlanType, token *string) *user.User {
	t.Helper()
	params := user.UserReconstructParams{
		ID:        1,
		Email:     "ana@example.com",
		Name:      "Ana Pop",
		PlanType:  planType,
		UpdatedAt: time.Now().UTC(),
	}
	if token != nil {
		params.RecurringToken = token
		params.AutoRenewEnabled = true
	}
	u, err := user.ReconstructUser(params)
	require.NoError(t, err)
	return u
}

func buildActiveSubscription(t *testing.T, userID uint, endsIn time.Duration) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewSubscription(userID, 2, "Premium", premiumPrice(), biztime.NowUTC().Add(endsIn))
	require.NoError(t, err)
	sub.SetID(50)
	return sub
}

func buildPlan(t *testing.T, id uint, planType, name string, price billingvo.Money) *subscription.Plan {
	t.Helper()
	plan, err := subscription.NewPlan(id, planType, name, price)
	require.NoError(t, err)
	return plan
}
