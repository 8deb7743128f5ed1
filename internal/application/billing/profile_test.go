package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimarket/internal/domain/billing"
	billingvo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/domain/user"
)

func testMoneyVO(t *testing.T) billingvo.Money {
	t.Helper()
	return billingvo.NewMoney(5000, "RON")
}

func testUser(t *testing.T, b billing.BillingInfo) *user.User {
	t.Helper()
	u, err := user.ReconstructUser(user.UserReconstructParams{
		ID:        1,
		Email:     "ana@example.com",
		Name:      "Ana Pop",
		PlanType:  user.PlanPremium,
		Billing:   b,
		UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return u
}

func TestResolveBillingProfile_Precedence(t *testing.T) {
	u := testUser(t, billing.BillingInfo{
		Phone: "0722222222",
		City:  "Iași",
	})

	prior, err := billing.ReconstructOrder(billing.OrderReconstructParams{
		ID:      1,
		OrderID: "SUB_abc",
		UserID:  1,
		PlanID:  2,
		Amount:  testMoneyVO(t),
		Status:  "COMPLETED",
		Origin:  "initial",
		Billing: billing.BillingInfo{
			Email: "snapshot@example.com",
			Phone: "0733333333",
		},
	})
	require.NoError(t, err)

	profile := ResolveBillingProfile(prior, u)

	// Snapshot wins where it has a value.
	assert.Equal(t, "snapshot@example.com", profile.Email)
	assert.Equal(t, "0733333333", profile.Phone)
	// User fills the gaps the snapshot left.
	assert.Equal(t, "Iași", profile.City)
	assert.Equal(t, "Ana Pop", profile.Name)
	// Defaults close the rest.
	assert.Equal(t, billing.DefaultPostalCode, profile.PostalCode)
	assert.Equal(t, billing.DefaultCountry, profile.Country)
}

func TestResolveBillingProfile_NoPriorOrder(t *testing.T) {
	u := testUser(t, billing.BillingInfo{})

	profile := ResolveBillingProfile(nil, u)

	assert.Equal(t, "ana@example.com", profile.Email)
	assert.Equal(t, "Ana Pop", profile.Name)
	assert.Equal(t, billing.DefaultPhone, profile.Phone)
	assert.Equal(t, billing.DefaultCity, profile.City)
}

func TestResolveBillingProfile_NoUser(t *testing.T) {
	profile := ResolveBillingProfile(nil, nil)

	assert.Equal(t, billing.DefaultPhone, profile.Phone)
	assert.Equal(t, billing.DefaultCountry, profile.Country)
	assert.Empty(t, profile.Email)
}
