package billing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "unimarket/internal/domain/billing/valueobjects"
)

func testMoney(t *testing.T, units int64) vo.Money {
	t.Helper()
	return vo.NewMoney(units*100, "RON")
}

func TestNewOrder(t *testing.T) {
	order, err := NewOrder(1, 2, "premium", testMoney(t, 50), vo.OriginInitial, BillingInfo{Email: "ana@example.com"})
	require.NoError(t, err)

	assert.Equal(t, vo.OrderStatusPending, order.Status())
	assert.True(t, strings.HasPrefix(order.OrderID(), "SUB_"))
	assert.False(t, order.IsRecurring())
	assert.Nil(t, order.PaidAt())

	recurring, err := NewOrder(1, 2, "premium", testMoney(t, 50), vo.OriginRecurring, BillingInfo{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(recurring.OrderID(), "AUTO_REC_"))
	assert.True(t, recurring.IsRecurring())
}

func TestNewOrder_Validation(t *testing.T) {
	money := testMoney(t, 50)

	_, err := NewOrder(0, 2, "premium", money, vo.OriginInitial, BillingInfo{})
	assert.Error(t, err)

	_, err = NewOrder(1, 0, "premium", money, vo.OriginInitial, BillingInfo{})
	assert.Error(t, err)

	_, err = NewOrder(1, 2, "premium", money, vo.OrderOrigin("weird"), BillingInfo{})
	assert.Error(t, err)
}

func TestOrder_MarkCompleted_Idempotent(t *testing.T) {
	order, err := NewOrder(1, 2, "premium", testMoney(t, 50), vo.OriginInitial, BillingInfo{})
	require.NoError(t, err)

	token := "tok_abc"
	card := "**** **** **** 1111"
	require.NoError(t, order.MarkCompleted("ntp_1", &token, &card))

	firstPaidAt := order.PaidAt()
	firstVersion := order.Version()

	// Second application (the IPN arriving after the synchronous
	// response) must not move anything.
	require.NoError(t, order.MarkCompleted("ntp_1", &token, &card))
	assert.Equal(t, firstPaidAt, order.PaidAt())
	assert.Equal(t, firstVersion, order.Version())
	assert.Equal(t, vo.OrderStatusCompleted, order.Status())
}

func TestOrder_TerminalGuards(t *testing.T) {
	order, err := NewOrder(1, 2, "premium", testMoney(t, 50), vo.OriginInitial, BillingInfo{})
	require.NoError(t, err)
	require.NoError(t, order.MarkFailed("Insufficient Funds"))

	assert.Error(t, order.MarkCompleted("ntp_1", nil, nil))
	assert.Error(t, order.MarkPendingUserAction("3-D Secure authentication required"))

	// Failing again is a no-op, not an error.
	assert.NoError(t, order.MarkFailed("Insufficient Funds"))

	completed, err := NewOrder(1, 2, "premium", testMoney(t, 50), vo.OriginInitial, BillingInfo{})
	require.NoError(t, err)
	require.NoError(t, completed.MarkCompleted("ntp_2", nil, nil))
	assert.Error(t, completed.MarkFailed("late failure"))
}

func TestOrder_UpdateBillingSnapshot(t *testing.T) {
	order, err := NewOrder(1, 2, "premium", testMoney(t, 50), vo.OriginInitial, BillingInfo{
		Email: "ana@example.com",
		City:  "Cluj-Napoca",
	})
	require.NoError(t, err)

	order.UpdateBillingSnapshot(BillingInfo{
		Email: "other@example.com",
		Phone: "0711111111",
	})

	// Captured fields win; only gaps are filled.
	assert.Equal(t, "ana@example.com", order.Billing().Email)
	assert.Equal(t, "Cluj-Napoca", order.Billing().City)
	assert.Equal(t, "0711111111", order.Billing().Phone)
}

func TestBillingInfo_WithDefaults(t *testing.T) {
	b := BillingInfo{Email: "ana@example.com", Name: "Ana Pop"}.WithDefaults()

	assert.Equal(t, "ana@example.com", b.Email)
	assert.Equal(t, DefaultPhone, b.Phone)
	assert.Equal(t, DefaultPostalCode, b.PostalCode)
	assert.Equal(t, DefaultCity, b.City)
	assert.Equal(t, DefaultCountry, b.Country)
}
