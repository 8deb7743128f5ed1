package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimarket/internal/domain/billing"
	vo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/domain/user"
	apperrors "unimarket/internal/shared/errors"
)

func newIPNUseCase(order *billing.Order, u *user.User) (*HandleIPNUseCase, *mockSubscriptionRepository) {
	orders := &mockOrderRepository{
		GetByOrderIDFunc: func(ctx context.Context, orderID string) (*billing.Order, error) {
			if order != nil && order.OrderID() == orderID {
				return order, nil
			}
			return nil, fmt.Errorf("order not found")
		},
	}
	users := &mockUserRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*user.User, error) {
			if u != nil && u.ID() == id {
				return u, nil
			}
			return nil, fmt.Errorf("user not found")
		},
	}
	subs := &mockSubscriptionRepository{}
	reconciler := newReconciler(orders, subs, users)
	return NewHandleIPNUseCase(orders, users, reconciler, &mockLogger{}), subs
}

func TestHandleIPN_FlatPayload(t *testing.T) {
	order := buildOrder(t, 1, vo.OriginInitial)
	u := buildUser(t, user.PlanBasic, nil)
	uc, _ := newIPNUseCase(order, u)

	body := fmt.Sprintf(`{"orderID":%q,"status":3,"ntpID":"ntp_9","token":"tok_9","maskedCard":"**** **** **** 4242"}`, order.OrderID())

	require.NoError(t, uc.Execute(context.Background(), HandleIPNCommand{Body: []byte(body)}))

	assert.Equal(t, vo.OrderStatusCompleted, order.Status())
	require.NotNil(t, order.Token())
	assert.Equal(t, "tok_9", *order.Token())
	assert.Equal(t, user.PlanPremium, u.PlanType())
}

func TestHandleIPN_NestedPayload(t *testing.T) {
	order := buildOrder(t, 1, vo.OriginInitial)
	u := buildUser(t, user.PlanBasic, nil)
	uc, _ := newIPNUseCase(order, u)

	// The newer notification shape nests order and payment blocks, and
	// numbers may arrive as strings.
	body := fmt.Sprintf(`{"order":{"orderID":%q},"payment":{"status":"5","ntpID":"ntp_10","token":"tok_10"}}`, order.OrderID())

	require.NoError(t, uc.Execute(context.Background(), HandleIPNCommand{Body: []byte(body)}))

	assert.Equal(t, vo.OrderStatusCompleted, order.Status())
	require.NotNil(t, order.NtpID())
	assert.Equal(t, "ntp_10", *order.NtpID())
}

func TestHandleIPN_ExpiredCard(t *testing.T) {
	order := buildOrder(t, 1, vo.OriginRecurring)
	u := buildUser(t, user.PlanPremium, nil)
	uc, _ := newIPNUseCase(order, u)

	body := fmt.Sprintf(`{"orderID":%q,"status":3,"errorCode":19}`, order.OrderID())

	require.NoError(t, uc.Execute(context.Background(), HandleIPNCommand{Body: []byte(body)}))

	assert.Equal(t, vo.OrderStatusFailed, order.Status())
	require.NotNil(t, order.FailureReason())
	assert.Equal(t, "Expired Card", *order.FailureReason())
}

func TestHandleIPN_DuplicateNotification(t *testing.T) {
	order := buildOrder(t, 1, vo.OriginInitial)
	u := buildUser(t, user.PlanBasic, nil)
	uc, _ := newIPNUseCase(order, u)

	body := fmt.Sprintf(`{"orderID":%q,"status":3,"ntpID":"ntp_11"}`, order.OrderID())

	require.NoError(t, uc.Execute(context.Background(), HandleIPNCommand{Body: []byte(body)}))
	paidAt := order.PaidAt()

	require.NoError(t, uc.Execute(context.Background(), HandleIPNCommand{Body: []byte(body)}))
	assert.Equal(t, paidAt, order.PaidAt())
}

func TestHandleIPN_ValidationErrors(t *testing.T) {
	order := buildOrder(t, 1, vo.OriginInitial)
	u := buildUser(t, user.PlanBasic, nil)
	uc, _ := newIPNUseCase(order, u)

	tests := []struct {
		name string
		body string
	}{
		{"missing order id", `{"status":3}`},
		{"missing status", fmt.Sprintf(`{"orderID":%q}`, order.OrderID())},
		{"malformed json", `{"orderID":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := uc.Execute(context.Background(), HandleIPNCommand{Body: []byte(tt.body)})
			assert.True(t, apperrors.IsValidationError(err), "expected validation error, got %v", err)
		})
	}
}

func TestHandleIPN_UnknownOrder(t *testing.T) {
	uc, _ := newIPNUseCase(nil, nil)

	err := uc.Execute(context.Background(), HandleIPNCommand{Body: []byte(`{"orderID":"SUB_missing","status":3}`)})
	assert.True(t, apperrors.IsNotFoundError(err), "expected not found error, got %v", err)
}
