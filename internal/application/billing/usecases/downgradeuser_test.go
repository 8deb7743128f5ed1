package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unimarket/internal/domain/subscription"
	subvo "unimarket/internal/domain/subscription/valueobjects"
	"unimarket/internal/domain/user"
	apperrors "unimarket/internal/shared/errors"
)

func TestDowngradeUser(t *testing.T) {
	u := buildUser(t, user.PlanPremium, nil)
	sub := buildActiveSubscription(t, 1, 24*time.Hour)

	users := &mockUserRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*user.User, error) {
			return u, nil
		},
	}
	subs := &mockSubscriptionRepository{
		GetActiveByUserIDFunc: func(ctx context.Context, userID uint) (*subscription.Subscription, error) {
			if sub.Status() == subvo.StatusActive {
				return sub, nil
			}
			return nil, nil
		},
	}
	uc := NewDowngradeUserUseCase(users, subs, &mockLogger{})

	require.NoError(t, uc.Execute(context.Background(), DowngradeUserCommand{UserID: 1, Reason: "payment failure"}))
	assert.Equal(t, user.PlanBasic, u.PlanType())
	assert.Equal(t, subvo.StatusCancelled, sub.Status())

	// Running it again changes nothing and reports no error.
	require.NoError(t, uc.Execute(context.Background(), DowngradeUserCommand{UserID: 1, Reason: "payment failure"}))
	assert.Equal(t, user.PlanBasic, u.PlanType())
	assert.Equal(t, subvo.StatusCancelled, sub.Status())
}

func TestDowngradeUser_UnknownUser(t *testing.T) {
	users := &mockUserRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*user.User, error) {
			return nil, fmt.Errorf("user not found")
		},
	}
	uc := NewDowngradeUserUseCase(users, &mockSubscriptionRepository{}, &mockLogger{})

	err := uc.Execute(context.Background(), DowngradeUserCommand{UserID: 7})
	assert.True(t, apperrors.IsNotFoundError(err))
}
