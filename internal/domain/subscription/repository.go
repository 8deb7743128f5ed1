package subscription

import (
	"context"
	"time"
)

// SubscriptionRepository is the persistence port for entitlement windows.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	// GetActiveByUserID returns the user's active subscription or nil when
	// none exists. Mutating operations must call this immediately before
	// writing, not rely on a value fetched earlier in a long batch.
	GetActiveByUserID(ctx context.Context, userID uint) (*Subscription, error)
	// FindDueForRenewal returns active subscriptions with an end date at or
	// before the given cutoff.
	FindDueForRenewal(ctx context.Context, cutoff time.Time) ([]*Subscription, error)
}

// PlanRepository resolves read-only pricing reference data.
type PlanRepository interface {
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetByType(ctx context.Context, planType string) (*Plan, error)
}
