package usecases

import (
	"context"
	"time"

	vo "unimarket/internal/domain/billing/valueobjects"
)

// SuccessNotification carries everything the email needs about a
// confirmed payment.
type SuccessNotification struct {
	Email      string
	Name       string
	PlanName   string
	Amount     vo.Money
	OrderID    string
	NewEndDate time.Time
	Recurring  bool
}

// FailureNotification carries everything the email needs about a failed
// charge. Reason is gateway-supplied text and must be treated as
// untrusted by implementations.
type FailureNotification struct {
	Email      string
	Name       string
	PlanName   string
	Amount     vo.Money
	OrderID    string
	Reason     string
	Downgraded bool
}

// BillingNotifier delivers payment outcome notifications. Callers fire
// it best-effort; a delivery failure never changes billing state.
type BillingNotifier interface {
	NotifySuccess(ctx context.Context, n SuccessNotification) error
	NotifyFailure(ctx context.Context, n FailureNotification) error
}
