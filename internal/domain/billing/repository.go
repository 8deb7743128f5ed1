package billing

import "context"

// OrderRepository is the persistence port for payment-attempt records.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	GetByOrderID(ctx context.Context, orderID string) (*Order, error)
	// FindLatestTokenOrder returns the most recent COMPLETED order for the
	// user that carries a recurring token, or nil when none exists.
	FindLatestTokenOrder(ctx context.Context, userID uint) (*Order, error)
}
