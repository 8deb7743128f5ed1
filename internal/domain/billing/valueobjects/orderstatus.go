package valueobjects

// OrderStatus is the lifecycle state of a single payment attempt.
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "PENDING"
	OrderStatusPendingUserAction OrderStatus = "PENDING_USER_ACTION"
	OrderStatusCompleted         OrderStatus = "COMPLETED"
	OrderStatusFailed            OrderStatus = "FAILED"
)

func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the order reached a final state. Terminal
// orders are never mutated again except to attach transaction metadata.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed
}

var ValidOrderStatuses = map[OrderStatus]bool{
	OrderStatusPending:           true,
	OrderStatusPendingUserAction: true,
	OrderStatusCompleted:         true,
	OrderStatusFailed:            true,
}
