package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	vo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/shared/biztime"
)

// Order is the immutable intent record of one payment attempt. A fresh
// Order is created for every charge, initial or recurring; orders are
// never reused across billing cycles.
type Order struct {
	id            uint
	orderID       string
	userID        uint
	planID        uint
	planType      string
	amount        vo.Money
	status        vo.OrderStatus
	origin        vo.OrderOrigin
	token         *string
	ntpID         *string
	maskedCard    *string
	paidAt        *time.Time
	failureReason *string
	billing       BillingInfo
	version       int
	createdAt     time.Time
	updatedAt     time.Time
}

// NewOrder creates a PENDING order for a charge attempt. The order id is
// globally unique and is the only correlation key the gateway echoes back.
func NewOrder(userID, planID uint, planType string, amount vo.Money, origin vo.OrderOrigin, billing BillingInfo) (*Order, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if !vo.ValidOrigins[origin] {
		return nil, fmt.Errorf("invalid order origin: %s", origin)
	}

	now := biztime.NowUTC()
	return &Order{
		orderID:   origin.LegacyPrefix() + uuid.NewString(),
		userID:    userID,
		planID:    planID,
		planType:  planType,
		amount:    amount,
		status:    vo.OrderStatusPending,
		origin:    origin,
		billing:   billing,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func (o *Order) ID() uint               { return o.id }
func (o *Order) OrderID() string        { return o.orderID }
func (o *Order) UserID() uint           { return o.userID }
func (o *Order) PlanID() uint           { return o.planID }
func (o *Order) PlanType() string       { return o.planType }
func (o *Order) Amount() vo.Money       { return o.amount }
func (o *Order) Status() vo.OrderStatus { return o.status }
func (o *Order) Origin() vo.OrderOrigin { return o.origin }
func (o *Order) Token() *string         { return o.token }
func (o *Order) NtpID() *string         { return o.ntpID }
func (o *Order) MaskedCard() *string    { return o.maskedCard }
func (o *Order) PaidAt() *time.Time     { return o.paidAt }
func (o *Order) FailureReason() *string { return o.failureReason }
func (o *Order) Billing() BillingInfo   { return o.billing }
func (o *Order) Version() int           { return o.version }
func (o *Order) CreatedAt() time.Time   { return o.createdAt }
func (o *Order) UpdatedAt() time.Time   { return o.updatedAt }

// SetID sets the order ID after persistence (used by repository after Create).
func (o *Order) SetID(id uint) {
	o.id = id
}

// IsRecurring reports whether this order was an automatic re-charge.
func (o *Order) IsRecurring() bool {
	return o.origin.IsRecurring()
}

// MarkCompleted records a confirmed payment. Calling it on an order that
// is already COMPLETED is a no-op so that reconciliation can be applied
// twice (synchronous response plus later IPN) without side effects.
func (o *Order) MarkCompleted(ntpID string, token, tokenCard *string) error {
	if o.status == vo.OrderStatusCompleted {
		return nil
	}
	if o.status == vo.OrderStatusFailed {
		return fmt.Errorf("cannot complete order with terminal status %s", o.status)
	}

	now := biztime.NowUTC()
	o.status = vo.OrderStatusCompleted
	if ntpID != "" {
		o.ntpID = &ntpID
	}
	if token != nil && *token != "" {
		o.token = token
	}
	if tokenCard != nil && *tokenCard != "" {
		o.maskedCard = tokenCard
	}
	o.paidAt = &now
	o.failureReason = nil
	o.updatedAt = now
	o.version++

	return nil
}

// MarkFailed records a terminal payment failure with a human-readable reason.
func (o *Order) MarkFailed(reason string) error {
	if o.status == vo.OrderStatusFailed {
		return nil
	}
	if o.status == vo.OrderStatusCompleted {
		return fmt.Errorf("cannot fail order with terminal status %s", o.status)
	}

	o.status = vo.OrderStatusFailed
	o.failureReason = &reason
	o.updatedAt = biztime.NowUTC()
	o.version++

	return nil
}

// MarkPendingUserAction records that the gateway accepted the charge but
// requires a user-side step (3-D Secure) before it can settle.
func (o *Order) MarkPendingUserAction(reason string) error {
	if o.status.IsTerminal() {
		return fmt.Errorf("cannot move order with terminal status %s to pending user action", o.status)
	}

	o.status = vo.OrderStatusPendingUserAction
	o.failureReason = &reason
	o.updatedAt = biztime.NowUTC()
	o.version++

	return nil
}

// AttachTransactionMetadata records post-hoc gateway metadata without
// touching the order status. This is the only mutation allowed on a
// terminal order.
func (o *Order) AttachTransactionMetadata(ntpID string, maskedCard *string) {
	if ntpID != "" {
		o.ntpID = &ntpID
	}
	if maskedCard != nil && *maskedCard != "" {
		o.maskedCard = maskedCard
	}
	o.updatedAt = biztime.NowUTC()
}

// UpdateBillingSnapshot fills missing snapshot fields from the given
// fallback. Fields already captured at charge time stay authoritative.
func (o *Order) UpdateBillingSnapshot(fallback BillingInfo) {
	o.billing = MergeBilling(o.billing, fallback)
	o.updatedAt = biztime.NowUTC()
}

// OrderReconstructParams carries persistence state back into the aggregate.
type OrderReconstructParams struct {
	ID            uint
	OrderID       string
	UserID        uint
	PlanID        uint
	PlanType      string
	Amount        vo.Money
	Status        vo.OrderStatus
	Origin        vo.OrderOrigin
	Token         *string
	NtpID         *string
	MaskedCard    *string
	PaidAt        *time.Time
	FailureReason *string
	Billing       BillingInfo
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReconstructOrder rebuilds an Order from persistence.
func ReconstructOrder(p OrderReconstructParams) (*Order, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("order ID cannot be zero")
	}
	if p.OrderID == "" {
		return nil, fmt.Errorf("order correlation id is required")
	}
	if !vo.ValidOrderStatuses[p.Status] {
		return nil, fmt.Errorf("invalid order status: %s", p.Status)
	}
	if !vo.ValidOrigins[p.Origin] {
		return nil, fmt.Errorf("invalid order origin: %s", p.Origin)
	}

	return &Order{
		id:            p.ID,
		orderID:       p.OrderID,
		userID:        p.UserID,
		planID:        p.PlanID,
		planType:      p.PlanType,
		amount:        p.Amount,
		status:        p.Status,
		origin:        p.Origin,
		token:         p.Token,
		ntpID:         p.NtpID,
		maskedCard:    p.MaskedCard,
		paidAt:        p.PaidAt,
		failureReason: p.FailureReason,
		billing:       p.Billing,
		version:       p.Version,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}, nil
}
