package subscription

import (
	"fmt"
	"time"

	billingvo "unimarket/internal/domain/billing/valueobjects"
	vo "unimarket/internal/domain/subscription/valueobjects"
	"unimarket/internal/shared/biztime"
)

// RenewalPeriod is the fixed extension applied on every successful
// recurring payment.
const RenewalPeriod = 30 * 24 * time.Hour

// Subscription is the current entitlement window for a user. At most one
// subscription per user may be active at any time; callers enforce it by
// re-querying for the active row inside the operation that would create
// one and preferring update over insert.
type Subscription struct {
	id          uint
	userID      uint
	planID      uint
	planName    string
	status      vo.SubscriptionStatus
	amount      billingvo.Money
	startDate   time.Time
	endDate     time.Time
	lastOrderID *string
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSubscription creates an active subscription starting now. It is only
// created on a confirmed payment, so it starts in the active state.
func NewSubscription(userID, planID uint, planName string, amount billingvo.Money, endDate time.Time) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	now := biztime.NowUTC()
	if endDate.Before(now) {
		return nil, fmt.Errorf("end date must be in the future")
	}

	return &Subscription{
		userID:    userID,
		planID:    planID,
		planName:  planName,
		status:    vo.StatusActive,
		amount:    amount,
		startDate: now,
		endDate:   endDate,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func (s *Subscription) ID() uint                      { return s.id }
func (s *Subscription) UserID() uint                  { return s.userID }
func (s *Subscription) PlanID() uint                  { return s.planID }
func (s *Subscription) PlanName() string              { return s.planName }
func (s *Subscription) Status() vo.SubscriptionStatus { return s.status }
func (s *Subscription) Amount() billingvo.Money       { return s.amount }
func (s *Subscription) StartDate() time.Time          { return s.startDate }
func (s *Subscription) EndDate() time.Time            { return s.endDate }
func (s *Subscription) LastOrderID() *string          { return s.lastOrderID }
func (s *Subscription) Version() int                  { return s.version }
func (s *Subscription) CreatedAt() time.Time          { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time          { return s.updatedAt }

// SetID sets the subscription ID after persistence.
func (s *Subscription) SetID(id uint) {
	s.id = id
}

// NextEndDate computes the renewal window. Renewing an existing window
// extends from the current end date, not from "now", so a charge that
// lands a day early does not shorten the paid period.
func (s *Subscription) NextEndDate() time.Time {
	return s.endDate.Add(RenewalPeriod)
}

// Renew extends the subscription for one more renewal period following a
// confirmed payment on the given order. Calling it again with the same
// order id is a no-op: the synchronous gateway response and the later IPN
// both reconcile the same order, and only the first application may move
// the end date.
func (s *Subscription) Renew(orderID string, newEndDate time.Time) error {
	if s.lastOrderID != nil && *s.lastOrderID == orderID {
		return nil
	}
	if !s.status.CanRenew() {
		return fmt.Errorf("cannot renew subscription with status %s", s.status)
	}

	s.endDate = newEndDate
	s.status = vo.StatusActive
	s.lastOrderID = &orderID
	s.updatedAt = biztime.NowUTC()
	s.version++

	return nil
}

// MarkPaymentFailed flags the subscription after a failed recurring
// charge reported through the IPN path. It does not touch entitlement;
// demotion is the scheduler's explicit responsibility.
func (s *Subscription) MarkPaymentFailed() error {
	if s.status == vo.StatusPaymentFailed {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusPaymentFailed) {
		return fmt.Errorf("cannot mark subscription as payment_failed with status %s", s.status)
	}

	s.status = vo.StatusPaymentFailed
	s.updatedAt = biztime.NowUTC()
	s.version++

	return nil
}

// MarkAsExpired marks the subscription expired. Idempotent.
func (s *Subscription) MarkAsExpired() error {
	if s.status == vo.StatusExpired {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusExpired) {
		return fmt.Errorf("cannot mark subscription as expired with status %s", s.status)
	}

	s.status = vo.StatusExpired
	s.updatedAt = biztime.NowUTC()
	s.version++

	return nil
}

// Cancel cancels the subscription. Idempotent on an already-cancelled row.
func (s *Subscription) Cancel() error {
	if s.status == vo.StatusCancelled {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return fmt.Errorf("cannot cancel subscription with status %s", s.status)
	}

	s.status = vo.StatusCancelled
	s.updatedAt = biztime.NowUTC()
	s.version++

	return nil
}

// IsDue reports whether the subscription needs a renewal charge within
// the given lookahead window.
func (s *Subscription) IsDue(lookahead time.Duration) bool {
	return s.status == vo.StatusActive && !s.endDate.After(biztime.NowUTC().Add(lookahead))
}

// SubscriptionReconstructParams carries persistence state back into the aggregate.
type SubscriptionReconstructParams struct {
	ID          uint
	UserID      uint
	PlanID      uint
	PlanName    string
	Status      vo.SubscriptionStatus
	Amount      billingvo.Money
	StartDate   time.Time
	EndDate     time.Time
	LastOrderID *string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(p SubscriptionReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.UserID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !vo.ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}

	return &Subscription{
		id:          p.ID,
		userID:      p.UserID,
		planID:      p.PlanID,
		planName:    p.PlanName,
		status:      p.Status,
		amount:      p.Amount,
		startDate:   p.StartDate,
		endDate:     p.EndDate,
		lastOrderID: p.LastOrderID,
		version:     p.Version,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}, nil
}
