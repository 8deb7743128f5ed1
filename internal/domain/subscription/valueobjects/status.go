package valueobjects

// SubscriptionStatus is the entitlement state of a subscription window.
type SubscriptionStatus string

const (
	StatusActive         SubscriptionStatus = "active"
	StatusExpired        SubscriptionStatus = "expired"
	StatusCancelled      SubscriptionStatus = "cancelled"
	StatusPaymentFailed  SubscriptionStatus = "payment_failed"
	StatusPendingPayment SubscriptionStatus = "pending_payment"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// CanRenew reports whether a successful payment may (re)activate this
// subscription in place. Cancelled subscriptions stay cancelled; a new
// purchase creates a fresh row instead.
func (s SubscriptionStatus) CanRenew() bool {
	return s == StatusActive || s == StatusExpired || s == StatusPaymentFailed || s == StatusPendingPayment
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusPendingPayment: {StatusActive, StatusExpired, StatusCancelled, StatusPaymentFailed},
		StatusActive:         {StatusExpired, StatusCancelled, StatusPaymentFailed},
		StatusPaymentFailed:  {StatusActive, StatusExpired, StatusCancelled},
		StatusExpired:        {StatusActive, StatusCancelled},
		StatusCancelled:      {},
	}

	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusActive:         true,
	StatusExpired:        true,
	StatusCancelled:      true,
	StatusPaymentFailed:  true,
	StatusPendingPayment: true,
}
