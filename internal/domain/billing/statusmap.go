package billing

import (
	vo "unimarket/internal/domain/billing/valueobjects"
)

// Gateway payment status codes as they appear both in IPN payloads and in
// synchronous charge responses. Both entry points must map them through
// the same function so they reach identical end states.
const (
	GatewayStatusPendingAuth = 1  // accepted, follow-up required
	GatewayStatusPaid        = 3  // paid
	GatewayStatusConfirmed   = 5  // confirmed/settled
	GatewayStatusInvalid     = 12 // invalid account
	GatewayStatusPending3DS  = 15 // 3-D Secure challenge pending
)

// ErrorCodeUnreachable marks a charge attempt that produced no gateway
// outcome at all. The gateway never sends this code; the client layer
// synthesizes it so such results land on the failed path.
const ErrorCodeUnreachable = -1

// Outcome is the normalized result of interpreting a gateway signal.
type Outcome struct {
	Status vo.OrderStatus
	Reason string
}

// GatewaySignal is the minimal payment signal shared by the asynchronous
// IPN payload and the synchronous recurring-charge response.
type GatewaySignal struct {
	Status       int
	ErrorCode    int
	ErrorMessage string
}

// MapSignal maps a gateway signal to an internal order outcome. It is a
// pure function: the error code takes priority over the status code, and
// unrecognized statuses resolve to PENDING rather than being dropped.
func MapSignal(sig GatewaySignal) Outcome {
	if sig.ErrorCode != 0 {
		reason := ErrorCodeDescription(sig.ErrorCode)
		if !KnownErrorCode(sig.ErrorCode) && sig.ErrorMessage != "" {
			reason = sig.ErrorMessage
		}
		return Outcome{Status: vo.OrderStatusFailed, Reason: reason}
	}

	switch sig.Status {
	case GatewayStatusPaid, GatewayStatusConfirmed:
		return Outcome{Status: vo.OrderStatusCompleted}
	case GatewayStatusInvalid:
		return Outcome{Status: vo.OrderStatusFailed, Reason: "Invalid account"}
	case GatewayStatusPending3DS:
		return Outcome{Status: vo.OrderStatusPending, Reason: "3-D Secure authentication required"}
	case GatewayStatusPendingAuth:
		return Outcome{Status: vo.OrderStatusPendingUserAction, Reason: "Awaiting payment confirmation"}
	default:
		return Outcome{Status: vo.OrderStatusPending, Reason: "Unknown payment status"}
	}
}
