package gateway

import (
	"context"

	"unimarket/internal/domain/billing"
)

// StartPaymentRequest opens a hosted-checkout payment for an initial
// subscription purchase. The gateway redirects the customer and reports
// the result asynchronously over IPN.
type StartPaymentRequest struct {
	OrderID     string
	Amount      float64
	Currency    string
	Description string
	Billing     billing.BillingInfo
}

// RecurringPaymentRequest charges a stored token without customer
// interaction. Billing data is the snapshot resolved for this charge.
type RecurringPaymentRequest struct {
	OrderID     string
	Token       string
	Amount      float64
	Currency    string
	Description string
	Billing     billing.BillingInfo
}

// PaymentResult is the normalized gateway response. Implementations fold
// transport and protocol failures into Success=false results instead of
// returning errors, so callers always have an outcome to reconcile.
type PaymentResult struct {
	Success      bool
	Status       int
	NtpID        string
	Token        string
	TokenExpiry  string
	MaskedCard   string
	RedirectURL  string
	ErrorCode    int
	ErrorMessage string
}

// Signal converts the result into the shared reconciliation input. A
// failed result that carries neither a status nor an error code never
// produced a gateway outcome (transport failure, HTTP 5xx), and no IPN
// will ever arrive for it; it surfaces as an explicit failure so the
// mapper cannot park the order as pending forever.
func (r *PaymentResult) Signal() billing.GatewaySignal {
	sig := billing.GatewaySignal{
		Status:       r.Status,
		ErrorCode:    r.ErrorCode,
		ErrorMessage: r.ErrorMessage,
	}
	if !r.Success && sig.Status == 0 && sig.ErrorCode == 0 {
		sig.ErrorCode = billing.ErrorCodeUnreachable
		if sig.ErrorMessage == "" {
			sig.ErrorMessage = "payment gateway unavailable"
		}
	}
	return sig
}

// PaymentGateway is the outbound payment port.
type PaymentGateway interface {
	StartPayment(ctx context.Context, req StartPaymentRequest) *PaymentResult
	CreateRecurringPayment(ctx context.Context, req RecurringPaymentRequest) *PaymentResult
}
