package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"unimarket/internal/domain/billing"
	"unimarket/internal/domain/user"
	apperrors "unimarket/internal/shared/errors"
	"unimarket/internal/shared/logger"
)

// FlexInt decodes a JSON number that historically arrived either as a
// number or as a quoted string. A null or empty string decodes to zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	*f = FlexInt(n)
	return nil
}

// ipnPayment is the payment block shared by both payload generations.
type ipnPayment struct {
	Status       *FlexInt `json:"status"`
	NtpID        string   `json:"ntpID"`
	Token        string   `json:"token"`
	TokenExpiry  string   `json:"tokenExpireMonth,omitempty"`
	MaskedCard   string   `json:"maskedCard"`
	ErrorCode    FlexInt  `json:"errorCode"`
	ErrorMessage string   `json:"errorMessage"`
}

// ipnEnvelope accepts both historical notification shapes: the current
// one nests the fields under "order" and "payment", the legacy one puts
// everything at the top level.
type ipnEnvelope struct {
	OrderID string `json:"orderID"`
	ipnPayment
	Order *struct {
		OrderID string `json:"orderID"`
	} `json:"order"`
	Payment *ipnPayment `json:"payment"`
}

// ipnNotification is the single normalized shape the reconciler consumes.
type ipnNotification struct {
	OrderID      string
	Status       *int
	NtpID        string
	Token        string
	TokenExpiry  string
	MaskedCard   string
	ErrorCode    int
	ErrorMessage string
}

func normalizeIPN(body []byte) (*ipnNotification, error) {
	var env ipnEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("malformed notification body: %w", err)
	}

	n := &ipnNotification{
		OrderID:      env.OrderID,
		NtpID:        env.NtpID,
		Token:        env.Token,
		TokenExpiry:  env.TokenExpiry,
		MaskedCard:   env.MaskedCard,
		ErrorCode:    int(env.ErrorCode),
		ErrorMessage: env.ErrorMessage,
	}
	if env.ipnPayment.Status != nil {
		status := int(*env.ipnPayment.Status)
		n.Status = &status
	}

	if env.Order != nil && env.Order.OrderID != "" {
		n.OrderID = env.Order.OrderID
	}
	if env.Payment != nil {
		p := env.Payment
		if p.Status != nil {
			status := int(*p.Status)
			n.Status = &status
		}
		if p.NtpID != "" {
			n.NtpID = p.NtpID
		}
		if p.Token != "" {
			n.Token = p.Token
		}
		if p.TokenExpiry != "" {
			n.TokenExpiry = p.TokenExpiry
		}
		if p.MaskedCard != "" {
			n.MaskedCard = p.MaskedCard
		}
		if p.ErrorCode != 0 {
			n.ErrorCode = int(p.ErrorCode)
		}
		if p.ErrorMessage != "" {
			n.ErrorMessage = p.ErrorMessage
		}
	}

	return n, nil
}

// HandleIPNCommand carries the raw notification body as received.
type HandleIPNCommand struct {
	Body []byte
}

// HandleIPNUseCase processes an instant payment notification from the
// gateway. The payload is authenticated only by resolving a known order
// id; the gateway sends no signature we could verify, which is a known
// gap inherited from the integration contract.
type HandleIPNUseCase struct {
	orderRepo  billing.OrderRepository
	userRepo   user.UserRepository
	reconciler *PaymentReconciler
	logger     logger.Interface
}

func NewHandleIPNUseCase(
	orderRepo billing.OrderRepository,
	userRepo user.UserRepository,
	reconciler *PaymentReconciler,
	logger logger.Interface,
) *HandleIPNUseCase {
	return &HandleIPNUseCase{
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Execute normalizes the payload, resolves the order and user, and feeds
// the signal through the shared reconciler. A duplicate notification for
// an already-reconciled order succeeds without side effects.
func (uc *HandleIPNUseCase) Execute(ctx context.Context, cmd HandleIPNCommand) error {
	n, err := normalizeIPN(cmd.Body)
	if err != nil {
		uc.logger.Warnw("rejected malformed payment notification", "error", err)
		return apperrors.NewValidationError("invalid notification payload", err.Error())
	}
	if n.OrderID == "" {
		return apperrors.NewValidationError("invalid notification payload", "orderID is required")
	}
	if n.Status == nil {
		return apperrors.NewValidationError("invalid notification payload", "status is required")
	}

	order, err := uc.orderRepo.GetByOrderID(ctx, n.OrderID)
	if err != nil {
		uc.logger.Warnw("notification for unknown order", "order_id", n.OrderID, "error", err)
		return apperrors.NewNotFoundError("order not found")
	}

	u, err := uc.userRepo.GetByID(ctx, order.UserID())
	if err != nil {
		uc.logger.Warnw("notification for unknown user",
			"order_id", n.OrderID, "user_id", order.UserID(), "error", err)
		return apperrors.NewNotFoundError("user not found")
	}

	in := ReconcilePaymentInput{
		Order: order,
		User:  u,
		Signal: billing.GatewaySignal{
			Status:       *n.Status,
			ErrorCode:    n.ErrorCode,
			ErrorMessage: n.ErrorMessage,
		},
		NtpID: n.NtpID,
	}
	if n.Token != "" {
		in.Token = &n.Token
	}
	if n.TokenExpiry != "" {
		in.TokenExpiry = &n.TokenExpiry
	}
	if n.MaskedCard != "" {
		in.MaskedCard = &n.MaskedCard
	}

	outcome, err := uc.reconciler.Apply(ctx, in)
	if err != nil {
		return fmt.Errorf("failed to reconcile notification: %w", err)
	}

	uc.logger.Infow("notification processed",
		"order_id", n.OrderID,
		"status", outcome.Status.String(),
	)
	return nil
}
