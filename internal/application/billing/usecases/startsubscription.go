package usecases

import (
	"context"
	"fmt"

	appbilling "unimarket/internal/application/billing"
	"unimarket/internal/application/billing/gateway"
	"unimarket/internal/domain/billing"
	vo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/domain/subscription"
	"unimarket/internal/domain/user"
	apperrors "unimarket/internal/shared/errors"
	"unimarket/internal/shared/logger"
)

// StartSubscriptionCommand opens a hosted checkout for a paid plan.
type StartSubscriptionCommand struct {
	UserID   uint
	PlanType string
}

// StartSubscriptionResult is what the frontend needs to continue the
// checkout. The outcome itself arrives later over IPN.
type StartSubscriptionResult struct {
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
}

// StartSubscriptionUseCase creates the pending order for an initial
// subscription purchase and opens the payment with the gateway.
type StartSubscriptionUseCase struct {
	orderRepo billing.OrderRepository
	planRepo  subscription.PlanRepository
	userRepo  user.UserRepository
	gateway   gateway.PaymentGateway
	logger    logger.Interface
}

func NewStartSubscriptionUseCase(
	orderRepo billing.OrderRepository,
	planRepo subscription.PlanRepository,
	userRepo user.UserRepository,
	gw gateway.PaymentGateway,
	logger logger.Interface,
) *StartSubscriptionUseCase {
	return &StartSubscriptionUseCase{
		orderRepo: orderRepo,
		planRepo:  planRepo,
		userRepo:  userRepo,
		gateway:   gw,
		logger:    logger,
	}
}

func (uc *StartSubscriptionUseCase) Execute(ctx context.Context, cmd StartSubscriptionCommand) (*StartSubscriptionResult, error) {
	planType := user.ParsePlanType(cmd.PlanType)
	if !planType.IsPaid() {
		return nil, apperrors.NewValidationError("invalid plan", fmt.Sprintf("plan %q cannot be purchased", cmd.PlanType))
	}

	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	plan, err := uc.planRepo.GetByType(ctx, planType.String())
	if err != nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}

	prior, err := uc.orderRepo.FindLatestTokenOrder(ctx, u.ID())
	if err != nil {
		prior = nil
	}
	profile := appbilling.ResolveBillingProfile(prior, u)

	order, err := billing.NewOrder(u.ID(), plan.ID(), plan.PlanType(), plan.Price(), vo.OriginInitial, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to build order: %w", err)
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	res := uc.gateway.StartPayment(ctx, gateway.StartPaymentRequest{
		OrderID:     order.OrderID(),
		Amount:      plan.Price().Units(),
		Currency:    plan.Price().Currency(),
		Description: fmt.Sprintf("%s subscription", plan.Name()),
		Billing:     profile,
	})
	if !res.Success {
		reason := res.ErrorMessage
		if reason == "" {
			reason = billing.ErrorCodeDescription(res.ErrorCode)
		}
		if markErr := order.MarkFailed(reason); markErr == nil {
			if updErr := uc.orderRepo.Update(ctx, order); updErr != nil {
				uc.logger.Errorw("failed to record start payment failure",
					"order_id", order.OrderID(), "error", updErr)
			}
		}
		uc.logger.Warnw("gateway refused to start payment",
			"order_id", order.OrderID(), "user_id", u.ID(), "reason", reason)
		return nil, apperrors.NewInternalError("failed to start payment", reason)
	}

	uc.logger.Infow("payment started",
		"order_id", order.OrderID(),
		"user_id", u.ID(),
		"plan", plan.PlanType(),
	)

	return &StartSubscriptionResult{
		OrderID:     order.OrderID(),
		RedirectURL: res.RedirectURL,
	}, nil
}
