package mappers

import (
	"encoding/json"
	"fmt"

	"unimarket/internal/domain/billing"
	vo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/infrastructure/persistence/models"
)

func OrderToModel(o *billing.Order) (*models.OrderModel, error) {
	billingJSON, err := json.Marshal(o.Billing())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal billing snapshot: %w", err)
	}

	return &models.OrderModel{
		ID:            o.ID(),
		OrderID:       o.OrderID(),
		UserID:        o.UserID(),
		PlanID:        o.PlanID(),
		PlanType:      o.PlanType(),
		Amount:        o.Amount().Amount(),
		Currency:      o.Amount().Currency(),
		Status:        o.Status().String(),
		Origin:        o.Origin().String(),
		Token:         o.Token(),
		NtpID:         o.NtpID(),
		MaskedCard:    o.MaskedCard(),
		PaidAt:        o.PaidAt(),
		FailureReason: o.FailureReason(),
		Billing:       billingJSON,
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}, nil
}

func OrderToDomain(model *models.OrderModel) (*billing.Order, error) {
	var snapshot billing.BillingInfo
	if len(model.Billing) > 0 {
		if err := json.Unmarshal(model.Billing, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal billing snapshot: %w", err)
		}
	}

	return billing.ReconstructOrder(billing.OrderReconstructParams{
		ID:            model.ID,
		OrderID:       model.OrderID,
		UserID:        model.UserID,
		PlanID:        model.PlanID,
		PlanType:      model.PlanType,
		Amount:        vo.NewMoney(model.Amount, model.Currency),
		Status:        vo.OrderStatus(model.Status),
		Origin:        vo.OrderOrigin(model.Origin),
		Token:         model.Token,
		NtpID:         model.NtpID,
		MaskedCard:    model.MaskedCard,
		PaidAt:        model.PaidAt,
		FailureReason: model.FailureReason,
		Billing:       snapshot,
		Version:       model.Version,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	})
}
