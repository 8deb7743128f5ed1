package mappers

import (
	vo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/domain/subscription"
	"unimarket/internal/infrastructure/persistence/models"
)

func PlanToDomain(model *models.PlanModel) (*subscription.Plan, error) {
	return subscription.NewPlan(model.ID, model.PlanType, model.Name, vo.NewMoney(model.Price, model.Currency))
}
