package mappers

import (
	vo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/domain/subscription"
	subvo "unimarket/internal/domain/subscription/valueobjects"
	"unimarket/internal/infrastructure/persistence/models"
)

func SubscriptionToModel(s *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:          s.ID(),
		UserID:      s.UserID(),
		PlanID:      s.PlanID(),
		PlanName:    s.PlanName(),
		Status:      s.Status().String(),
		Amount:      s.Amount().Amount(),
		Currency:    s.Amount().Currency(),
		StartDate:   s.StartDate(),
		EndDate:     s.EndDate(),
		LastOrderID: s.LastOrderID(),
		Version:     s.Version(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}
}

func SubscriptionToDomain(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	return subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:          model.ID,
		UserID:      model.UserID,
		PlanID:      model.PlanID,
		PlanName:    model.PlanName,
		Status:      subvo.SubscriptionStatus(model.Status),
		Amount:      vo.NewMoney(model.Amount, model.Currency),
		StartDate:   model.StartDate,
		EndDate:     model.EndDate,
		LastOrderID: model.LastOrderID,
		Version:     model.Version,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	})
}
