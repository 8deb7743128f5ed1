package mappers

import (
	"unimarket/internal/domain/billing"
	"unimarket/internal/domain/user"
	"unimarket/internal/infrastructure/persistence/models"
)

func UserToModel(u *user.User) *models.UserModel {
	b := u.Billing()
	return &models.UserModel{
		ID:                   u.ID(),
		Email:                u.Email(),
		Name:                 u.Name(),
		PlanType:             u.PlanType().String(),
		RecurringToken:       u.RecurringToken(),
		TokenExpiry:          u.TokenExpiry(),
		AutoRenewEnabled:     u.AutoRenewEnabled(),
		LastRecurringPayment: u.LastRecurringPayment(),
		Phone:                optional(b.Phone),
		Address:              optional(b.Address),
		City:                 optional(b.City),
		PostalCode:           optional(b.PostalCode),
		Country:              optional(b.Country),
		UpdatedAt:            u.UpdatedAt(),
	}
}

func UserToDomain(model *models.UserModel) (*user.User, error) {
	return user.ReconstructUser(user.UserReconstructParams{
		ID:                   model.ID,
		Email:                model.Email,
		Name:                 model.Name,
		PlanType:             user.ParsePlanType(model.PlanType),
		RecurringToken:       model.RecurringToken,
		TokenExpiry:          model.TokenExpiry,
		AutoRenewEnabled:     model.AutoRenewEnabled,
		LastRecurringPayment: model.LastRecurringPayment,
		Billing: billing.BillingInfo{
			Email:      model.Email,
			Name:       model.Name,
			Phone:      deref(model.Phone),
			Address:    deref(model.Address),
			City:       deref(model.City),
			PostalCode: deref(model.PostalCode),
			Country:    deref(model.Country),
		},
		UpdatedAt: model.UpdatedAt,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
