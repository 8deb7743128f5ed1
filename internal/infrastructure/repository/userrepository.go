package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"unimarket/internal/domain/user"
	"unimarket/internal/infrastructure/persistence/mappers"
	"unimarket/internal/infrastructure/persistence/models"
	"unimarket/internal/shared/db"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return mappers.UserToDomain(&model)
}

// Update persists only the billing-owned columns; the rest of the users
// table belongs to the identity provider.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	model := mappers.UserToModel(u)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"plan_type":              model.PlanType,
			"recurring_token":        model.RecurringToken,
			"token_expiry":           model.TokenExpiry,
			"auto_renew_enabled":     model.AutoRenewEnabled,
			"last_recurring_payment": model.LastRecurringPayment,
			"phone":                  model.Phone,
			"address":                model.Address,
			"city":                   model.City,
			"postal_code":            model.PostalCode,
			"country":                model.Country,
			"updated_at":             model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}

	return nil
}
