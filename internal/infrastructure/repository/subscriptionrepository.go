package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"unimarket/internal/domain/subscription"
	vo "unimarket/internal/domain/subscription/valueobjects"
	"unimarket/internal/infrastructure/persistence/mappers"
	"unimarket/internal/infrastructure/persistence/models"
	"unimarket/internal/shared/db"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(sub)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	sub.SetID(model.ID)
	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(sub)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":        model.Status,
			"end_date":      model.EndDate,
			"last_order_id": model.LastOrderID,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}

	return nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

// GetActiveByUserID returns the user's active subscription, or nil when
// there is none. Mutating callers re-fetch through here right before
// applying a transition so the update-or-create decision is made on
// fresh state.
func (r *SubscriptionRepository) GetActiveByUserID(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status = ?", userID, vo.StatusActive.String()).
		Order("end_date DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) FindDueForRenewal(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error) {
	var subModels []models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND end_date <= ?", vo.StatusActive.String(), cutoff).
		Order("end_date ASC").
		Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find due subscriptions: %w", err)
	}

	subs := make([]*subscription.Subscription, len(subModels))
	for i, model := range subModels {
		s, err := mappers.SubscriptionToDomain(&model)
		if err != nil {
			return nil, err
		}
		subs[i] = s
	}

	return subs, nil
}
