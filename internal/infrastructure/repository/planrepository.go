package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"unimarket/internal/domain/subscription"
	"unimarket/internal/infrastructure/persistence/mappers"
	"unimarket/internal/infrastructure/persistence/models"
	"unimarket/internal/shared/db"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("plan not found")
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return mappers.PlanToDomain(&model)
}

func (r *PlanRepository) GetByType(ctx context.Context, planType string) (*subscription.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("plan_type = ?", planType).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("plan %s not found", planType)
		}
		return nil, fmt.Errorf("failed to get plan by type: %w", err)
	}

	return mappers.PlanToDomain(&model)
}
