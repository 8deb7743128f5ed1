package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"unimarket/internal/domain/billing"
	vo "unimarket/internal/domain/billing/valueobjects"
	"unimarket/internal/infrastructure/persistence/mappers"
	"unimarket/internal/infrastructure/persistence/models"
	"unimarket/internal/shared/db"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *billing.Order) error {
	model, err := mappers.OrderToModel(order)
	if err != nil {
		return err
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.SetID(model.ID)
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, order *billing.Order) error {
	model, err := mappers.OrderToModel(order)
	if err != nil {
		return err
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.OrderModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"token":          model.Token,
			"ntp_id":         model.NtpID,
			"masked_card":    model.MaskedCard,
			"paid_at":        model.PaidAt,
			"failure_reason": model.FailureReason,
			"billing":        model.Billing,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}

	return nil
}

func (r *OrderRepository) GetByOrderID(ctx context.Context, orderID string) (*billing.Order, error) {
	var model models.OrderModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("order_id = ?", orderID).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to get order by order_id: %w", err)
	}

	return mappers.OrderToDomain(&model)
}

// FindLatestTokenOrder returns the newest completed order that carries a
// recurring token for the user. It is the billing snapshot source for
// the next recurring charge.
func (r *OrderRepository) FindLatestTokenOrder(ctx context.Context, userID uint) (*billing.Order, error) {
	var model models.OrderModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status = ? AND token IS NOT NULL AND token <> ''", userID, vo.OrderStatusCompleted.String()).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("no completed token order for user %d", userID)
		}
		return nil, fmt.Errorf("failed to find latest token order: %w", err)
	}

	return mappers.OrderToDomain(&model)
}
