package models

import "time"

type SubscriptionModel struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	PlanID      uint      `gorm:"not null"`
	PlanName    string    `gorm:"size:64;not null"`
	Status      string    `gorm:"size:20;not null;index:idx_subscriptions_status_end_date"`
	Amount      int64     `gorm:"not null"`
	Currency    string    `gorm:"size:10;not null;default:'RON'"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null;index:idx_subscriptions_status_end_date"`
	LastOrderID *string   `gorm:"size:64"`
	Version     int       `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
