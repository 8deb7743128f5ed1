package models

import (
	"time"

	"gorm.io/datatypes"
)

type OrderModel struct {
	ID            uint    `gorm:"primaryKey"`
	OrderID       string  `gorm:"uniqueIndex;size:64;not null"`
	UserID        uint    `gorm:"index;not null"`
	PlanID        uint    `gorm:"not null"`
	PlanType      string  `gorm:"size:20;not null"`
	Amount        int64   `gorm:"not null"`
	Currency      string  `gorm:"size:10;not null;default:'RON'"`
	Status        string  `gorm:"size:24;not null;index"`
	Origin        string  `gorm:"size:12;not null"`
	Token         *string `gorm:"size:255"`
	NtpID         *string `gorm:"size:128"`
	MaskedCard    *string `gorm:"size:32"`
	PaidAt        *time.Time
	FailureReason *string        `gorm:"type:text"`
	Billing       datatypes.JSON `gorm:"type:json"`
	Version       int            `gorm:"default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}
