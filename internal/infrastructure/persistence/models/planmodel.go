package models

import "time"

type PlanModel struct {
	ID        uint   `gorm:"primaryKey"`
	PlanType  string `gorm:"uniqueIndex;size:20;not null"`
	Name      string `gorm:"size:64;not null"`
	Price     int64  `gorm:"not null"`
	Currency  string `gorm:"size:10;not null;default:'RON'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PlanModel) TableName() string {
	return "plans"
}
