package models

import "time"

// UserModel maps the billing-relevant columns of the marketplace users
// table. Identity columns owned by the external provider are not mapped.
type UserModel struct {
	ID                   uint    `gorm:"primaryKey"`
	Email                string  `gorm:"uniqueIndex;size:255;not null"`
	Name                 string  `gorm:"size:255"`
	PlanType             string  `gorm:"size:20;not null;default:'basic'"`
	RecurringToken       *string `gorm:"size:255"`
	TokenExpiry          *string `gorm:"size:8"`
	AutoRenewEnabled     bool    `gorm:"default:false"`
	LastRecurringPayment *time.Time
	Phone                *string `gorm:"size:20"`
	Address              *string `gorm:"size:255"`
	City                 *string `gorm:"size:64"`
	PostalCode           *string `gorm:"size:10"`
	Country              *string `gorm:"size:64"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (UserModel) TableName() string {
	return "users"
}
