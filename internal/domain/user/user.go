package user

import (
	"fmt"
	"time"

	"unimarket/internal/domain/billing"
	"unimarket/internal/shared/biztime"
)

// User is the billing-relevant subset of the marketplace user. Identity,
// sessions and profile editing live with the external identity provider;
// this aggregate only owns entitlement and the stored payment credential.
type User struct {
	id                   uint
	email                string
	name                 string
	planType             PlanType
	recurringToken       *string
	tokenExpiry          *string // MM/YY as reported by the gateway
	autoRenewEnabled     bool
	lastRecurringPayment *time.Time
	billing              billing.BillingInfo
	updatedAt            time.Time
}

func (u *User) ID() uint                         { return u.id }
func (u *User) Email() string                    { return u.email }
func (u *User) Name() string                     { return u.name }
func (u *User) PlanType() PlanType               { return u.planType }
func (u *User) RecurringToken() *string          { return u.recurringToken }
func (u *User) TokenExpiry() *string             { return u.tokenExpiry }
func (u *User) AutoRenewEnabled() bool           { return u.autoRenewEnabled }
func (u *User) LastRecurringPayment() *time.Time { return u.lastRecurringPayment }
func (u *User) Billing() billing.BillingInfo     { return u.billing }
func (u *User) UpdatedAt() time.Time             { return u.updatedAt }

// SetPlanType updates the entitlement tier. Idempotent.
func (u *User) SetPlanType(planType PlanType) error {
	if !ValidPlanTypes[planType] {
		return fmt.Errorf("invalid plan type: %s", planType)
	}
	if u.planType == planType {
		return nil
	}
	u.planType = planType
	u.updatedAt = biztime.NowUTC()
	return nil
}

// SaveRecurringToken stores the gateway credential from a successful
// charge and turns auto-renew on. The token on the order keeps
// per-transaction provenance; this copy is the fast lookup path for the
// scheduler.
func (u *User) SaveRecurringToken(token string, expiry *string, lastBilling billing.BillingInfo) error {
	if token == "" {
		return fmt.Errorf("recurring token is required")
	}
	now := biztime.NowUTC()
	u.recurringToken = &token
	u.tokenExpiry = expiry
	u.autoRenewEnabled = true
	u.lastRecurringPayment = &now
	u.billing = billing.MergeBilling(lastBilling, u.billing)
	u.updatedAt = now
	return nil
}

// ClearRecurringToken drops the stored credential and disables auto-renew.
func (u *User) ClearRecurringToken() {
	u.recurringToken = nil
	u.tokenExpiry = nil
	u.autoRenewEnabled = false
	u.updatedAt = biztime.NowUTC()
}

// UserReconstructParams carries persistence state back into the aggregate.
type UserReconstructParams struct {
	ID                   uint
	Email                string
	Name                 string
	PlanType             PlanType
	RecurringToken       *string
	TokenExpiry          *string
	AutoRenewEnabled     bool
	LastRecurringPayment *time.Time
	Billing              billing.BillingInfo
	UpdatedAt            time.Time
}

// ReconstructUser rebuilds the billing view of a user from persistence.
func ReconstructUser(p UserReconstructParams) (*User, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if !ValidPlanTypes[p.PlanType] {
		return nil, fmt.Errorf("invalid plan type: %s", p.PlanType)
	}

	return &User{
		id:                   p.ID,
		email:                p.Email,
		name:                 p.Name,
		planType:             p.PlanType,
		recurringToken:       p.RecurringToken,
		tokenExpiry:          p.TokenExpiry,
		autoRenewEnabled:     p.AutoRenewEnabled,
		lastRecurringPayment: p.LastRecurringPayment,
		billing:              p.Billing,
		updatedAt:            p.UpdatedAt,
	}, nil
}
