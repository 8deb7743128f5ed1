package billing

import (
	"unimarket/internal/domain/billing"
	"unimarket/internal/domain/user"
)

// ResolveBillingProfile builds the billing block for a new charge.
// Precedence is field by field: the prior order snapshot first, then the
// user profile, then hard defaults. A missing snapshot never blocks a
// charge.
func ResolveBillingProfile(prior *billing.Order, u *user.User) billing.BillingInfo {
	var snapshot billing.BillingInfo
	if prior != nil {
		snapshot = prior.Billing()
	}

	profile := billing.MergeBilling(snapshot, userBilling(u))
	return profile.WithDefaults()
}

func userBilling(u *user.User) billing.BillingInfo {
	if u == nil {
		return billing.BillingInfo{}
	}
	b := u.Billing()
	if b.Email == "" {
		b.Email = u.Email()
	}
	if b.Name == "" {
		b.Name = u.Name()
	}
	return b
}
