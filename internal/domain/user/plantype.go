package user

// PlanType is the entitlement tier a user is currently allowed to use.
type PlanType string

const (
	PlanBasic   PlanType = "basic"
	PlanPremium PlanType = "premium"
	PlanGold    PlanType = "gold"
)

func (p PlanType) String() string {
	return string(p)
}

// IsPaid reports whether the tier requires recurring billing.
func (p PlanType) IsPaid() bool {
	return p == PlanPremium || p == PlanGold
}

var ValidPlanTypes = map[PlanType]bool{
	PlanBasic:   true,
	PlanPremium: true,
	PlanGold:    true,
}

// ParsePlanType normalizes a stored plan name, defaulting to basic for
// anything unrecognized so entitlement checks always have a valid tier.
func ParsePlanType(s string) PlanType {
	if pt := PlanType(s); ValidPlanTypes[pt] {
		return pt
	}
	return PlanBasic
}
