package subscription

import (
	"fmt"

	billingvo "unimarket/internal/domain/billing/valueobjects"
)

// Plan is read-only pricing reference data. Renewal charges always use
// the plan resolved from the user's current plan type, never the amount
// frozen on an old subscription row, so plan changes take effect on the
// next billing cycle.
type Plan struct {
	id       uint
	planType string
	name     string
	price    billingvo.Money
}

func NewPlan(id uint, planType, name string, price billingvo.Money) (*Plan, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if planType == "" {
		return nil, fmt.Errorf("plan type is required")
	}
	return &Plan{id: id, planType: planType, name: name, price: price}, nil
}

func (p *Plan) ID() uint               { return p.id }
func (p *Plan) PlanType() string       { return p.planType }
func (p *Plan) Name() string           { return p.name }
func (p *Plan) Price() billingvo.Money { return p.price }
