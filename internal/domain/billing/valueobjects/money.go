package valueobjects

import "fmt"

// Money is an amount in the smallest currency unit (bani for RON).
type Money struct {
	amount   int64
	currency string
}

func NewMoney(amount int64, currency string) Money {
	if currency == "" {
		currency = "RON"
	}
	return Money{amount: amount, currency: currency}
}

func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) IsPositive() bool {
	return m.amount > 0
}

// Units returns the amount in major currency units for display.
func (m Money) Units() float64 {
	return float64(m.amount) / 100
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Units(), m.currency)
}
