package market

import "github.com/shopspring/decimal"

// Stepper is the purchase quantity selector, bounded to [1, Max]. With
// nothing in stock it is disabled: Value and Max are 0 and it never moves.
type Stepper struct {
	Value int
	Max   int
}

func NewStepper(max int) Stepper {
	if max < 1 {
		return Stepper{}
	}
	return Stepper{Value: 1, Max: max}
}

func (s Stepper) Disabled() bool { return s.Max < 1 }

// Min is 1, or 0 for a disabled stepper.
func (s Stepper) Min() int {
	if s.Disabled() {
		return 0
	}
	return 1
}

// Inc is a no-op at the upper bound.
func (s *Stepper) Inc() {
	if s.Value < s.Max {
		s.Value++
	}
}

// Dec is a no-op at 1.
func (s *Stepper) Dec() {
	if s.Value > s.Min() {
		s.Value--
	}
}

func (s Stepper) Clamp(q int) int {
	if s.Disabled() {
		return 0
	}
	if q > s.Max {
		q = s.Max
	}
	if q < 1 {
		q = 1
	}
	return q
}

func LineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
