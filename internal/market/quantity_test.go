package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStepperBounds(t *testing.T) {
	s := NewStepper(3)
	assert.Equal(t, 1, s.Value)

	s.Dec()
	assert.Equal(t, 1, s.Value)

	s.Inc()
	s.Inc()
	s.Inc()
	assert.Equal(t, 3, s.Value)

	s.Dec()
	assert.Equal(t, 2, s.Value)
}

func TestStepperClamp(t *testing.T) {
	s := NewStepper(5)
	assert.Equal(t, 1, s.Clamp(0))
	assert.Equal(t, 1, s.Clamp(-4))
	assert.Equal(t, 4, s.Clamp(4))
	assert.Equal(t, 5, s.Clamp(9))
}

func TestStepperOutOfStock(t *testing.T) {
	for _, max := range []int{0, -2} {
		s := NewStepper(max)
		assert.True(t, s.Disabled())
		assert.Equal(t, 0, s.Value)
		assert.Equal(t, 0, s.Min())

		s.Inc()
		assert.Equal(t, 0, s.Value)
		s.Dec()
		assert.Equal(t, 0, s.Value)
		assert.Equal(t, 0, s.Clamp(3))
	}
}

func TestLineTotal(t *testing.T) {
	got := LineTotal(decimal.RequireFromString("12.345"), 3)
	assert.Equal(t, "37.04", got.StringFixed(2))
}
