package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		taxRate  float64
		expected Totals
	}{
		{
			name:     "two_items_ten_percent",
			lines:    []Line{{Quantity: 2, Price: 5.00}, {Quantity: 1, Price: 3.00}},
			taxRate:  0.10,
			expected: Totals{Subtotal: 13.00, Tax: 1.30, Total: 14.30},
		},
		{
			name:     "tax_rounds_up",
			lines:    []Line{{Quantity: 2, Price: 15.99}, {Quantity: 1, Price: 3.50}},
			taxRate:  0.10,
			expected: Totals{Subtotal: 35.48, Tax: 3.55, Total: 39.03},
		},
		{
			name:     "zero_tax",
			lines:    []Line{{Quantity: 3, Price: 2.50}},
			taxRate:  0,
			expected: Totals{Subtotal: 7.50, Tax: 0, Total: 7.50},
		},
		{
			name:     "no_lines",
			lines:    nil,
			taxRate:  0.10,
			expected: Totals{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.lines, tc.taxRate)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 31.98, LineTotal(2, 15.99))
	assert.Equal(t, 0.30, LineTotal(3, 0.10))
}

// Repeated edits must not drift: summing many 0.10 lines stays exact.
func TestComputeNoFloatDrift(t *testing.T) {
	lines := make([]Line, 100)
	for i := range lines {
		lines[i] = Line{Quantity: 1, Price: 0.10}
	}
	got := Compute(lines, 0.10)
	assert.Equal(t, Totals{Subtotal: 10.00, Tax: 1.00, Total: 11.00}, got)
}
