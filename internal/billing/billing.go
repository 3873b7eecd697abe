// Package billing holds the monetary arithmetic for the order ledger.
// Every figure is computed with decimals and rounded to cents as it is
// produced, so repeated edits never accumulate floating-point drift.
package billing

import (
	"github.com/shopspring/decimal"
)

type Line struct {
	Quantity int
	Price    float64
}

type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// LineTotal is quantity × price rounded to cents.
func LineTotal(quantity int, price float64) float64 {
	return lineTotal(quantity, price).InexactFloat64()
}

func lineTotal(quantity int, price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Compute derives subtotal, tax and total from the line items. The tax is
// rounded before it is added, so total is always exactly subtotal + tax.
func Compute(lines []Line, taxRate float64) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(lineTotal(l.Quantity, l.Price))
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	total := subtotal.Add(tax)

	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}
