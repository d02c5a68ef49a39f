package order

import "github.com/shopspring/decimal"

type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// ComputeTotals returns subtotal = Σ price×quantity, tax = subtotal×taxRate
// and total = subtotal + tax.
func ComputeTotals(items []ItemInput, taxRate float64) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate))

	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    subtotal.Add(tax).InexactFloat64(),
	}
}
