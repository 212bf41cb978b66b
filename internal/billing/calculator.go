package billing

import "math"

// Totals holds the computed amounts for a bill.
type Totals struct {
	Subtotal          float64
	AdjustmentAmounts []float64
	GrandTotal        float64
}

// CalculateTotals computes the subtotal, per-adjustment amounts and the grand
// total for a bill. Every adjustment applies against the original subtotal,
// never against a running total, so adjustment order cannot change the result.
// Adjustments with an unrecognized type contribute zero. The grand total is
// rounded to two decimals and clamped at zero.
func CalculateTotals(items []CreateItemInput, adjustments []Adjustment) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += float64(item.Quantity) * item.UnitPrice
	}

	amounts := make([]float64, len(adjustments))
	var total = subtotal
	for i, adj := range adjustments {
		var amount float64
		switch adj.Type {
		case AdjustmentPercent:
			amount = subtotal * adj.Value / 100
		case AdjustmentFixed:
			amount = adj.Value
		}
		amounts[i] = amount
		total += amount
	}

	total = math.Round(total*100) / 100
	if total < 0 {
		total = 0
	}
	return Totals{Subtotal: subtotal, AdjustmentAmounts: amounts, GrandTotal: total}
}
