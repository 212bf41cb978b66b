package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotalsWithVAT(t *testing.T) {
	items := []CreateItemInput{
		{ProductID: "p1", ProductName: "Widget", Quantity: 2, UnitPrice: 100},
	}
	adjustments := []Adjustment{
		{Label: "VAT", Type: AdjustmentPercent, Value: 7},
	}

	totals := CalculateTotals(items, adjustments)

	assert.Equal(t, 200.0, totals.Subtotal)
	assert.InDelta(t, 14.0, totals.AdjustmentAmounts[0], 0.001)
	assert.Equal(t, 214.0, totals.GrandTotal)
}

func TestCalculateTotalsAdjustmentsApplyToSubtotal(t *testing.T) {
	items := []CreateItemInput{
		{ProductID: "p1", ProductName: "Widget", Quantity: 1, UnitPrice: 1000},
	}
	a := Adjustment{Label: "Discount", Type: AdjustmentPercent, Value: -10}
	b := Adjustment{Label: "VAT", Type: AdjustmentPercent, Value: 7}

	forward := CalculateTotals(items, []Adjustment{a, b})
	reversed := CalculateTotals(items, []Adjustment{b, a})

	// Percent adjustments never compound, so order cannot matter.
	assert.Equal(t, forward.GrandTotal, reversed.GrandTotal)
	assert.InDelta(t, -100.0, forward.AdjustmentAmounts[0], 0.001)
	assert.InDelta(t, 70.0, forward.AdjustmentAmounts[1], 0.001)
	assert.Equal(t, 970.0, forward.GrandTotal)
}

func TestCalculateTotalsClampsAtZero(t *testing.T) {
	items := []CreateItemInput{
		{ProductID: "p1", ProductName: "Widget", Quantity: 1, UnitPrice: 1000},
	}
	adjustments := []Adjustment{
		{Label: "Goodwill", Type: AdjustmentFixed, Value: -1200},
	}

	totals := CalculateTotals(items, adjustments)

	assert.Equal(t, 1000.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.GrandTotal)
}

func TestCalculateTotalsUnknownTypeIgnored(t *testing.T) {
	items := []CreateItemInput{
		{ProductID: "p1", ProductName: "Widget", Quantity: 3, UnitPrice: 50},
	}
	adjustments := []Adjustment{
		{Label: "Mystery", Type: "compound", Value: 99},
	}

	totals := CalculateTotals(items, adjustments)

	assert.Equal(t, 0.0, totals.AdjustmentAmounts[0])
	assert.Equal(t, 150.0, totals.GrandTotal)
}

func TestCalculateTotalsRounding(t *testing.T) {
	items := []CreateItemInput{
		{ProductID: "p1", ProductName: "Widget", Quantity: 3, UnitPrice: 33.33},
	}
	adjustments := []Adjustment{
		{Label: "VAT", Type: AdjustmentPercent, Value: 7},
	}

	totals := CalculateTotals(items, adjustments)

	// 99.99 * 1.07 = 106.9893, rounded to cents.
	assert.Equal(t, 106.99, totals.GrandTotal)
}

func TestCalculateTotalsNoItems(t *testing.T) {
	totals := CalculateTotals(nil, nil)
	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.GrandTotal)
	assert.Empty(t, totals.AdjustmentAmounts)
}
