package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mateflow/mateflow/internal/billing"
)

func TestCalculateZeroIncome(t *testing.T) {
	est := Calculate(0, 0, SchedulePersonal)
	assert.Equal(t, 0.0, est.TaxableIncome)
	assert.Equal(t, 0.0, est.TotalTax)
	assert.Len(t, est.Breakdown, 8)
}

func TestCalculatePersonalFirstBracketBoundary(t *testing.T) {
	// 150,000 sits entirely in the zero-rate tier.
	est := Calculate(150000, 0, SchedulePersonal)
	assert.Equal(t, 0.0, est.TotalTax)

	// One baht over the boundary is taxed at 5%.
	est = Calculate(150001, 0, SchedulePersonal)
	assert.InDelta(t, 0.05, est.TotalTax, 0.0001)
}

func TestCalculatePersonalWithDeduction(t *testing.T) {
	est := Calculate(500000, DefaultPersonalDeduction, SchedulePersonal)

	assert.Equal(t, 440000.0, est.TaxableIncome)
	// 150,000 at 5% plus 140,000 at 10%.
	assert.InDelta(t, 21500.0, est.TotalTax, 0.01)
}

func TestCalculateDeductionExceedsProfit(t *testing.T) {
	est := Calculate(40000, DefaultPersonalDeduction, SchedulePersonal)
	assert.Equal(t, 0.0, est.TaxableIncome)
	assert.Equal(t, 0.0, est.TotalTax)
}

func TestCalculateCorporate(t *testing.T) {
	est := Calculate(3000000, 0, ScheduleCorporate)

	assert.Len(t, est.Breakdown, 3)
	// 2,700,000 at 15%, nothing in the 20% tier.
	assert.InDelta(t, 405000.0, est.TotalTax, 0.01)
	assert.Equal(t, 0.0, est.Breakdown[2].AmountInBracket)
}

func TestCalculateTopBracketUnbounded(t *testing.T) {
	est := Calculate(10000000, 0, SchedulePersonal)
	top := est.Breakdown[len(est.Breakdown)-1]

	assert.Equal(t, "5,000,001 - MAX", top.Bracket)
	assert.InDelta(t, 5000000.0, top.AmountInBracket, 0.01)
	assert.InDelta(t, 1750000.0, top.Tax, 0.01)
}

func TestCalculateBreakdownIncludesEmptyBrackets(t *testing.T) {
	est := Calculate(200000, 0, SchedulePersonal)
	for _, line := range est.Breakdown[2:] {
		assert.Equal(t, 0.0, line.AmountInBracket)
		assert.Equal(t, 0.0, line.Tax)
	}
}

func TestEstimateBillVATPercent(t *testing.T) {
	rec := billing.BillRecord{
		TotalAmount: 214,
		Adjustments: []billing.Adjustment{
			{Label: "VAT", Type: billing.AdjustmentPercent, Value: 7},
		},
	}
	assert.InDelta(t, 14.0, EstimateBillVAT(rec), 0.0001)
}

func TestEstimateBillVATFixed(t *testing.T) {
	rec := billing.BillRecord{
		TotalAmount: 250,
		Adjustments: []billing.Adjustment{
			{Label: "ภาษีมูลค่าเพิ่ม 7%", Type: billing.AdjustmentFixed, Value: 14},
		},
	}
	assert.Equal(t, 14.0, EstimateBillVAT(rec))
}

func TestEstimateBillVATFirstLabelWins(t *testing.T) {
	rec := billing.BillRecord{
		TotalAmount: 214,
		Adjustments: []billing.Adjustment{
			{Label: "Discount", Type: billing.AdjustmentPercent, Value: -5},
			{Label: "VAT", Type: billing.AdjustmentFixed, Value: 10},
			{Label: "VAT extra", Type: billing.AdjustmentFixed, Value: 99},
		},
	}
	assert.Equal(t, 10.0, EstimateBillVAT(rec))
}

func TestEstimateBillVATNoVATAdjustment(t *testing.T) {
	rec := billing.BillRecord{
		TotalAmount: 500,
		Adjustments: []billing.Adjustment{
			{Label: "Service charge", Type: billing.AdjustmentPercent, Value: 10},
		},
	}
	assert.Equal(t, 0.0, EstimateBillVAT(rec))
}
