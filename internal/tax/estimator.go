package tax

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mateflow/mateflow/internal/billing"
)

var labelPrinter = message.NewPrinter(language.English)

// Calculate runs a progressive bracket calculation over netProfit minus
// deductions. Brackets are inclusive of Max; the effective floor of every
// bracket but the first is Min-1, so income at or below Min-1 does not fall
// into it. No rounding happens inside brackets; callers format for display.
func Calculate(netProfit, deductions float64, schedule Schedule) Estimate {
	brackets := personalBrackets
	if schedule == ScheduleCorporate {
		brackets = corporateBrackets
	}

	taxableIncome := math.Max(0, netProfit-deductions)

	var totalTax float64
	breakdown := make([]BracketLine, 0, len(brackets))

	for _, bracket := range brackets {
		lowerBound := bracket.Min - 1
		if bracket.Min == 0 {
			lowerBound = 0
		}

		line := BracketLine{
			Bracket: bracketLabel(bracket),
			Rate:    fmt.Sprintf("%.0f%%", bracket.Rate*100),
		}

		if taxableIncome > lowerBound {
			amount := taxableIncome - lowerBound
			if !math.IsInf(bracket.Max, 1) {
				amount = math.Min(taxableIncome, bracket.Max) - lowerBound
			}
			amount = math.Max(0, amount)
			line.AmountInBracket = amount
			line.Tax = amount * bracket.Rate
			totalTax += line.Tax
		}

		breakdown = append(breakdown, line)
	}

	return Estimate{TaxableIncome: taxableIncome, TotalTax: totalTax, Breakdown: breakdown}
}

func bracketLabel(b Bracket) string {
	if math.IsInf(b.Max, 1) {
		return labelPrinter.Sprintf("%.0f - MAX", b.Min)
	}
	return labelPrinter.Sprintf("%.0f - %.0f", b.Min, b.Max)
}

// vatLabels mark the adjustment that carries VAT; the Thai term is the
// literal used by the bill form.
var vatLabels = []string{"VAT", "ภาษีมูลค่าเพิ่ม"}

// EstimateBillVAT derives the VAT portion embedded in a bill total. Only the
// first VAT-labeled adjustment counts. For a percent adjustment the total is
// assumed to be subtotal*(1+rate/100), so vat = total - total/(1+rate/100).
// That assumption only holds exactly when VAT is the sole adjustment on the
// bill; multiple simultaneous percent adjustments are not untangled.
func EstimateBillVAT(rec billing.BillRecord) float64 {
	for _, adj := range rec.Adjustments {
		if !isVATLabel(adj.Label) {
			continue
		}
		if adj.Type == billing.AdjustmentPercent {
			subtotal := rec.TotalAmount / (1 + adj.Value/100)
			return rec.TotalAmount - subtotal
		}
		return adj.Value
	}
	return 0
}

func isVATLabel(label string) bool {
	for _, marker := range vatLabels {
		if strings.Contains(label, marker) {
			return true
		}
	}
	return false
}
