package tax

import "math"

// Schedule selects a bracket table.
type Schedule string

const (
	SchedulePersonal  Schedule = "personal"
	ScheduleCorporate Schedule = "corporate"
)

// Bracket is one tier of a progressive tax table. Max is +Inf for the
// unbounded top tier. Rate is a fraction in [0,1].
type Bracket struct {
	Min  float64
	Max  float64
	Rate float64
}

// Thai personal income tax, progressive 0-35%.
var personalBrackets = []Bracket{
	{Min: 0, Max: 150000, Rate: 0},
	{Min: 150001, Max: 300000, Rate: 0.05},
	{Min: 300001, Max: 500000, Rate: 0.10},
	{Min: 500001, Max: 750000, Rate: 0.15},
	{Min: 750001, Max: 1000000, Rate: 0.20},
	{Min: 1000001, Max: 2000000, Rate: 0.25},
	{Min: 2000001, Max: 5000000, Rate: 0.30},
	{Min: 5000001, Max: math.Inf(1), Rate: 0.35},
}

// Thai corporate income tax, SME tiering.
var corporateBrackets = []Bracket{
	{Min: 0, Max: 300000, Rate: 0},
	{Min: 300001, Max: 3000000, Rate: 0.15},
	{Min: 3000001, Max: math.Inf(1), Rate: 0.20},
}

// DefaultPersonalDeduction is the standard deduction applied when the caller
// does not supply one.
const DefaultPersonalDeduction = 60000

// BracketLine is one row of the estimate breakdown. Brackets above the
// taxable income still appear with zero amounts so the full table renders.
type BracketLine struct {
	Bracket         string  `json:"bracket"`
	Rate            string  `json:"rate"`
	AmountInBracket float64 `json:"amount_in_bracket"`
	Tax             float64 `json:"tax"`
}

// Estimate is the result of a bracket tax calculation.
type Estimate struct {
	TaxableIncome float64       `json:"taxable_income"`
	TotalTax      float64       `json:"total_tax"`
	Breakdown     []BracketLine `json:"tax_breakdown"`
}

// Stats aggregates a year of income, expenses and collected VAT.
type Stats struct {
	Year           int     `json:"year"`
	TotalIncome    float64 `json:"total_income"`
	TotalExpenses  float64 `json:"total_expenses"`
	TotalOutputVat float64 `json:"total_output_vat"`
}
