package paye

import (
	"github.com/shopspring/decimal"
)

// band is one step of the progressive PAYE schedule. Widths are cumulative band
// widths in Naira, not upper limits.
type band struct {
	Width decimal.Decimal
	Rate  decimal.Decimal
}

// Nigerian PAYE schedule. The statutory table lists a 24% rate for income above
// the last band, but the legacy payroll calculator stops accruing once the
// defined bands are exhausted, so income beyond the cumulative 3,200,000 pays
// no further tax. That behaviour is preserved here pending domain confirmation.
var bands = []band{
	{Width: decimal.NewFromInt(300000), Rate: decimal.NewFromFloat(0.07)},
	{Width: decimal.NewFromInt(300000), Rate: decimal.NewFromFloat(0.11)},
	{Width: decimal.NewFromInt(500000), Rate: decimal.NewFromFloat(0.15)},
	{Width: decimal.NewFromInt(500000), Rate: decimal.NewFromFloat(0.19)},
	{Width: decimal.NewFromInt(1600000), Rate: decimal.NewFromFloat(0.21)},
}

var (
	pensionEmployeeRate = decimal.NewFromFloat(0.08)
	pensionEmployerRate = decimal.NewFromFloat(0.10)
	nhisRate            = decimal.NewFromFloat(0.05)
	nhfRate             = decimal.NewFromFloat(0.025)
	twelve              = decimal.NewFromInt(12)
)

// CalculatePAYE computes the annual progressive PAYE tax for an annual gross
// salary. Pure; returns zero for non-positive input.
func CalculatePAYE(annualGross decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	remaining := annualGross
	for _, b := range bands {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		taxable := decimal.Min(remaining, b.Width)
		tax = tax.Add(taxable.Mul(b.Rate))
		remaining = remaining.Sub(taxable)
	}
	return tax
}

// MonthlyPAYE annualizes a monthly gross, applies the schedule and divides back.
func MonthlyPAYE(monthlyGross decimal.Decimal) decimal.Decimal {
	return CalculatePAYE(monthlyGross.Mul(twelve)).Div(twelve)
}

// PensionEmployee is the 8% employee pension contribution on basic + housing.
func PensionEmployee(basic, housing decimal.Decimal) decimal.Decimal {
	return basic.Add(housing).Mul(pensionEmployeeRate)
}

// PensionEmployer is the 10% employer pension contribution on basic + housing.
func PensionEmployer(basic, housing decimal.Decimal) decimal.Decimal {
	return basic.Add(housing).Mul(pensionEmployerRate)
}

// NHIS is the 5% National Health Insurance Scheme contribution on basic.
func NHIS(basic decimal.Decimal) decimal.Decimal {
	return basic.Mul(nhisRate)
}

// NHF is the 2.5% National Housing Fund contribution on basic.
func NHF(basic decimal.Decimal) decimal.Decimal {
	return basic.Mul(nhfRate)
}
