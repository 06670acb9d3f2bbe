package paye

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculatePAYE(t *testing.T) {
	tests := []struct {
		name        string
		annualGross string
		expected    string
	}{
		{"zero income", "0", "0"},
		{"negative income", "-1000", "0"},
		{"within first band", "150000", "10500"},    // 150000 * 7%
		{"exactly first band", "300000", "21000"},   // 300000 * 7%
		{"exactly second band", "600000", "54000"},  // 21000 + 300000*11%
		{"partial third band", "800000", "84000"},   // 54000 + 200000*15%
		{"exactly third band", "1100000", "129000"}, // 54000 + 500000*15%
		{"exactly fourth band", "1600000", "224000"},
		{"mid fifth band", "1560000", "216400"}, // 129000 + 460000*19%
		{"exactly last band", "3200000", "560000"},
		// The legacy schedule stops accruing once the defined bands are exhausted.
		{"above last band", "5000000", "560000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross := decimal.RequireFromString(tt.annualGross)
			expected := decimal.RequireFromString(tt.expected)
			got := CalculatePAYE(gross)
			assert.True(t, expected.Equal(got), "expected %s, got %s", expected, got)
		})
	}
}

func TestMonthlyPAYE(t *testing.T) {
	// 130000/month -> 1560000/year -> 216400 annual tax.
	monthly := MonthlyPAYE(decimal.NewFromInt(130000))
	expected := decimal.RequireFromString("216400").Div(decimal.NewFromInt(12))
	assert.True(t, expected.Equal(monthly), "expected %s, got %s", expected, monthly)
}

func TestStatutoryDeductions(t *testing.T) {
	basic := decimal.NewFromInt(100000)
	housing := decimal.NewFromInt(20000)

	assert.True(t, decimal.NewFromInt(9600).Equal(PensionEmployee(basic, housing)))
	assert.True(t, decimal.NewFromInt(12000).Equal(PensionEmployer(basic, housing)))
	assert.True(t, decimal.NewFromInt(5000).Equal(NHIS(basic)))
	assert.True(t, decimal.NewFromInt(2500).Equal(NHF(basic)))
}
