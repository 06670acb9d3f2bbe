package accounting

import (
	"testing"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debitLine(accountID string, amount int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: decimal.NewFromInt(amount)}
}

func creditLine(accountID string, amount int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Credit: decimal.NewFromInt(amount)}
}

func TestCalculateSignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		expected    int64
	}{
		{"debit to asset increases", debitLine("a", 100), domain.Asset, 100},
		{"credit to asset decreases", creditLine("a", 100), domain.Asset, -100},
		{"debit to expense increases", debitLine("a", 100), domain.Expense, 100},
		{"debit to liability decreases", debitLine("a", 100), domain.Liability, -100},
		{"credit to liability increases", creditLine("a", 100), domain.Liability, 100},
		{"credit to revenue increases", creditLine("a", 100), domain.Revenue, 100},
		{"debit to equity decreases", debitLine("a", 100), domain.Equity, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := CalculateSignedAmount(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.expected).Equal(signed))
		})
	}
}

func TestCalculateSignedAmountUnknownType(t *testing.T) {
	_, err := CalculateSignedAmount(debitLine("a", 100), domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

func TestValidateLine(t *testing.T) {
	assert.NoError(t, ValidateLine(debitLine("a", 50)))
	assert.NoError(t, ValidateLine(creditLine("a", 50)))

	// Both sides set.
	both := domain.JournalLine{AccountID: "a", Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(10)}
	assert.Error(t, ValidateLine(both))

	// Neither side set.
	neither := domain.JournalLine{AccountID: "a"}
	assert.Error(t, ValidateLine(neither))

	// Negative amount.
	negative := domain.JournalLine{AccountID: "a", Debit: decimal.NewFromInt(-5)}
	assert.Error(t, ValidateLine(negative))
}

func TestValidateJournalBalance(t *testing.T) {
	t.Run("balanced journal passes", func(t *testing.T) {
		lines := []domain.JournalLine{debitLine("cash", 500), creditLine("revenue", 500)}
		assert.NoError(t, ValidateJournalBalance(lines))
	})

	t.Run("multi-line balanced journal passes", func(t *testing.T) {
		lines := []domain.JournalLine{
			debitLine("expense", 130000),
			creditLine("paye", 18033),
			creditLine("net-pay", 111967),
		}
		assert.NoError(t, ValidateJournalBalance(lines))
	})

	t.Run("unbalanced journal fails", func(t *testing.T) {
		lines := []domain.JournalLine{debitLine("cash", 500), creditLine("revenue", 400)}
		assert.Error(t, ValidateJournalBalance(lines))
	})

	t.Run("single line fails", func(t *testing.T) {
		assert.Error(t, ValidateJournalBalance([]domain.JournalLine{debitLine("cash", 500)}))
	})

	t.Run("zero total fails", func(t *testing.T) {
		lines := []domain.JournalLine{
			{AccountID: "a", Debit: decimal.Zero},
			{AccountID: "b", Credit: decimal.Zero},
		}
		assert.Error(t, ValidateJournalBalance(lines))
	})
}
