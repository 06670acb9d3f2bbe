package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// DebitIncreases reports whether a debit posting increases the balance of this
// account type (the account's normal side is debit).
func (t AccountType) DebitIncreases() bool {
	return t == Asset || t == Expense
}

// Account represents one entry in the chart of accounts.
// Balance is the algebraic sum of all posted lines against it, per its normal side.
type Account struct {
	AccountID   string          `json:"accountID"`   // Primary Key (UUID)
	Code        string          `json:"code"`        // Chart-of-accounts code, unique (e.g. "1100")
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"` // ASSET, LIABILITY, etc.
	SubType     string          `json:"subType"`     // Optional classification (e.g. "CURRENT_ASSET")
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`    // Accounts referenced by posted lines are deactivated, never deleted
	AuditFields
	Balance decimal.Decimal `json:"balance"` // Mutated only through journal posting
}
