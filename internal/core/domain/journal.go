package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// SourceModule identifies which part of the system emitted a journal.
type SourceModule string

const (
	SourceManual  SourceModule = "MANUAL"
	SourcePayroll SourceModule = "PAYROLL"
	SourceBilling SourceModule = "BILLING"
)

// Journal represents a single, balanced financial event composed of multiple lines.
// Immutable once posted; reversals are expressed as a new mirror journal.
type Journal struct {
	JournalID          string        `json:"journalID"` // Primary Key (UUID)
	EntryNo            int64         `json:"entryNo"`   // Monotonic entry number, assigned at posting
	JournalDate        time.Time     `json:"journalDate"`
	Description        string        `json:"description"`
	Source             SourceModule  `json:"source"`
	Status             JournalStatus `json:"status"`
	OriginalJournalID  *string       `json:"originalJournalID,omitempty"`  // Set on a reversing journal
	ReversingJournalID *string       `json:"reversingJournalID,omitempty"` // Set on a reversed journal
	Amount             decimal.Decimal `json:"amount"`                     // Sum of the debit side
	Lines              []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is a single line within a journal, affecting one account.
// Exactly one of Debit/Credit is positive; the other is zero.
type JournalLine struct {
	LineID         string          `json:"lineID"`
	JournalID      string          `json:"journalID"`
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Notes          string          `json:"notes"`
	RunningBalance decimal.Decimal `json:"runningBalance"` // Account balance after this line was applied
	AuditFields
}

// IsDebit reports whether the line's populated side is the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the populated side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}
