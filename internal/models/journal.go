package models

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

// Journal represents a row of the journals table.
type Journal struct {
	JournalID          string          `db:"journal_id"`
	EntryNo            int64           `db:"entry_no"` // Assigned from a sequence at insert
	JournalDate        time.Time       `db:"journal_date"`
	Description        string          `db:"description"`
	Source             string          `db:"source"` // MANUAL / PAYROLL / BILLING
	Status             JournalStatus   `db:"status"`
	OriginalJournalID  *string         `db:"original_journal_id"`  // Nullable
	ReversingJournalID *string         `db:"reversing_journal_id"` // Nullable
	Amount             decimal.Decimal `db:"amount"`
	AuditFields
}

// JournalLine represents a row of the journal_lines table.
// Exactly one of debit/credit is positive; enforced at the service layer and by
// a table CHECK constraint.
type JournalLine struct {
	LineID         string          `db:"line_id"`
	JournalID      string          `db:"journal_id"`
	AccountID      string          `db:"account_id"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	Notes          string          `db:"notes"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	AuditFields
}
