package repositories

import (
	"context"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals using token-based
	// pagination. It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists a journal and its lines and applies the balance
	// changes to the locked accounts, all within one database transaction.
	// It returns the entry number assigned from the posting sequence.
	SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error)

	// ReverseJournal persists the reversing journal with its lines and balance
	// changes and marks the original journal Reversed with the linkage set, all
	// within one database transaction. It returns the entry number assigned to
	// the reversing journal.
	ReverseJournal(ctx context.Context, originalJournalID string, reversingJournal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error)
}

// JournalLineReader defines read operations for journal line data
type JournalLineReader interface {
	// FindLinesByJournalID retrieves all lines of a single journal.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// ListLinesByAccountID retrieves a paginated list of lines posted against a
	// specific account using token-based pagination.
	ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalLineReader
	TransactionManager
}
