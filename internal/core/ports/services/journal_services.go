package services

import (
	"context"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/quarryworks/quarrybooks/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal with its lines.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateJournal validates and posts a new balanced journal entry.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)

	// ReverseJournal posts a mirror-image journal for an existing posted journal
	// and links the two.
	ReverseJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error)
}

// LedgerReaderSvc defines read operations over posted journal lines
type LedgerReaderSvc interface {
	// ListLinesByAccount retrieves the ledger of one account, paginated.
	ListLinesByAccount(ctx context.Context, accountID string, params dto.ListJournalLinesParams) (*dto.ListJournalLinesResponse, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	LedgerReaderSvc
}
