package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quarryworks/quarrybooks/internal/apperrors"
	"github.com/quarryworks/quarrybooks/internal/core/domain"
	portsrepo "github.com/quarryworks/quarrybooks/internal/core/ports/repositories"
	portssvc "github.com/quarryworks/quarrybooks/internal/core/ports/services"
	"github.com/quarryworks/quarrybooks/internal/dto"
	"github.com/quarryworks/quarrybooks/internal/middleware"
	"github.com/quarryworks/quarrybooks/internal/utils/accounting"
)

var (
	ErrJournalMinAccounts = errors.New("journal must affect at least two different accounts")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrDescriptionMissing = errors.New("journal description is required")
	ErrNotPosted          = errors.New("journal must be posted to be reversed")
	ErrAlreadyReversal    = errors.New("cannot reverse a journal that is already a reversal")
)

// journalService provides the manual posting and ledger read operations.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournal validates and posts a new balanced journal entry.
func (s *journalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Description == "" {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrDescriptionMissing)
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()

	lines := make([]domain.JournalLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   lineReq.AccountID,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
			Notes:       lineReq.Notes,
			AuditFields: newAudit(creatorUserID, now),
			// RunningBalance is calculated and set by the repository
		}
		accountIDs = append(accountIDs, lineReq.AccountID)
	}

	// Double-entry checks: at least two lines, one positive side per line, and
	// debits equal to credits with a positive sum.
	if err := accounting.ValidateJournalBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	uniqueAccountIDs := uniqueStrings(accountIDs)
	if len(uniqueAccountIDs) < 2 {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrJournalMinAccounts)
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueAccountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for journal creation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	accountTypes := make(map[string]domain.AccountType, len(uniqueAccountIDs))
	for _, id := range uniqueAccountIDs {
		account, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: %v: %s", apperrors.ErrValidation, ErrAccountInactive, id)
		}
		accountTypes[id] = account.AccountType
	}

	balanceChanges, err := computeBalanceChanges(lines, accountTypes)
	if err != nil {
		return nil, err
	}

	journal := domain.Journal{
		JournalID:   journalID,
		JournalDate: req.Date,
		Description: req.Description,
		Source:      domain.SourceManual,
		Status:      domain.Posted,
		Amount:      journalAmount(lines),
		AuditFields: newAudit(creatorUserID, now),
	}

	entryNo, err := s.journalRepo.SaveJournal(ctx, journal, lines, balanceChanges)
	if err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}
	journal.EntryNo = entryNo

	logger.Info("Journal posted", slog.String("journal_id", journal.JournalID), slog.Int64("entry_no", entryNo))
	return &journal, nil
}

// GetJournalByID retrieves a journal together with its lines.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal by ID", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		}
		return nil, fmt.Errorf("failed to find journal %s: %w", journalID, err)
	}

	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch lines for journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to retrieve lines for journal %s: %w", journalID, apperrors.ErrInternal)
	}
	journal.Lines = lines

	return journal, nil
}

// ListJournals retrieves a paginated list of journals.
func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	journals, nextToken, err := s.journalRepo.ListJournals(ctx, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		logger.Error("Failed to list journals from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}

	journalResponses := make([]dto.JournalResponse, len(journals))
	for i := range journals {
		if params.IncludeLines {
			lines, err := s.journalRepo.FindLinesByJournalID(ctx, journals[i].JournalID)
			if err != nil {
				logger.Warn("Failed to fetch lines for journal listing", "journal_id", journals[i].JournalID, "error", err)
			} else {
				journals[i].Lines = lines
			}
		}
		journalResponses[i] = dto.ToJournalResponse(&journals[i])
	}

	return &dto.ListJournalsResponse{
		Journals:  journalResponses,
		NextToken: nextToken,
	}, nil
}

// ListLinesByAccount retrieves the posted lines of one account, paginated.
func (s *journalService) ListLinesByAccount(ctx context.Context, accountID string, params dto.ListJournalLinesParams) (*dto.ListJournalLinesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Confirm the account exists so a bad ID surfaces as 404, not an empty page.
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	lines, nextToken, err := s.journalRepo.ListLinesByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list account lines from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve account lines: %w", err)
	}

	return &dto.ListJournalLinesResponse{
		Lines:     dto.ToJournalLineResponses(lines),
		NextToken: nextToken,
	}, nil
}

// ReverseJournal posts the mirror image of a posted journal and links the pair.
func (s *journalService) ReverseJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to fetch original journal for reversal", "error", err)
		return nil, fmt.Errorf("failed to retrieve original journal: %w", err)
	}

	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %v: status is %s", apperrors.ErrConflict, ErrNotPosted, original.Status)
	}
	if original.OriginalJournalID != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrAlreadyReversal)
	}

	originalLines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch original lines for reversal", "error", err)
		return nil, fmt.Errorf("failed to retrieve original lines: %w", err)
	}

	now := time.Now().UTC()
	newJournalID := uuid.NewString()

	reversingLines := make([]domain.JournalLine, len(originalLines))
	accountIDs := make([]string, 0, len(originalLines))
	for i, origLine := range originalLines {
		accountIDs = append(accountIDs, origLine.AccountID)
		reversingLines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   newJournalID,
			AccountID:   origLine.AccountID,
			Debit:       origLine.Credit,
			Credit:      origLine.Debit,
			Notes:       origLine.Notes,
			AuditFields: newAudit(userID, now),
		}
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		logger.Error("Failed to fetch accounts for reversal balance calculation", "error", err)
		return nil, fmt.Errorf("failed to get account details for reversal: %w", err)
	}
	accountTypes := make(map[string]domain.AccountType, len(accountsMap))
	for id, account := range accountsMap {
		accountTypes[id] = account.AccountType
	}

	balanceChanges, err := computeBalanceChanges(reversingLines, accountTypes)
	if err != nil {
		return nil, err
	}

	reversingJournal := domain.Journal{
		JournalID:         newJournalID,
		JournalDate:       original.JournalDate,
		Description:       fmt.Sprintf("Reversal of: %s", original.Description),
		Source:            original.Source,
		Status:            domain.Posted,
		OriginalJournalID: &original.JournalID,
		Amount:            original.Amount,
		AuditFields:       newAudit(userID, now),
	}

	entryNo, err := s.journalRepo.ReverseJournal(ctx, original.JournalID, reversingJournal, reversingLines, balanceChanges)
	if err != nil {
		logger.Error("Failed to post reversal", "original_journal_id", original.JournalID, "error", err)
		return nil, fmt.Errorf("failed to reverse journal: %w", err)
	}
	reversingJournal.EntryNo = entryNo

	logger.Info("Journal reversed", "original_journal_id", original.JournalID, "reversing_journal_id", newJournalID)
	return &reversingJournal, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
