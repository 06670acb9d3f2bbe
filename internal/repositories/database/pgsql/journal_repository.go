package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/quarryworks/quarrybooks/internal/apperrors"
	"github.com/quarryworks/quarrybooks/internal/core/domain"
	portsrepo "github.com/quarryworks/quarrybooks/internal/core/ports/repositories"
	"github.com/quarryworks/quarrybooks/internal/models"
	"github.com/quarryworks/quarrybooks/internal/utils/accounting"
	"github.com/quarryworks/quarrybooks/internal/utils/mapping"
	"github.com/quarryworks/quarrybooks/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const journalColumns = `journal_id, entry_no, journal_date, description, source, status, original_journal_id, reversing_journal_id, amount, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, journal_id, account_id, debit, credit, notes, running_balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal and line data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// saveJournalInTx posts a journal inside the caller's transaction: it inserts
// the journal row (drawing the entry number from the posting sequence), locks
// the affected accounts, applies the balance deltas and inserts the lines with
// their running balances. Payroll and billing postings share this path so
// every journal in the ledger is written the same way.
func saveJournalInTx(ctx context.Context, tx pgx.Tx, accountRepo portsrepo.AccountBalanceTxOps, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	m := mapping.ToModelJournal(journal)

	journalQuery := `
		INSERT INTO journals (
			journal_id, journal_date, description, source, status,
			original_journal_id, reversing_journal_id, amount,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING entry_no;
	`
	var entryNo int64
	err := tx.QueryRow(ctx, journalQuery,
		m.JournalID,
		m.JournalDate,
		m.Description,
		m.Source,
		m.Status,
		m.OriginalJournalID,
		m.ReversingJournalID,
		m.Amount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&entryNo)
	if err != nil {
		return 0, fmt.Errorf("failed to insert journal %s: %w", m.JournalID, translateConstraintErr(err))
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	lockedAccounts, err := accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to lock accounts for posting: %w", err)
	}

	if err := accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, journal.CreatedBy, journal.CreatedAt); err != nil {
		return 0, fmt.Errorf("failed to update account balances: %w", err)
	}

	// Running balances start from the balance each locked account held before
	// this journal and advance line by line in a deterministic order.
	currentRunningBalances := make(map[string]decimal.Decimal, len(lockedAccounts))
	for accID, lockedAcc := range lockedAccounts {
		currentRunningBalances[accID] = lockedAcc.Balance
	}

	sorted := make([]domain.JournalLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LineID < sorted[j].LineID
	})

	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, line := range sorted {
		lockedAccount, ok := lockedAccounts[line.AccountID]
		if !ok {
			return 0, fmt.Errorf("%w: account %s missing from posting lock set", apperrors.ErrInternal, line.AccountID)
		}

		signedAmount, err := accounting.CalculateSignedAmount(line, lockedAccount.AccountType)
		if err != nil {
			return 0, fmt.Errorf("failed to calculate signed amount for line %s: %w", line.LineID, err)
		}

		newRunningBalance := currentRunningBalances[line.AccountID].Add(signedAmount)
		currentRunningBalances[line.AccountID] = newRunningBalance

		ml := mapping.ToModelJournalLine(line)
		ml.RunningBalance = newRunningBalance

		batch.Queue(lineQuery,
			ml.LineID,
			ml.JournalID,
			ml.AccountID,
			ml.Debit,
			ml.Credit,
			ml.Notes,
			ml.RunningBalance,
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to insert lines for journal %s: %w", m.JournalID, translateConstraintErr(err))
	}

	return entryNo, nil
}

// updateJournalStatusInTx flips a journal's status and reversal linkage inside
// the caller's transaction.
func updateJournalStatusInTx(ctx context.Context, tx pgx.Tx, journalID string, status domain.JournalStatus, reversingJournalID *string, originalJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET status = $2,
		    reversing_journal_id = COALESCE($3, reversing_journal_id),
		    original_journal_id = COALESCE($4, original_journal_id),
		    last_updated_at = $5, last_updated_by = $6
		WHERE journal_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, journalID, string(status), reversingJournalID, originalJournalID, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to update journal %s status: %w", journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveJournal posts a journal, its lines and balance changes in one database
// transaction, returning the assigned entry number.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	entryNo, err := saveJournalInTx(ctx, tx, r.accountRepo, journal, lines, balanceChanges)
	if err != nil {
		return 0, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return entryNo, nil
}

// ReverseJournal posts the reversing journal and marks the original Reversed
// with the linkage set, all in one database transaction so balances and
// status can never diverge.
func (r *PgxJournalRepository) ReverseJournal(ctx context.Context, originalJournalID string, reversingJournal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	entryNo, err := saveJournalInTx(ctx, tx, r.accountRepo, reversingJournal, lines, balanceChanges)
	if err != nil {
		return 0, err
	}

	if err := updateJournalStatusInTx(ctx, tx, originalJournalID, domain.Reversed, &reversingJournal.JournalID, nil, reversingJournal.CreatedBy, reversingJournal.CreatedAt); err != nil {
		return 0, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return entryNo, nil
}

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.EntryNo,
		&m.JournalDate,
		&m.Description,
		&m.Source,
		&m.Status,
		&m.OriginalJournalID,
		&m.ReversingJournalID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}

	d := mapping.ToDomainJournal(m)
	return &d, nil
}

// ListJournals retrieves a paginated list of journals using token-based
// pagination, newest first.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + journalColumns + ` FROM journals`
	whereClauses := []string{}
	args := []interface{}{}

	if !includeReversals {
		whereClauses = append(whereClauses, "original_journal_id IS NULL")
	}

	if nextToken != nil && *nextToken != "" {
		lastJournalDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastJournalDate, lastCreatedAt)
		whereClauses = append(whereClauses, fmt.Sprintf("(journal_date, created_at) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := baseQuery
	for i, clause := range whereClauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	args = append(args, fetchLimit)
	query += " ORDER BY journal_date DESC, created_at DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journals: %w", err)
	}
	defer rows.Close()

	journalModels := make([]models.Journal, 0, fetchLimit)
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		journalModels = append(journalModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal rows: %w", err)
	}

	var nextTokenVal *string
	if len(journalModels) > limit {
		last := journalModels[limit-1]
		token := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		nextTokenVal = &token
		journalModels = journalModels[:limit]
	}

	journals := make([]domain.Journal, len(journalModels))
	for i, m := range journalModels {
		journals[i] = mapping.ToDomainJournal(m)
	}
	return journals, nextTokenVal, nil
}

func scanJournalLine(row pgx.Row) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.JournalID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.Notes,
		&m.RunningBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindLinesByJournalID retrieves all lines of a single journal.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE journal_id = $1 ORDER BY line_id;`

	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for journal %s: %w", journalID, err)
	}
	defer rows.Close()

	lineModels := []models.JournalLine{}
	for rows.Next() {
		m, err := scanJournalLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for journal %s: %w", journalID, err)
		}
		lineModels = append(lineModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for journal %s: %w", journalID, err)
	}

	return mapping.ToDomainJournalLineSlice(lineModels), nil
}

// ListLinesByAccountID retrieves a paginated list of lines posted against a
// specific account, newest journal first.
func (r *PgxJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.journal_id, l.account_id, l.debit, l.credit, l.notes, l.running_balance,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by, j.journal_date
		FROM journal_lines l
		JOIN journals j ON l.journal_id = j.journal_id
		WHERE l.account_id = $1
	`
	orderByClause := `ORDER BY j.journal_date DESC, l.created_at DESC`

	args := []interface{}{accountID}
	if nextToken != nil && *nextToken != "" {
		lastJournalDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastJournalDate, lastCreatedAt)
		baseQuery += " AND (j.journal_date, l.created_at) < ($2, $3)"
	}
	args = append(args, fetchLimit)
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	type lineWithDate struct {
		line        models.JournalLine
		journalDate time.Time
	}
	scanned := make([]lineWithDate, 0, fetchLimit)
	for rows.Next() {
		var m models.JournalLine
		var journalDate time.Time
		err := rows.Scan(
			&m.LineID,
			&m.JournalID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&m.Notes,
			&m.RunningBalance,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&journalDate,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan line row for account %s: %w", accountID, err)
		}
		scanned = append(scanned, lineWithDate{line: m, journalDate: journalDate})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating line rows for account %s: %w", accountID, err)
	}

	var nextTokenVal *string
	if len(scanned) > limit {
		last := scanned[limit-1]
		token := pagination.EncodeToken(last.journalDate, last.line.CreatedAt)
		nextTokenVal = &token
		scanned = scanned[:limit]
	}

	lines := make([]domain.JournalLine, len(scanned))
	for i, s := range scanned {
		lines[i] = mapping.ToDomainJournalLine(s.line)
	}
	return lines, nextTokenVal, nil
}
