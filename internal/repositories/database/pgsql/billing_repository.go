package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/quarryworks/quarrybooks/internal/apperrors"
	"github.com/quarryworks/quarrybooks/internal/core/domain"
	portsrepo "github.com/quarryworks/quarrybooks/internal/core/ports/repositories"
	"github.com/quarryworks/quarrybooks/internal/models"
	"github.com/quarryworks/quarrybooks/internal/utils/mapping"
	"github.com/quarryworks/quarrybooks/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const customerColumns = `customer_id, name, phone, credit_limit, outstanding_balance, is_active, version, created_at, created_by, last_updated_at, last_updated_by`

const invoiceColumns = `invoice_id, invoice_no, customer_id, source_ref, invoice_date, due_date, sub_total, vat_amount, total_amount, paid_amount, prepayment_applied, status, journal_id, version, created_at, created_by, last_updated_at, last_updated_by`

const prepaymentColumns = `prepayment_id, customer_id, reference, amount, used_amount, status, version, created_at, created_by, last_updated_at, last_updated_by`

type PgxBillingRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxBillingRepository creates a new repository for customer, invoice and
// prepayment data.
func newPgxBillingRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.BillingRepositoryFacade {
	return &PgxBillingRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.BillingRepositoryFacade = (*PgxBillingRepository)(nil)

func scanCustomer(row pgx.Row) (models.Customer, error) {
	var m models.Customer
	err := row.Scan(
		&m.CustomerID,
		&m.Name,
		&m.Phone,
		&m.CreditLimit,
		&m.OutstandingBalance,
		&m.IsActive,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.InvoiceNo,
		&m.CustomerID,
		&m.SourceRef,
		&m.InvoiceDate,
		&m.DueDate,
		&m.SubTotal,
		&m.VATAmount,
		&m.TotalAmount,
		&m.PaidAmount,
		&m.PrepaymentApplied,
		&m.Status,
		&m.JournalID,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanPrepayment(row pgx.Row) (models.CustomerPrepayment, error) {
	var m models.CustomerPrepayment
	err := row.Scan(
		&m.PrepaymentID,
		&m.CustomerID,
		&m.Reference,
		&m.Amount,
		&m.UsedAmount,
		&m.Status,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveCustomer persists a new customer.
func (r *PgxBillingRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)

	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CustomerID,
		m.Name,
		m.Phone,
		m.CreditLimit,
		m.OutstandingBalance,
		m.IsActive,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if translated := translateConstraintErr(err); errors.Is(translated, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: customer %s already exists", apperrors.ErrDuplicate, m.CustomerID)
		}
		return fmt.Errorf("failed to save customer %s: %w", m.CustomerID, err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by ID.
func (r *PgxBillingRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`

	m, err := scanCustomer(r.Pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID %s: %w", customerID, err)
	}

	d := mapping.ToDomainCustomer(m)
	return &d, nil
}

// ListCustomers retrieves all customers ordered by name.
func (r *PgxBillingRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		m, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, mapping.ToDomainCustomer(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}

	return customers, nil
}

// FindInvoiceByID retrieves an invoice by ID.
func (r *PgxBillingRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`

	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}

	d := mapping.ToDomainInvoice(m)
	return &d, nil
}

// ListInvoices retrieves a paginated list of invoices, newest first, optionally
// filtered by customer and status.
func (r *PgxBillingRepository) ListInvoices(ctx context.Context, customerID string, status string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	args := []interface{}{}

	if customerID != "" {
		args = append(args, customerID)
		query += " AND customer_id = $" + strconv.Itoa(len(args))
	}
	if status != "" {
		args = append(args, status)
		query += " AND status = $" + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastInvoiceDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastInvoiceDate, lastCreatedAt)
		query += fmt.Sprintf(" AND (invoice_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, fetchLimit)
	query += " ORDER BY invoice_date DESC, created_at DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoiceModels := make([]models.Invoice, 0, fetchLimit)
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoiceModels = append(invoiceModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}

	var nextTokenVal *string
	if len(invoiceModels) > limit {
		last := invoiceModels[limit-1]
		token := pagination.EncodeToken(last.InvoiceDate, last.CreatedAt)
		nextTokenVal = &token
		invoiceModels = invoiceModels[:limit]
	}

	return mapping.ToDomainInvoiceSlice(invoiceModels), nextTokenVal, nil
}

// FindPrepaymentByID retrieves a prepayment by ID.
func (r *PgxBillingRepository) FindPrepaymentByID(ctx context.Context, prepaymentID string) (*domain.CustomerPrepayment, error) {
	query := `SELECT ` + prepaymentColumns + ` FROM customer_prepayments WHERE prepayment_id = $1;`

	m, err := scanPrepayment(r.Pool.QueryRow(ctx, query, prepaymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find prepayment by ID %s: %w", prepaymentID, err)
	}

	d := mapping.ToDomainPrepayment(m)
	return &d, nil
}

// FindApplicationsByPrepaymentID retrieves the application records of a prepayment.
func (r *PgxBillingRepository) FindApplicationsByPrepaymentID(ctx context.Context, prepaymentID string) ([]domain.PrepaymentApplication, error) {
	query := `
		SELECT application_id, prepayment_id, invoice_id, applied_amount, applied_at, applied_by
		FROM prepayment_applications
		WHERE prepayment_id = $1
		ORDER BY applied_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, prepaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications for prepayment %s: %w", prepaymentID, err)
	}
	defer rows.Close()

	applicationModels := []models.PrepaymentApplication{}
	for rows.Next() {
		var m models.PrepaymentApplication
		err := rows.Scan(
			&m.ApplicationID,
			&m.PrepaymentID,
			&m.InvoiceID,
			&m.AppliedAmount,
			&m.AppliedAt,
			&m.AppliedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row for prepayment %s: %w", prepaymentID, err)
		}
		applicationModels = append(applicationModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows for prepayment %s: %w", prepaymentID, err)
	}

	return mapping.ToDomainPrepaymentApplicationSlice(applicationModels), nil
}

// insertInvoiceInTx inserts an invoice row inside the caller's transaction.
func insertInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, query,
		m.InvoiceID,
		m.InvoiceNo,
		m.CustomerID,
		m.SourceRef,
		m.InvoiceDate,
		m.DueDate,
		m.SubTotal,
		m.VATAmount,
		m.TotalAmount,
		m.PaidAmount,
		m.PrepaymentApplied,
		m.Status,
		m.JournalID,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice %s: %w", m.InvoiceID, translateConstraintErr(err))
	}
	return nil
}

// updateInvoiceInTx persists new invoice amounts and status, guarded on the
// version the caller read. A stale version affects no rows and surfaces as a
// concurrency error so the surrounding transaction rolls back.
func updateInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	query := `
		UPDATE invoices
		SET paid_amount = $2, prepayment_applied = $3, status = $4,
		    version = version + 1, last_updated_at = $5, last_updated_by = $6
		WHERE invoice_id = $1 AND version = $7;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.InvoiceID,
		m.PaidAmount,
		m.PrepaymentApplied,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", m.InvoiceID, translateConstraintErr(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s was modified concurrently", apperrors.ErrConcurrency, m.InvoiceID)
	}
	return nil
}

// updateCustomerBalanceInTx persists a customer's outstanding balance, guarded
// on the version the caller read.
func updateCustomerBalanceInTx(ctx context.Context, tx pgx.Tx, customer domain.Customer, userID string) error {
	m := mapping.ToModelCustomer(customer)

	query := `
		UPDATE customers
		SET outstanding_balance = $2, version = version + 1, last_updated_at = now(), last_updated_by = $3
		WHERE customer_id = $1 AND version = $4;
	`
	cmdTag, err := tx.Exec(ctx, query, m.CustomerID, m.OutstandingBalance, userID, m.Version)
	if err != nil {
		return fmt.Errorf("failed to update customer %s balance: %w", m.CustomerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %s was modified concurrently", apperrors.ErrConcurrency, m.CustomerID)
	}
	return nil
}

// updatePrepaymentInTx persists a prepayment's used amount and status, guarded
// on the version the caller read.
func updatePrepaymentInTx(ctx context.Context, tx pgx.Tx, prepayment domain.CustomerPrepayment) error {
	m := mapping.ToModelPrepayment(prepayment)

	query := `
		UPDATE customer_prepayments
		SET used_amount = $2, status = $3, version = version + 1, last_updated_at = $4, last_updated_by = $5
		WHERE prepayment_id = $1 AND version = $6;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.PrepaymentID,
		m.UsedAmount,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update prepayment %s: %w", m.PrepaymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: prepayment %s was modified concurrently", apperrors.ErrConcurrency, m.PrepaymentID)
	}
	return nil
}

// CreateInvoice inserts the invoice, bumps the customer's outstanding balance
// and posts the receivable journal in one transaction.
func (r *PgxBillingRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, customer domain.Customer, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	entryNo, err := saveJournalInTx(ctx, tx, r.accountRepo, journal, lines, balanceChanges)
	if err != nil {
		return 0, err
	}
	if err := insertInvoiceInTx(ctx, tx, invoice); err != nil {
		return 0, err
	}
	if err := updateCustomerBalanceInTx(ctx, tx, customer, invoice.CreatedBy); err != nil {
		return 0, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return entryNo, nil
}

// UpdateInvoicePayment applies a payment: updates the invoice, decreases the
// customer's outstanding balance and posts the settlement journal.
func (r *PgxBillingRepository) UpdateInvoicePayment(ctx context.Context, invoice domain.Invoice, customer domain.Customer, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	entryNo, err := saveJournalInTx(ctx, tx, r.accountRepo, journal, lines, balanceChanges)
	if err != nil {
		return 0, err
	}
	if err := updateInvoiceInTx(ctx, tx, invoice); err != nil {
		return 0, err
	}
	if err := updateCustomerBalanceInTx(ctx, tx, customer, invoice.LastUpdatedBy); err != nil {
		return 0, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return entryNo, nil
}

// SavePrepayment inserts a prepayment and posts its receipt journal.
func (r *PgxBillingRepository) SavePrepayment(ctx context.Context, prepayment domain.CustomerPrepayment, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	entryNo, err := saveJournalInTx(ctx, tx, r.accountRepo, journal, lines, balanceChanges)
	if err != nil {
		return 0, err
	}

	m := mapping.ToModelPrepayment(prepayment)
	query := `
		INSERT INTO customer_prepayments (` + prepaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		m.PrepaymentID,
		m.CustomerID,
		m.Reference,
		m.Amount,
		m.UsedAmount,
		m.Status,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert prepayment %s: %w", m.PrepaymentID, translateConstraintErr(err))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return entryNo, nil
}

// ApplyPrepayment records a prepayment drawdown: inserts the application row,
// updates the invoice and prepayment, decreases the customer's outstanding
// balance and posts the application journal.
func (r *PgxBillingRepository) ApplyPrepayment(ctx context.Context, invoice domain.Invoice, prepayment domain.CustomerPrepayment, application domain.PrepaymentApplication, customer domain.Customer, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	entryNo, err := saveJournalInTx(ctx, tx, r.accountRepo, journal, lines, balanceChanges)
	if err != nil {
		return 0, err
	}
	if err := updateInvoiceInTx(ctx, tx, invoice); err != nil {
		return 0, err
	}
	if err := updatePrepaymentInTx(ctx, tx, prepayment); err != nil {
		return 0, err
	}
	if err := updateCustomerBalanceInTx(ctx, tx, customer, application.AppliedBy); err != nil {
		return 0, err
	}

	am := mapping.ToModelPrepaymentApplication(application)
	query := `
		INSERT INTO prepayment_applications (application_id, prepayment_id, invoice_id, applied_amount, applied_at, applied_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, query,
		am.ApplicationID,
		am.PrepaymentID,
		am.InvoiceID,
		am.AppliedAmount,
		am.AppliedAt,
		am.AppliedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert prepayment application %s: %w", am.ApplicationID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return entryNo, nil
}

// CancelInvoice marks the invoice cancelled, decreases the customer's
// outstanding balance, posts the reversing journal and flips the original
// journal to reversed with its linkage.
func (r *PgxBillingRepository) CancelInvoice(ctx context.Context, invoice domain.Invoice, customer domain.Customer, originalJournalID string, reversingJournal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	entryNo, err := saveJournalInTx(ctx, tx, r.accountRepo, reversingJournal, lines, balanceChanges)
	if err != nil {
		return 0, err
	}
	if err := updateJournalStatusInTx(ctx, tx, originalJournalID, domain.Reversed, &reversingJournal.JournalID, nil, invoice.LastUpdatedBy, invoice.LastUpdatedAt); err != nil {
		return 0, err
	}
	if err := updateInvoiceInTx(ctx, tx, invoice); err != nil {
		return 0, err
	}
	if err := updateCustomerBalanceInTx(ctx, tx, customer, invoice.LastUpdatedBy); err != nil {
		return 0, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return entryNo, nil
}

// UpdateInvoiceStatus persists a re-derived invoice status, guarded on the
// invoice's version stamp.
func (r *PgxBillingRepository) UpdateInvoiceStatus(ctx context.Context, invoice domain.Invoice, updatedByUserID string) error {
	m := mapping.ToModelInvoice(invoice)

	query := `
		UPDATE invoices
		SET status = $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE invoice_id = $1 AND version = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.InvoiceID, m.Status, m.LastUpdatedAt, updatedByUserID, m.Version)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s status: %w", m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s was modified concurrently", apperrors.ErrConcurrency, m.InvoiceID)
	}
	return nil
}
