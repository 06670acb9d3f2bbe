package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quarryworks/quarrybooks/internal/apperrors"
	"github.com/quarryworks/quarrybooks/internal/core/domain"
	portsrepo "github.com/quarryworks/quarrybooks/internal/core/ports/repositories"
	"github.com/quarryworks/quarrybooks/internal/models"
	"github.com/quarryworks/quarrybooks/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const employeeColumns = `employee_id, staff_no, first_name, last_name, basic_salary, housing_allowance, transport_allowance, other_allowances, status, created_at, created_by, last_updated_at, last_updated_by`

const runColumns = `run_id, period_year, period_month, status, total_gross, total_paye, total_pension, total_nhis, total_nhf, total_net, employee_count, journal_id, processed_at, paid_at, created_at, created_by, last_updated_at, last_updated_by`

const salaryColumns = `salary_id, run_id, employee_id, basic_salary, housing, transport, other, gross, paye, pension_employee, pension_employer, nhis, nhf, net, created_at, created_by, last_updated_at, last_updated_by`

type PgxPayrollRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxPayrollRepository creates a new repository for employee and payroll run data.
func newPgxPayrollRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.PayrollRepositoryFacade {
	return &PgxPayrollRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var m models.Employee
	err := row.Scan(
		&m.EmployeeID,
		&m.StaffNo,
		&m.FirstName,
		&m.LastName,
		&m.BasicSalary,
		&m.HousingAllowance,
		&m.TransportAllowance,
		&m.OtherAllowances,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveEmployee inserts a new employee.
func (r *PgxPayrollRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	m := mapping.ToModelEmployee(employee)

	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EmployeeID,
		m.StaffNo,
		m.FirstName,
		m.LastName,
		m.BasicSalary,
		m.HousingAllowance,
		m.TransportAllowance,
		m.OtherAllowances,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if translated := translateConstraintErr(err); errors.Is(translated, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: staff number %s already exists", apperrors.ErrDuplicate, m.StaffNo)
		}
		return fmt.Errorf("failed to save employee %s: %w", m.EmployeeID, err)
	}
	return nil
}

// FindEmployeeByID retrieves an employee by ID.
func (r *PgxPayrollRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = $1;`

	m, err := scanEmployee(r.Pool.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find employee by ID %s: %w", employeeID, err)
	}

	d := mapping.ToDomainEmployee(m)
	return &d, nil
}

// FindEmployeesByIDs retrieves multiple employees, keyed by employee ID.
func (r *PgxPayrollRepository) FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error) {
	if len(employeeIDs) == 0 {
		return map[string]domain.Employee{}, nil
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees by IDs: %w", err)
	}
	defer rows.Close()

	employees := make(map[string]domain.Employee)
	for rows.Next() {
		m, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee row during batch fetch: %w", err)
		}
		employees[m.EmployeeID] = mapping.ToDomainEmployee(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employee rows during batch fetch: %w", err)
	}

	return employees, nil
}

// ListEmployees retrieves all employees ordered by staff number.
func (r *PgxPayrollRepository) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY staff_no;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employeeModels := []models.Employee{}
	for rows.Next() {
		m, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		employeeModels = append(employeeModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employee rows: %w", err)
	}

	return mapping.ToDomainEmployeeSlice(employeeModels), nil
}

func scanPayrollRun(row pgx.Row) (models.PayrollRun, error) {
	var m models.PayrollRun
	err := row.Scan(
		&m.RunID,
		&m.PeriodYear,
		&m.PeriodMonth,
		&m.Status,
		&m.TotalGross,
		&m.TotalPAYE,
		&m.TotalPension,
		&m.TotalNHIS,
		&m.TotalNHF,
		&m.TotalNet,
		&m.EmployeeCount,
		&m.JournalID,
		&m.ProcessedAt,
		&m.PaidAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindRunByID retrieves a payroll run without its salary snapshots.
func (r *PgxPayrollRepository) FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE run_id = $1;`

	m, err := scanPayrollRun(r.Pool.QueryRow(ctx, query, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payroll run by ID %s: %w", runID, err)
	}

	d := mapping.ToDomainPayrollRun(m)
	return &d, nil
}

// FindRunByPeriod retrieves the run of one period, if any.
func (r *PgxPayrollRepository) FindRunByPeriod(ctx context.Context, periodYear int, periodMonth time.Month) (*domain.PayrollRun, error) {
	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE period_year = $1 AND period_month = $2;`

	m, err := scanPayrollRun(r.Pool.QueryRow(ctx, query, periodYear, int(periodMonth)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payroll run for period %d-%02d: %w", periodYear, int(periodMonth), err)
	}

	d := mapping.ToDomainPayrollRun(m)
	return &d, nil
}

// ListRuns retrieves all runs of a period year, newest first.
func (r *PgxPayrollRepository) ListRuns(ctx context.Context, periodYear int) ([]domain.PayrollRun, error) {
	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE period_year = $1 ORDER BY period_month DESC;`

	rows, err := r.Pool.Query(ctx, query, periodYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll runs for year %d: %w", periodYear, err)
	}
	defer rows.Close()

	runs := []domain.PayrollRun{}
	for rows.Next() {
		m, err := scanPayrollRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll run row: %w", err)
		}
		runs = append(runs, mapping.ToDomainPayrollRun(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payroll run rows: %w", err)
	}

	return runs, nil
}

// FindSalariesByRunID retrieves the salary snapshots belonging to a run.
func (r *PgxPayrollRepository) FindSalariesByRunID(ctx context.Context, runID string) ([]domain.EmployeeSalary, error) {
	query := `SELECT ` + salaryColumns + ` FROM employee_salaries WHERE run_id = $1 ORDER BY salary_id;`

	rows, err := r.Pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query salaries for run %s: %w", runID, err)
	}
	defer rows.Close()

	salaryModels := []models.EmployeeSalary{}
	for rows.Next() {
		var m models.EmployeeSalary
		err := rows.Scan(
			&m.SalaryID,
			&m.RunID,
			&m.EmployeeID,
			&m.BasicSalary,
			&m.Housing,
			&m.Transport,
			&m.Other,
			&m.Gross,
			&m.PAYE,
			&m.PensionEmployee,
			&m.PensionEmployer,
			&m.NHIS,
			&m.NHF,
			&m.Net,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary row for run %s: %w", runID, err)
		}
		salaryModels = append(salaryModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating salary rows for run %s: %w", runID, err)
	}

	return mapping.ToDomainEmployeeSalarySlice(salaryModels), nil
}

// SaveRun persists a draft run together with its salary snapshots atomically.
func (r *PgxPayrollRepository) SaveRun(ctx context.Context, run domain.PayrollRun, salaries []domain.EmployeeSalary) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelPayrollRun(run)
	runQuery := `
		INSERT INTO payroll_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, runQuery,
		m.RunID,
		m.PeriodYear,
		m.PeriodMonth,
		m.Status,
		m.TotalGross,
		m.TotalPAYE,
		m.TotalPension,
		m.TotalNHIS,
		m.TotalNHF,
		m.TotalNet,
		m.EmployeeCount,
		m.JournalID,
		m.ProcessedAt,
		m.PaidAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if translated := translateConstraintErr(err); errors.Is(translated, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: payroll run for period %d-%02d already exists", apperrors.ErrDuplicate, m.PeriodYear, m.PeriodMonth)
		}
		return fmt.Errorf("failed to insert payroll run %s: %w", m.RunID, err)
	}

	salaryQuery := `
		INSERT INTO employee_salaries (` + salaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	batch := &pgx.Batch{}
	for _, salary := range salaries {
		sm := mapping.ToModelEmployeeSalary(salary)
		batch.Queue(salaryQuery,
			sm.SalaryID,
			sm.RunID,
			sm.EmployeeID,
			sm.BasicSalary,
			sm.Housing,
			sm.Transport,
			sm.Other,
			sm.Gross,
			sm.PAYE,
			sm.PensionEmployee,
			sm.PensionEmployer,
			sm.NHIS,
			sm.NHF,
			sm.Net,
			sm.CreatedAt,
			sm.CreatedBy,
			sm.LastUpdatedAt,
			sm.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert salaries for run %s: %w", m.RunID, err)
	}

	return r.Commit(ctx, tx)
}

// MarkRunProcessed freezes the run's totals, transitions it Draft -> Processed
// and posts the payroll journal, all in one database transaction. The status
// update is guarded on the run still being Draft.
func (r *PgxPayrollRepository) MarkRunProcessed(ctx context.Context, run domain.PayrollRun, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	entryNo, err := saveJournalInTx(ctx, tx, r.accountRepo, journal, lines, balanceChanges)
	if err != nil {
		return 0, err
	}

	m := mapping.ToModelPayrollRun(run)
	updateQuery := `
		UPDATE payroll_runs
		SET status = $2,
		    total_gross = $3, total_paye = $4, total_pension = $5, total_nhis = $6, total_nhf = $7, total_net = $8,
		    journal_id = $9, processed_at = $10,
		    last_updated_at = $11, last_updated_by = $12
		WHERE run_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		m.RunID,
		m.Status,
		m.TotalGross,
		m.TotalPAYE,
		m.TotalPension,
		m.TotalNHIS,
		m.TotalNHF,
		m.TotalNet,
		m.JournalID,
		m.ProcessedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark run %s processed: %w", m.RunID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Another caller processed the run first; nothing is committed.
		return 0, fmt.Errorf("%w: payroll run %s is no longer a draft", apperrors.ErrConflict, m.RunID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return entryNo, nil
}

// MarkRunPaid transitions Processed -> Paid, recording the payment timestamp.
func (r *PgxPayrollRepository) MarkRunPaid(ctx context.Context, runID string, paidAt time.Time, updatedByUserID string) error {
	query := `
		UPDATE payroll_runs
		SET status = $2, paid_at = $3, last_updated_at = $4, last_updated_by = $5
		WHERE run_id = $1 AND status = 'PROCESSED';
	`
	now := time.Now().UTC()
	cmdTag, err := r.Pool.Exec(ctx, query, runID, string(domain.PayrollPaid), paidAt, now, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to mark run %s paid: %w", runID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindRunByID(ctx, runID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: payroll run %s is not in the processed state", apperrors.ErrConflict, runID)
	}
	return nil
}
