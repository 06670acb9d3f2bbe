package repositories

import (
	"context"
	"time"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EmployeeReader defines read operations for employee records
type EmployeeReader interface {
	// FindEmployeeByID retrieves a single employee.
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)

	// FindEmployeesByIDs retrieves multiple employees, keyed by employee ID.
	FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error)

	// ListEmployees retrieves all employees.
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
}

// EmployeeWriter defines write operations for employee records
type EmployeeWriter interface {
	// SaveEmployee persists a new employee.
	SaveEmployee(ctx context.Context, employee domain.Employee) error
}

// PayrollRunReader defines read operations for payroll runs
type PayrollRunReader interface {
	// FindRunByID retrieves a payroll run without its salary snapshots.
	FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error)

	// FindSalariesByRunID retrieves the salary snapshots belonging to a run.
	FindSalariesByRunID(ctx context.Context, runID string) ([]domain.EmployeeSalary, error)

	// FindRunByPeriod retrieves the run of one period, if any.
	FindRunByPeriod(ctx context.Context, periodYear int, periodMonth time.Month) (*domain.PayrollRun, error)

	// ListRuns retrieves all runs of a period year, newest first.
	ListRuns(ctx context.Context, periodYear int) ([]domain.PayrollRun, error)
}

// PayrollRunWriter defines write operations for payroll runs
type PayrollRunWriter interface {
	// SaveRun persists a draft run together with its salary snapshots atomically.
	SaveRun(ctx context.Context, run domain.PayrollRun, salaries []domain.EmployeeSalary) error

	// MarkRunProcessed freezes the run's totals, transitions it Draft -> Processed
	// and posts the payroll journal, all in one database transaction. The status
	// update is guarded on the run still being Draft; a lost race surfaces as a
	// conflict and nothing is committed. Returns the journal entry number.
	MarkRunProcessed(ctx context.Context, run domain.PayrollRun, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error)

	// MarkRunPaid transitions Processed -> Paid, recording the payment timestamp.
	MarkRunPaid(ctx context.Context, runID string, paidAt time.Time, updatedByUserID string) error
}

// PayrollRepositoryFacade combines all payroll-related repository interfaces
type PayrollRepositoryFacade interface {
	EmployeeReader
	EmployeeWriter
	PayrollRunReader
	PayrollRunWriter
}
