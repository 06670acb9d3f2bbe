package services

import (
	"context"
	"time"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/quarryworks/quarrybooks/internal/dto"
)

// EmployeeSvc defines operations for employee records
type EmployeeSvc interface {
	// CreateEmployee registers a new employee.
	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, creatorUserID string) (*domain.Employee, error)

	// GetEmployeeByID retrieves a specific employee.
	GetEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)

	// ListEmployees retrieves all employees, optionally only active ones.
	ListEmployees(ctx context.Context, activeOnly bool) ([]domain.Employee, error)
}

// PayrollRunSvc defines operations for the payroll run lifecycle
type PayrollRunSvc interface {
	// ComputeRun calculates PAYE and statutory deductions for the period and
	// stores the run as a draft with per-employee salary snapshots.
	ComputeRun(ctx context.Context, req dto.ComputePayrollRunRequest, creatorUserID string) (*domain.PayrollRun, error)

	// ProcessRun moves a draft run to Processed and posts the accrual journal.
	ProcessRun(ctx context.Context, runID string, userID string) (*domain.PayrollRun, error)

	// MarkRunPaid moves a processed run to Paid. It posts nothing; the cash
	// disbursement is recorded by its own journal entry.
	MarkRunPaid(ctx context.Context, runID string, paidAt time.Time, userID string) (*domain.PayrollRun, error)

	// GetRunByID retrieves a run with its salary snapshots.
	GetRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error)

	// ListRuns retrieves runs for a period year, newest first.
	ListRuns(ctx context.Context, periodYear int) ([]domain.PayrollRun, error)
}

// PayrollSvcFacade combines all payroll-related service interfaces
type PayrollSvcFacade interface {
	EmployeeSvc
	PayrollRunSvc
}
