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
	"github.com/quarryworks/quarrybooks/internal/platform/config"
	"github.com/quarryworks/quarrybooks/internal/utils/paye"
	"github.com/shopspring/decimal"
)

var (
	ErrIncompleteEmployeeRecord = errors.New("employee record has no positive basic salary")
	ErrEmployeeNotActive        = errors.New("employee is not on the active payroll")
	ErrNoEmployees              = errors.New("no active employees to include in the run")
	ErrRunPeriodExists          = errors.New("a payroll run already exists for this period")
	ErrRunNotDraft              = errors.New("payroll run is not in draft status")
	ErrRunNotProcessed          = errors.New("payroll run is not in processed status")
)

// payrollService computes salary snapshots and drives the run state machine.
type payrollService struct {
	payrollRepo portsrepo.PayrollRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	ledger      config.LedgerAccounts
}

// NewPayrollService creates a new payroll service.
func NewPayrollService(payrollRepo portsrepo.PayrollRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, ledger config.LedgerAccounts) portssvc.PayrollSvcFacade {
	return &payrollService{
		payrollRepo: payrollRepo,
		accountRepo: accountRepo,
		ledger:      ledger,
	}
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

// CreateEmployee registers a new active employee.
func (s *payrollService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest, creatorUserID string) (*domain.Employee, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.BasicSalary.IsPositive() {
		return nil, fmt.Errorf("%w: basic salary must be positive", apperrors.ErrValidation)
	}
	if req.HousingAllowance.IsNegative() || req.TransportAllowance.IsNegative() || req.OtherAllowances.IsNegative() {
		return nil, fmt.Errorf("%w: allowances must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	employee := domain.Employee{
		EmployeeID:         uuid.NewString(),
		StaffNo:            req.StaffNo,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		BasicSalary:        req.BasicSalary,
		HousingAllowance:   req.HousingAllowance,
		TransportAllowance: req.TransportAllowance,
		OtherAllowances:    req.OtherAllowances,
		Status:             domain.EmploymentActive,
		AuditFields:        newAudit(creatorUserID, now),
	}

	if err := s.payrollRepo.SaveEmployee(ctx, employee); err != nil {
		logger.Error("Failed to save employee", slog.String("error", err.Error()), slog.String("staff_no", req.StaffNo))
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}

	logger.Info("Employee created", slog.String("employee_id", employee.EmployeeID), slog.String("staff_no", employee.StaffNo))
	return &employee, nil
}

// GetEmployeeByID retrieves a single employee.
func (s *payrollService) GetEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	employee, err := s.payrollRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find employee %s: %w", employeeID, err)
	}
	return employee, nil
}

// ListEmployees retrieves employees, optionally only those on the active payroll.
func (s *payrollService) ListEmployees(ctx context.Context, activeOnly bool) ([]domain.Employee, error) {
	employees, err := s.payrollRepo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	if !activeOnly {
		return employees, nil
	}
	active := make([]domain.Employee, 0, len(employees))
	for _, employee := range employees {
		if employee.Status == domain.EmploymentActive {
			active = append(active, employee)
		}
	}
	return active, nil
}

// computeSalary builds the immutable snapshot for one employee. The PAYE figure
// annualizes the monthly gross, applies the progressive schedule and divides
// back, matching how the tax office expects monthly withholding to be derived.
func computeSalary(runID string, employee domain.Employee, userID string, now time.Time) domain.EmployeeSalary {
	gross := employee.MonthlyGross()
	monthlyPAYE := paye.MonthlyPAYE(gross)
	pensionEmployee := paye.PensionEmployee(employee.BasicSalary, employee.HousingAllowance)
	pensionEmployer := paye.PensionEmployer(employee.BasicSalary, employee.HousingAllowance)
	nhis := paye.NHIS(employee.BasicSalary)
	nhf := paye.NHF(employee.BasicSalary)
	net := gross.Sub(monthlyPAYE).Sub(pensionEmployee).Sub(nhis).Sub(nhf)

	return domain.EmployeeSalary{
		SalaryID:        uuid.NewString(),
		RunID:           runID,
		EmployeeID:      employee.EmployeeID,
		BasicSalary:     employee.BasicSalary,
		Housing:         employee.HousingAllowance,
		Transport:       employee.TransportAllowance,
		Other:           employee.OtherAllowances,
		Gross:           gross,
		PAYE:            monthlyPAYE,
		PensionEmployee: pensionEmployee,
		PensionEmployer: pensionEmployer,
		NHIS:            nhis,
		NHF:             nhf,
		Net:             net,
		AuditFields:     newAudit(userID, now),
	}
}

// ComputeRun calculates deductions for the period and stores a draft run.
func (s *payrollService) ComputeRun(ctx context.Context, req dto.ComputePayrollRunRequest, creatorUserID string) (*domain.PayrollRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.PeriodMonth < 1 || req.PeriodMonth > 12 {
		return nil, fmt.Errorf("%w: period month must be between 1 and 12", apperrors.ErrValidation)
	}
	periodMonth := time.Month(req.PeriodMonth)

	existing, err := s.payrollRepo.FindRunByPeriod(ctx, req.PeriodYear, periodMonth)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check for existing run", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check for existing run: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %v (%d-%02d)", apperrors.ErrDuplicate, ErrRunPeriodExists, req.PeriodYear, req.PeriodMonth)
	}

	employees, err := s.selectEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrNoEmployees)
	}

	now := time.Now().UTC()
	runID := uuid.NewString()

	salaries := make([]domain.EmployeeSalary, 0, len(employees))
	totals := struct{ gross, payeT, pension, nhis, nhf, net decimal.Decimal }{
		decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero,
	}
	for _, employee := range employees {
		if !employee.BasicSalary.IsPositive() {
			return nil, fmt.Errorf("%w: %v: %s", apperrors.ErrValidation, ErrIncompleteEmployeeRecord, employee.EmployeeID)
		}
		salary := computeSalary(runID, employee, creatorUserID, now)
		salaries = append(salaries, salary)
		totals.gross = totals.gross.Add(salary.Gross)
		totals.payeT = totals.payeT.Add(salary.PAYE)
		totals.pension = totals.pension.Add(salary.PensionEmployee)
		totals.nhis = totals.nhis.Add(salary.NHIS)
		totals.nhf = totals.nhf.Add(salary.NHF)
		totals.net = totals.net.Add(salary.Net)
	}

	run := domain.PayrollRun{
		RunID:         runID,
		PeriodYear:    req.PeriodYear,
		PeriodMonth:   periodMonth,
		Status:        domain.PayrollDraft,
		TotalGross:    totals.gross,
		TotalPAYE:     totals.payeT,
		TotalPension:  totals.pension,
		TotalNHIS:     totals.nhis,
		TotalNHF:      totals.nhf,
		TotalNet:      totals.net,
		EmployeeCount: len(salaries),
		AuditFields:   newAudit(creatorUserID, now),
	}

	if err := s.payrollRepo.SaveRun(ctx, run, salaries); err != nil {
		logger.Error("Failed to save payroll run", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save payroll run: %w", err)
	}

	run.Salaries = salaries
	logger.Info("Payroll run computed",
		slog.String("run_id", run.RunID),
		slog.Int("employee_count", run.EmployeeCount),
		slog.String("total_gross", run.TotalGross.String()),
	)
	return &run, nil
}

// selectEmployees resolves the run membership: explicit IDs must exist and be
// active; an empty list means everyone on the active payroll.
func (s *payrollService) selectEmployees(ctx context.Context, employeeIDs []string) ([]domain.Employee, error) {
	if len(employeeIDs) == 0 {
		return s.ListEmployees(ctx, true)
	}

	employeesMap, err := s.payrollRepo.FindEmployeesByIDs(ctx, uniqueStrings(employeeIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	employees := make([]domain.Employee, 0, len(employeeIDs))
	for _, id := range uniqueStrings(employeeIDs) {
		employee, found := employeesMap[id]
		if !found {
			return nil, fmt.Errorf("%w: employee %s", apperrors.ErrNotFound, id)
		}
		if employee.Status != domain.EmploymentActive {
			return nil, fmt.Errorf("%w: %v: %s", apperrors.ErrValidation, ErrEmployeeNotActive, id)
		}
		employees = append(employees, employee)
	}
	return employees, nil
}

// ProcessRun transitions a draft run to Processed and posts the accrual journal.
func (s *payrollService) ProcessRun(ctx context.Context, runID string, userID string) (*domain.PayrollRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	run, err := s.payrollRepo.FindRunByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payroll run %s: %w", runID, err)
	}
	if run.Status != domain.PayrollDraft {
		return nil, fmt.Errorf("%w: %v: status is %s", apperrors.ErrConflict, ErrRunNotDraft, run.Status)
	}

	salaries, err := s.payrollRepo.FindSalariesByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch salaries for run %s: %w", runID, err)
	}

	employerPension := decimal.Zero
	for _, salary := range salaries {
		employerPension = employerPension.Add(salary.PensionEmployer)
	}

	controlCodes := []string{
		s.ledger.SalaryExpense,
		s.ledger.PensionExpense,
		s.ledger.PAYEPayable,
		s.ledger.PensionPayable,
		s.ledger.NHISPayable,
		s.ledger.NHFPayable,
		s.ledger.SalariesPayable,
	}
	controlAccounts, err := resolveAccountsByCode(ctx, s.accountRepo, controlCodes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()
	periodLabel := fmt.Sprintf("%d-%02d", run.PeriodYear, int(run.PeriodMonth))

	// Accrual: gross plus the employer pension cost on the debit side, each
	// statutory pot and the net pay owed to staff on the credit side.
	specs := []lineSpec{
		{AccountCode: s.ledger.SalaryExpense, Debit: run.TotalGross, Notes: "Gross salaries " + periodLabel},
		{AccountCode: s.ledger.PensionExpense, Debit: employerPension, Notes: "Employer pension " + periodLabel},
		{AccountCode: s.ledger.PAYEPayable, Credit: run.TotalPAYE, Notes: "PAYE withheld " + periodLabel},
		{AccountCode: s.ledger.PensionPayable, Credit: run.TotalPension.Add(employerPension), Notes: "Pension contributions " + periodLabel},
		{AccountCode: s.ledger.NHISPayable, Credit: run.TotalNHIS, Notes: "NHIS " + periodLabel},
		{AccountCode: s.ledger.NHFPayable, Credit: run.TotalNHF, Notes: "NHF " + periodLabel},
		{AccountCode: s.ledger.SalariesPayable, Credit: run.TotalNet, Notes: "Net salaries " + periodLabel},
	}

	lines, err := buildJournalLines(journalID, specs, controlAccounts, userID, now)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := computeBalanceChanges(lines, accountTypesOf(controlAccounts))
	if err != nil {
		return nil, err
	}

	journal := domain.Journal{
		JournalID:   journalID,
		JournalDate: now,
		Description: fmt.Sprintf("Payroll accrual %s", periodLabel),
		Source:      domain.SourcePayroll,
		Status:      domain.Posted,
		Amount:      journalAmount(lines),
		AuditFields: newAudit(userID, now),
	}

	run.Status = domain.PayrollProcessed
	run.JournalID = &journalID
	run.ProcessedAt = &now
	run.LastUpdatedAt = now
	run.LastUpdatedBy = userID

	entryNo, err := s.payrollRepo.MarkRunProcessed(ctx, *run, journal, lines, balanceChanges)
	if err != nil {
		logger.Error("Failed to process payroll run", slog.String("error", err.Error()), slog.String("run_id", runID))
		return nil, fmt.Errorf("failed to process payroll run: %w", err)
	}

	run.Salaries = salaries
	logger.Info("Payroll run processed",
		slog.String("run_id", runID),
		slog.String("journal_id", journalID),
		slog.Int64("entry_no", entryNo),
	)
	return run, nil
}

// MarkRunPaid transitions Processed -> Paid. The cash disbursement itself is
// recorded by its own journal entry, so nothing is posted here.
func (s *payrollService) MarkRunPaid(ctx context.Context, runID string, paidAt time.Time, userID string) (*domain.PayrollRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	run, err := s.payrollRepo.FindRunByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payroll run %s: %w", runID, err)
	}
	if run.Status != domain.PayrollProcessed {
		return nil, fmt.Errorf("%w: %v: status is %s", apperrors.ErrConflict, ErrRunNotProcessed, run.Status)
	}

	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	if err := s.payrollRepo.MarkRunPaid(ctx, runID, paidAt, userID); err != nil {
		logger.Error("Failed to mark payroll run paid", slog.String("error", err.Error()), slog.String("run_id", runID))
		return nil, fmt.Errorf("failed to mark payroll run paid: %w", err)
	}

	run.Status = domain.PayrollPaid
	run.PaidAt = &paidAt
	run.LastUpdatedAt = time.Now().UTC()
	run.LastUpdatedBy = userID

	logger.Info("Payroll run marked paid", slog.String("run_id", runID))
	return run, nil
}

// GetRunByID retrieves a run with its salary snapshots.
func (s *payrollService) GetRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	run, err := s.payrollRepo.FindRunByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to find payroll run %s: %w", runID, err)
	}
	salaries, err := s.payrollRepo.FindSalariesByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch salaries for run %s: %w", runID, err)
	}
	run.Salaries = salaries
	return run, nil
}

// ListRuns retrieves the runs of a period year, newest first.
func (s *payrollService) ListRuns(ctx context.Context, periodYear int) ([]domain.PayrollRun, error) {
	runs, err := s.payrollRepo.ListRuns(ctx, periodYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	return runs, nil
}
