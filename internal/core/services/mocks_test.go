package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/quarryworks/quarrybooks/internal/core/domain"
	portsrepo "github.com/quarryworks/quarrybooks/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountActive(ctx context.Context, accountID string, isActive bool, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, accountID, isActive, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, limit, nextToken, includeReversals)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Journal), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	args := m.Called(ctx, journal, lines, balanceChanges)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) ReverseJournal(ctx context.Context, originalJournalID string, reversingJournal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	args := m.Called(ctx, originalJournalID, reversingJournal, lines, balanceChanges)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalLine), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock PayrollRepository ---
type MockPayrollRepository struct {
	mock.Mock
}

var _ portsrepo.PayrollRepositoryFacade = (*MockPayrollRepository)(nil)

func (m *MockPayrollRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockPayrollRepository) FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error) {
	args := m.Called(ctx, employeeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Employee), args.Error(1)
}

func (m *MockPayrollRepository) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}

func (m *MockPayrollRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockPayrollRepository) FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) FindSalariesByRunID(ctx context.Context, runID string) ([]domain.EmployeeSalary, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmployeeSalary), args.Error(1)
}

func (m *MockPayrollRepository) FindRunByPeriod(ctx context.Context, periodYear int, periodMonth time.Month) (*domain.PayrollRun, error) {
	args := m.Called(ctx, periodYear, periodMonth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) ListRuns(ctx context.Context, periodYear int) ([]domain.PayrollRun, error) {
	args := m.Called(ctx, periodYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRepository) SaveRun(ctx context.Context, run domain.PayrollRun, salaries []domain.EmployeeSalary) error {
	args := m.Called(ctx, run, salaries)
	return args.Error(0)
}

func (m *MockPayrollRepository) MarkRunProcessed(ctx context.Context, run domain.PayrollRun, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	args := m.Called(ctx, run, journal, lines, balanceChanges)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayrollRepository) MarkRunPaid(ctx context.Context, runID string, paidAt time.Time, updatedByUserID string) error {
	args := m.Called(ctx, runID, paidAt, updatedByUserID)
	return args.Error(0)
}

// --- Mock BillingRepository ---
type MockBillingRepository struct {
	mock.Mock
}

var _ portsrepo.BillingRepositoryFacade = (*MockBillingRepository)(nil)

func (m *MockBillingRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockBillingRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockBillingRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockBillingRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockBillingRepository) ListInvoices(ctx context.Context, customerID string, status string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, customerID, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Invoice), returnedNextToken, args.Error(2)
}

func (m *MockBillingRepository) FindPrepaymentByID(ctx context.Context, prepaymentID string) (*domain.CustomerPrepayment, error) {
	args := m.Called(ctx, prepaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerPrepayment), args.Error(1)
}

func (m *MockBillingRepository) FindApplicationsByPrepaymentID(ctx context.Context, prepaymentID string) ([]domain.PrepaymentApplication, error) {
	args := m.Called(ctx, prepaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PrepaymentApplication), args.Error(1)
}

func (m *MockBillingRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, customer domain.Customer, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	args := m.Called(ctx, invoice, customer, journal, lines, balanceChanges)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillingRepository) UpdateInvoicePayment(ctx context.Context, invoice domain.Invoice, customer domain.Customer, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	args := m.Called(ctx, invoice, customer, journal, lines, balanceChanges)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillingRepository) SavePrepayment(ctx context.Context, prepayment domain.CustomerPrepayment, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	args := m.Called(ctx, prepayment, journal, lines, balanceChanges)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillingRepository) ApplyPrepayment(ctx context.Context, invoice domain.Invoice, prepayment domain.CustomerPrepayment, application domain.PrepaymentApplication, customer domain.Customer, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	args := m.Called(ctx, invoice, prepayment, application, customer, journal, lines, balanceChanges)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillingRepository) CancelInvoice(ctx context.Context, invoice domain.Invoice, customer domain.Customer, originalJournalID string, reversingJournal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	args := m.Called(ctx, invoice, customer, originalJournalID, reversingJournal, lines, balanceChanges)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillingRepository) UpdateInvoiceStatus(ctx context.Context, invoice domain.Invoice, updatedByUserID string) error {
	args := m.Called(ctx, invoice, updatedByUserID)
	return args.Error(0)
}

// --- Mock StockRepository ---
type MockStockRepository struct {
	mock.Mock
}

var _ portsrepo.StockRepositoryFacade = (*MockStockRepository)(nil)

func (m *MockStockRepository) FindYard(ctx context.Context, site, materialID string) (*domain.StockYard, error) {
	args := m.Called(ctx, site, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockYard), args.Error(1)
}

func (m *MockStockRepository) ListYards(ctx context.Context, site string) ([]domain.StockYard, error) {
	args := m.Called(ctx, site)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockYard), args.Error(1)
}

func (m *MockStockRepository) ListMovements(ctx context.Context, site, materialID string, limit int) ([]domain.StockMovement, error) {
	args := m.Called(ctx, site, materialID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockMovement), args.Error(1)
}

func (m *MockStockRepository) CreateYard(ctx context.Context, yard domain.StockYard) error {
	args := m.Called(ctx, yard)
	return args.Error(0)
}

func (m *MockStockRepository) UpdateYard(ctx context.Context, yard domain.StockYard, expectedVersion int64, movement domain.StockMovement) error {
	args := m.Called(ctx, yard, expectedVersion, movement)
	return args.Error(0)
}
