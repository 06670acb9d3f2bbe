package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/quarryworks/quarrybooks/internal/apperrors"
	"github.com/quarryworks/quarrybooks/internal/core/domain"
	portssvc "github.com/quarryworks/quarrybooks/internal/core/ports/services"
	"github.com/quarryworks/quarrybooks/internal/core/services"
	"github.com/quarryworks/quarrybooks/internal/dto"
	"github.com/quarryworks/quarrybooks/internal/platform/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func testLedgerAccounts() config.LedgerAccounts {
	return config.LedgerAccounts{
		Cash:                "1000",
		AccountsReceivable:  "1100",
		SalesRevenue:        "4000",
		VATPayable:          "2100",
		CustomerPrepayments: "2200",
		SalaryExpense:       "5100",
		PensionExpense:      "5110",
		PAYEPayable:         "2300",
		PensionPayable:      "2310",
		NHISPayable:         "2320",
		NHFPayable:          "2330",
		SalariesPayable:     "2340",
	}
}

// controlAccount fabricates an active account for a ledger code.
func controlAccount(code string, accountType domain.AccountType) *domain.Account {
	return &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        code,
		AccountType: accountType,
		IsActive:    true,
	}
}

type PayrollServiceTestSuite struct {
	suite.Suite
	mockPayrollRepo *MockPayrollRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.PayrollSvcFacade
	ledger          config.LedgerAccounts
	userID          string
	employee        domain.Employee
}

func (suite *PayrollServiceTestSuite) SetupTest() {
	suite.mockPayrollRepo = new(MockPayrollRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.ledger = testLedgerAccounts()
	suite.service = services.NewPayrollService(suite.mockPayrollRepo, suite.mockAccountRepo, suite.ledger)
	suite.userID = uuid.NewString()

	suite.employee = domain.Employee{
		EmployeeID:         uuid.NewString(),
		StaffNo:            "QW-001",
		FirstName:          "Ngozi",
		LastName:           "Okafor",
		BasicSalary:        decimal.NewFromInt(100000),
		HousingAllowance:   decimal.NewFromInt(20000),
		TransportAllowance: decimal.NewFromInt(10000),
		OtherAllowances:    decimal.Zero,
		Status:             domain.EmploymentActive,
	}
}

func (suite *PayrollServiceTestSuite) expectNoExistingRun(year int, month time.Month) {
	suite.mockPayrollRepo.On("FindRunByPeriod", mock.Anything, year, month).Return(nil, apperrors.ErrNotFound).Once()
}

// --- Test Cases ---

func (suite *PayrollServiceTestSuite) TestComputeRun_SingleEmployee() {
	ctx := context.Background()
	req := dto.ComputePayrollRunRequest{PeriodYear: 2024, PeriodMonth: 3}

	suite.expectNoExistingRun(2024, time.March)
	suite.mockPayrollRepo.On("ListEmployees", ctx).Return([]domain.Employee{suite.employee}, nil).Once()

	var savedSalaries []domain.EmployeeSalary
	suite.mockPayrollRepo.On("SaveRun", ctx, mock.AnythingOfType("domain.PayrollRun"), mock.AnythingOfType("[]domain.EmployeeSalary")).
		Run(func(args mock.Arguments) {
			savedSalaries = args.Get(2).([]domain.EmployeeSalary)
		}).Return(nil).Once()

	run, err := suite.service.ComputeRun(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(run)
	suite.Equal(domain.PayrollDraft, run.Status)
	suite.Equal(1, run.EmployeeCount)

	// Gross 130,000; annualized 1,560,000 falls into the fifth band, giving
	// annual PAYE of 216,400.
	expectedPAYE := decimal.NewFromInt(216400).Div(decimal.NewFromInt(12))
	suite.Require().Len(savedSalaries, 1)
	salary := savedSalaries[0]
	suite.True(salary.Gross.Equal(decimal.NewFromInt(130000)), "gross: %s", salary.Gross)
	suite.True(salary.PAYE.Equal(expectedPAYE), "paye: %s", salary.PAYE)
	suite.True(salary.PensionEmployee.Equal(decimal.NewFromInt(9600)), "pension: %s", salary.PensionEmployee)
	suite.True(salary.PensionEmployer.Equal(decimal.NewFromInt(12000)), "employer pension: %s", salary.PensionEmployer)
	suite.True(salary.NHIS.Equal(decimal.NewFromInt(5000)), "nhis: %s", salary.NHIS)
	suite.True(salary.NHF.Equal(decimal.NewFromInt(2500)), "nhf: %s", salary.NHF)

	expectedNet := decimal.NewFromInt(130000).Sub(expectedPAYE).
		Sub(decimal.NewFromInt(9600)).Sub(decimal.NewFromInt(5000)).Sub(decimal.NewFromInt(2500))
	suite.True(salary.Net.Equal(expectedNet), "net: %s", salary.Net)

	suite.True(run.TotalGross.Equal(decimal.NewFromInt(130000)))
	suite.True(run.TotalNet.Equal(expectedNet))
	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestComputeRun_DuplicatePeriod() {
	ctx := context.Background()
	existing := &domain.PayrollRun{RunID: uuid.NewString(), PeriodYear: 2024, PeriodMonth: time.March}

	suite.mockPayrollRepo.On("FindRunByPeriod", ctx, 2024, time.March).Return(existing, nil).Once()

	_, err := suite.service.ComputeRun(ctx, dto.ComputePayrollRunRequest{PeriodYear: 2024, PeriodMonth: 3}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "SaveRun", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestComputeRun_InvalidMonth() {
	ctx := context.Background()

	_, err := suite.service.ComputeRun(ctx, dto.ComputePayrollRunRequest{PeriodYear: 2024, PeriodMonth: 13}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PayrollServiceTestSuite) TestComputeRun_NoActiveEmployees() {
	ctx := context.Background()

	suite.expectNoExistingRun(2024, time.April)
	terminated := suite.employee
	terminated.Status = domain.EmploymentTerminated
	suite.mockPayrollRepo.On("ListEmployees", ctx).Return([]domain.Employee{terminated}, nil).Once()

	_, err := suite.service.ComputeRun(ctx, dto.ComputePayrollRunRequest{PeriodYear: 2024, PeriodMonth: 4}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PayrollServiceTestSuite) TestComputeRun_ExplicitEmployeeMissing() {
	ctx := context.Background()
	missingID := uuid.NewString()

	suite.expectNoExistingRun(2024, time.May)
	suite.mockPayrollRepo.On("FindEmployeesByIDs", ctx, []string{missingID}).Return(map[string]domain.Employee{}, nil).Once()

	_, err := suite.service.ComputeRun(ctx, dto.ComputePayrollRunRequest{PeriodYear: 2024, PeriodMonth: 5, EmployeeIDs: []string{missingID}}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PayrollServiceTestSuite) TestProcessRun_PostsBalancedAccrual() {
	ctx := context.Background()
	runID := uuid.NewString()

	gross := decimal.NewFromInt(130000)
	payeAmt := decimal.NewFromInt(216400).Div(decimal.NewFromInt(12))
	pensionEmp := decimal.NewFromInt(9600)
	pensionEmployer := decimal.NewFromInt(12000)
	nhis := decimal.NewFromInt(5000)
	nhf := decimal.NewFromInt(2500)
	net := gross.Sub(payeAmt).Sub(pensionEmp).Sub(nhis).Sub(nhf)

	run := &domain.PayrollRun{
		RunID:        runID,
		PeriodYear:   2024,
		PeriodMonth:  time.March,
		Status:       domain.PayrollDraft,
		TotalGross:   gross,
		TotalPAYE:    payeAmt,
		TotalPension: pensionEmp,
		TotalNHIS:    nhis,
		TotalNHF:     nhf,
		TotalNet:     net,
	}
	salaries := []domain.EmployeeSalary{{
		SalaryID:        uuid.NewString(),
		RunID:           runID,
		EmployeeID:      suite.employee.EmployeeID,
		Gross:           gross,
		PAYE:            payeAmt,
		PensionEmployee: pensionEmp,
		PensionEmployer: pensionEmployer,
		NHIS:            nhis,
		NHF:             nhf,
		Net:             net,
	}}

	suite.mockPayrollRepo.On("FindRunByID", ctx, runID).Return(run, nil).Once()
	suite.mockPayrollRepo.On("FindSalariesByRunID", ctx, runID).Return(salaries, nil).Once()

	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.ledger.SalaryExpense).Return(controlAccount(suite.ledger.SalaryExpense, domain.Expense), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.ledger.PensionExpense).Return(controlAccount(suite.ledger.PensionExpense, domain.Expense), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.ledger.PAYEPayable).Return(controlAccount(suite.ledger.PAYEPayable, domain.Liability), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.ledger.PensionPayable).Return(controlAccount(suite.ledger.PensionPayable, domain.Liability), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.ledger.NHISPayable).Return(controlAccount(suite.ledger.NHISPayable, domain.Liability), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.ledger.NHFPayable).Return(controlAccount(suite.ledger.NHFPayable, domain.Liability), nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.ledger.SalariesPayable).Return(controlAccount(suite.ledger.SalariesPayable, domain.Liability), nil).Once()

	suite.mockPayrollRepo.On("MarkRunProcessed", ctx, mock.MatchedBy(func(r domain.PayrollRun) bool {
		return r.Status == domain.PayrollProcessed && r.JournalID != nil && r.ProcessedAt != nil
	}), mock.MatchedBy(func(j domain.Journal) bool {
		return j.Source == domain.SourcePayroll && j.Status == domain.Posted
	}), mock.MatchedBy(func(lines []domain.JournalLine) bool {
		debits := decimal.Zero
		credits := decimal.Zero
		for _, line := range lines {
			debits = debits.Add(line.Debit)
			credits = credits.Add(line.Credit)
		}
		return debits.Equal(credits) && debits.Equal(gross.Add(pensionEmployer))
	}), mock.Anything).Return(int64(77), nil).Once()

	processed, err := suite.service.ProcessRun(ctx, runID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PayrollProcessed, processed.Status)
	suite.Require().NotNil(processed.JournalID)
	suite.mockPayrollRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestProcessRun_NotDraft() {
	ctx := context.Background()
	runID := uuid.NewString()
	run := &domain.PayrollRun{RunID: runID, Status: domain.PayrollProcessed}

	suite.mockPayrollRepo.On("FindRunByID", ctx, runID).Return(run, nil).Once()

	_, err := suite.service.ProcessRun(ctx, runID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "MarkRunProcessed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestMarkRunPaid_Success() {
	ctx := context.Background()
	runID := uuid.NewString()
	run := &domain.PayrollRun{RunID: runID, Status: domain.PayrollProcessed}
	paidAt := time.Date(2024, 3, 28, 12, 0, 0, 0, time.UTC)

	suite.mockPayrollRepo.On("FindRunByID", ctx, runID).Return(run, nil).Once()
	suite.mockPayrollRepo.On("MarkRunPaid", ctx, runID, paidAt, suite.userID).Return(nil).Once()

	paid, err := suite.service.MarkRunPaid(ctx, runID, paidAt, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PayrollPaid, paid.Status)
	suite.Require().NotNil(paid.PaidAt)
	suite.True(paid.PaidAt.Equal(paidAt))
	suite.mockPayrollRepo.AssertExpectations(suite.T())
}

func (suite *PayrollServiceTestSuite) TestMarkRunPaid_FromDraft() {
	ctx := context.Background()
	runID := uuid.NewString()
	run := &domain.PayrollRun{RunID: runID, Status: domain.PayrollDraft}

	suite.mockPayrollRepo.On("FindRunByID", ctx, runID).Return(run, nil).Once()

	_, err := suite.service.MarkRunPaid(ctx, runID, time.Now(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "MarkRunPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PayrollServiceTestSuite) TestCreateEmployee_RejectsNonPositiveBasic() {
	ctx := context.Background()
	req := dto.CreateEmployeeRequest{
		StaffNo:     "QW-002",
		FirstName:   "Tunde",
		LastName:    "Bello",
		BasicSalary: decimal.Zero,
	}

	_, err := suite.service.CreateEmployee(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPayrollRepo.AssertNotCalled(suite.T(), "SaveEmployee", mock.Anything, mock.Anything)
}

func TestPayrollServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollServiceTestSuite))
}
