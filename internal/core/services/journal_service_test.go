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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountRepository
	service          portssvc.JournalSvcFacade
	assetAccount     domain.Account
	liabilityAccount domain.Account
	revenueAccount   domain.Account
	expenseAccount   domain.Account
	userID           string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo)

	suite.userID = uuid.NewString()

	suite.assetAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.liabilityAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "2000",
		AccountType: domain.Liability,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4000",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	suite.expenseAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "5000",
		AccountType: domain.Expense,
		IsActive:    true,
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateJournal_Success() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:        time.Now(),
		Description: "Diesel purchase",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.expenseAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.assetAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	accountsMap := map[string]domain.Account{
		suite.expenseAccount.AccountID: suite.expenseAccount,
		suite.assetAccount.AccountID:   suite.assetAccount,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.expenseAccount.AccountID, suite.assetAccount.AccountID}).Return(accountsMap, nil).Once()

	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		// Debit to expense increases it; credit to asset decreases it.
		return changes[suite.expenseAccount.AccountID].Equal(decimal.NewFromInt(100)) &&
			changes[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(-100))
	})).Return(int64(42), nil).Once()

	createdJournal, err := suite.service.CreateJournal(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdJournal)
	suite.NotEmpty(createdJournal.JournalID)
	suite.Equal(int64(42), createdJournal.EntryNo)
	suite.Equal(req.Description, createdJournal.Description)
	suite.Equal(domain.Posted, createdJournal.Status)
	suite.Equal(domain.SourceManual, createdJournal.Source)
	suite.True(createdJournal.Amount.Equal(decimal.NewFromInt(100)))
	suite.Equal(suite.userID, createdJournal.CreatedBy)

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateJournal_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:        time.Now(),
		Description: "Unbalanced",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.expenseAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.assetAccount.AccountID, Credit: decimal.NewFromInt(90)},
		},
	}

	_, err := suite.service.CreateJournal(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_BothSidesSet() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:        time.Now(),
		Description: "Bad line",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.expenseAccount.AccountID, Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)},
			{AccountID: suite.assetAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	_, err := suite.service.CreateJournal(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_SingleAccount() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date:        time.Now(),
		Description: "Same account both sides",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.assetAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	_, err := suite.service.CreateJournal(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.assetAccount
	inactive.IsActive = false

	req := dto.CreateJournalRequest{
		Date:        time.Now(),
		Description: "Posting to inactive account",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.expenseAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: inactive.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	accountsMap := map[string]domain.Account{
		suite.expenseAccount.AccountID: suite.expenseAccount,
		inactive.AccountID:             inactive,
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accountsMap, nil).Once()

	_, err := suite.service.CreateJournal(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_MissingDescription() {
	ctx := context.Background()
	req := dto.CreateJournalRequest{
		Date: time.Now(),
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.expenseAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.assetAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	_, err := suite.service.CreateJournal(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestGetJournalByID_Success() {
	ctx := context.Background()
	journalID := uuid.NewString()
	journal := &domain.Journal{JournalID: journalID, Status: domain.Posted}
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(50)},
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(50)},
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journalID).Return(lines, nil).Once()

	found, err := suite.service.GetJournalByID(ctx, journalID)

	suite.Require().NoError(err)
	suite.Require().NotNil(found)
	suite.Len(found.Lines, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestGetJournalByID_NotFound() {
	ctx := context.Background()
	journalID := uuid.NewString()

	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetJournalByID(ctx, journalID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_Success() {
	ctx := context.Background()
	journalID := uuid.NewString()
	original := &domain.Journal{
		JournalID:   journalID,
		Description: "Invoice posting",
		Source:      domain.SourceBilling,
		Status:      domain.Posted,
		Amount:      decimal.NewFromInt(100),
	}
	originalLines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(100)},
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(100)},
	}
	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID:   suite.assetAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journalID).Return(originalLines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accountsMap, nil).Once()

	// One repository call carries both the reversing journal and the original's
	// ID so posting and the status flip commit or roll back together.
	suite.mockJournalRepo.On("ReverseJournal", ctx, journalID, mock.MatchedBy(func(j domain.Journal) bool {
		return j.OriginalJournalID != nil && *j.OriginalJournalID == journalID && j.Status == domain.Posted
	}), mock.MatchedBy(func(lines []domain.JournalLine) bool {
		// Sides swapped relative to the original.
		return len(lines) == 2 &&
			lines[0].Credit.Equal(decimal.NewFromInt(100)) &&
			lines[1].Debit.Equal(decimal.NewFromInt(100))
	}), mock.Anything).Return(int64(43), nil).Once()

	reversing, err := suite.service.ReverseJournal(ctx, journalID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Equal(int64(43), reversing.EntryNo)
	suite.True(reversing.Amount.Equal(original.Amount))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseJournal_RepoFailure() {
	ctx := context.Background()
	journalID := uuid.NewString()
	original := &domain.Journal{
		JournalID:   journalID,
		Description: "Invoice posting",
		Source:      domain.SourceBilling,
		Status:      domain.Posted,
		Amount:      decimal.NewFromInt(100),
	}
	originalLines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(100)},
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(100)},
	}
	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID:   suite.assetAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journalID).Return(originalLines, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accountsMap, nil).Once()
	suite.mockJournalRepo.On("ReverseJournal", ctx, journalID, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), apperrors.ErrInternal).Once()

	_, err := suite.service.ReverseJournal(ctx, journalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInternal)
	// The rolled-back transaction leaves nothing to clean up; no follow-up
	// status write exists to get out of step.
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseJournal_AlreadyReversed() {
	ctx := context.Background()
	journalID := uuid.NewString()
	original := &domain.Journal{JournalID: journalID, Status: domain.Reversed}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(original, nil).Once()

	_, err := suite.service.ReverseJournal(ctx, journalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseJournal_OfReversal() {
	ctx := context.Background()
	journalID := uuid.NewString()
	otherID := uuid.NewString()
	original := &domain.Journal{JournalID: journalID, Status: domain.Posted, OriginalJournalID: &otherID}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(original, nil).Once()

	_, err := suite.service.ReverseJournal(ctx, journalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestListLinesByAccount_DefaultsLimit() {
	ctx := context.Background()
	accountID := suite.assetAccount.AccountID
	lines := []domain.JournalLine{{LineID: uuid.NewString(), AccountID: accountID, Debit: decimal.NewFromInt(10)}}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&suite.assetAccount, nil).Once()
	suite.mockJournalRepo.On("ListLinesByAccountID", ctx, accountID, 20, (*string)(nil)).Return(lines, nil, nil).Once()

	resp, err := suite.service.ListLinesByAccount(ctx, accountID, dto.ListJournalLinesParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Lines, 1)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
