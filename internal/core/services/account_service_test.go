package services_test

import (
	"context"
	"testing"

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

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.userID = uuid.NewString()
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "5200",
		Name:        "Equipment Maintenance",
		AccountType: domain.Expense,
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, req.Code).
		Return(nil, apperrors.NewNotFoundError("account not found")).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == req.Code && a.IsActive && a.Balance.IsZero()
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(req.Code, account.Code)
	suite.True(account.Balance.IsZero())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, req.Code).
		Return(controlAccount(req.Code, domain.Asset), nil).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MissingFields() {
	ctx := context.Background()

	_, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Name: "No Code"}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByCode", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListAccounts_FilterByType() {
	ctx := context.Background()
	accounts := []domain.Account{
		*controlAccount("1000", domain.Asset),
		*controlAccount("2100", domain.Liability),
		*controlAccount("1100", domain.Asset),
	}

	suite.mockAccountRepo.On("ListAccounts", ctx).Return(accounts, nil).Once()

	assetType := domain.Asset
	filtered, err := suite.service.ListAccounts(ctx, &assetType)

	suite.Require().NoError(err)
	suite.Len(filtered, 2)
	for _, account := range filtered {
		suite.Equal(domain.Asset, account.AccountType)
	}
}

func (suite *AccountServiceTestSuite) TestGetAccountBalance() {
	ctx := context.Background()
	account := controlAccount("1000", domain.Asset)
	account.Balance = decimal.NewFromInt(845000)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	balance, err := suite.service.GetAccountBalance(ctx, account.AccountID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(845000)))
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	account := controlAccount("5200", domain.Expense)

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("UpdateAccountActive", ctx, account.AccountID, false, suite.userID, mock.Anything).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	ctx := context.Background()
	account := controlAccount("5200", domain.Expense)
	account.IsActive = false

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccountActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, missingID).
		Return(nil, apperrors.NewNotFoundError("account not found")).Once()

	_, err := suite.service.GetAccountByID(ctx, missingID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
