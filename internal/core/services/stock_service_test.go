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

type StockServiceTestSuite struct {
	suite.Suite
	mockStockRepo *MockStockRepository
	service       portssvc.StockSvcFacade
	userID        string
	yard          domain.StockYard
}

func (suite *StockServiceTestSuite) SetupTest() {
	suite.mockStockRepo = new(MockStockRepository)
	suite.service = services.NewStockService(suite.mockStockRepo)
	suite.userID = uuid.NewString()

	suite.yard = domain.StockYard{
		YardID:        uuid.NewString(),
		Site:          "abeokuta-north",
		MaterialID:    "granite-19mm",
		CurrentStock:  decimal.NewFromInt(1000),
		ReservedStock: decimal.NewFromInt(200),
		Version:       3,
		LastUpdated:   time.Now().Add(-time.Hour),
	}
}

func (suite *StockServiceTestSuite) opRequest(qty int64) dto.StockOpRequest {
	return dto.StockOpRequest{
		Site:       suite.yard.Site,
		MaterialID: suite.yard.MaterialID,
		Quantity:   decimal.NewFromInt(qty),
		Reference:  "SO-1201",
	}
}

// --- Test Cases ---

func (suite *StockServiceTestSuite) TestReserve_Success() {
	ctx := context.Background()

	suite.mockStockRepo.On("FindYard", ctx, suite.yard.Site, suite.yard.MaterialID).Return(&suite.yard, nil).Once()
	suite.mockStockRepo.On("UpdateYard", ctx, mock.MatchedBy(func(y domain.StockYard) bool {
		return y.ReservedStock.Equal(decimal.NewFromInt(500)) && y.CurrentStock.Equal(decimal.NewFromInt(1000))
	}), suite.yard.Version, mock.MatchedBy(func(m domain.StockMovement) bool {
		return m.Type == domain.MovementReserve && m.Quantity.Equal(decimal.NewFromInt(300))
	})).Return(nil).Once()

	updated, err := suite.service.Reserve(ctx, suite.opRequest(300), suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.AvailableStock().Equal(decimal.NewFromInt(500)))
	suite.Equal(suite.yard.Version+1, updated.Version)
	suite.mockStockRepo.AssertExpectations(suite.T())
}

func (suite *StockServiceTestSuite) TestReserve_BeyondAvailable() {
	ctx := context.Background()

	suite.mockStockRepo.On("FindYard", ctx, suite.yard.Site, suite.yard.MaterialID).Return(&suite.yard, nil).Once()

	// Available is 800; requesting more must fail without a write.
	_, err := suite.service.Reserve(ctx, suite.opRequest(900), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "UpdateYard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StockServiceTestSuite) TestReserve_NonPositiveQuantity() {
	ctx := context.Background()

	_, err := suite.service.Reserve(ctx, suite.opRequest(0), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "FindYard", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StockServiceTestSuite) TestRelease_Success() {
	ctx := context.Background()

	suite.mockStockRepo.On("FindYard", ctx, suite.yard.Site, suite.yard.MaterialID).Return(&suite.yard, nil).Once()
	suite.mockStockRepo.On("UpdateYard", ctx, mock.MatchedBy(func(y domain.StockYard) bool {
		return y.ReservedStock.Equal(decimal.NewFromInt(50))
	}), suite.yard.Version, mock.MatchedBy(func(m domain.StockMovement) bool {
		return m.Type == domain.MovementRelease
	})).Return(nil).Once()

	updated, err := suite.service.Release(ctx, suite.opRequest(150), suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.ReservedStock.Equal(decimal.NewFromInt(50)))
}

func (suite *StockServiceTestSuite) TestRelease_BeyondReserved() {
	ctx := context.Background()

	suite.mockStockRepo.On("FindYard", ctx, suite.yard.Site, suite.yard.MaterialID).Return(&suite.yard, nil).Once()

	_, err := suite.service.Release(ctx, suite.opRequest(250), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "UpdateYard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StockServiceTestSuite) TestReceive_ExistingYard() {
	ctx := context.Background()

	suite.mockStockRepo.On("FindYard", ctx, suite.yard.Site, suite.yard.MaterialID).Return(&suite.yard, nil).Twice()
	suite.mockStockRepo.On("UpdateYard", ctx, mock.MatchedBy(func(y domain.StockYard) bool {
		return y.CurrentStock.Equal(decimal.NewFromInt(1400)) && y.ReservedStock.Equal(decimal.NewFromInt(200))
	}), suite.yard.Version, mock.MatchedBy(func(m domain.StockMovement) bool {
		return m.Type == domain.MovementReceive
	})).Return(nil).Once()

	updated, err := suite.service.Receive(ctx, suite.opRequest(400), suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.CurrentStock.Equal(decimal.NewFromInt(1400)))
	suite.mockStockRepo.AssertNotCalled(suite.T(), "CreateYard", mock.Anything, mock.Anything)
}

func (suite *StockServiceTestSuite) TestReceive_FirstReceiptCreatesYard() {
	ctx := context.Background()
	req := dto.StockOpRequest{
		Site:       "ewekoro",
		MaterialID: "dust",
		Quantity:   decimal.NewFromInt(600),
	}

	suite.mockStockRepo.On("FindYard", ctx, req.Site, req.MaterialID).
		Return(nil, apperrors.NewNotFoundError("yard "+req.Site+"/"+req.MaterialID+" not found")).Once()
	suite.mockStockRepo.On("CreateYard", ctx, mock.MatchedBy(func(y domain.StockYard) bool {
		return y.Site == req.Site && y.MaterialID == req.MaterialID &&
			y.CurrentStock.IsZero() && y.ReservedStock.IsZero() && y.Version == 1
	})).Return(nil).Once()

	freshYard := domain.StockYard{
		YardID:        uuid.NewString(),
		Site:          req.Site,
		MaterialID:    req.MaterialID,
		CurrentStock:  decimal.Zero,
		ReservedStock: decimal.Zero,
		Version:       1,
	}
	suite.mockStockRepo.On("FindYard", ctx, req.Site, req.MaterialID).Return(&freshYard, nil).Once()
	suite.mockStockRepo.On("UpdateYard", ctx, mock.MatchedBy(func(y domain.StockYard) bool {
		return y.CurrentStock.Equal(decimal.NewFromInt(600))
	}), int64(1), mock.Anything).Return(nil).Once()

	updated, err := suite.service.Receive(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.CurrentStock.Equal(decimal.NewFromInt(600)))
	suite.Equal(int64(2), updated.Version)
	suite.mockStockRepo.AssertExpectations(suite.T())
}

func (suite *StockServiceTestSuite) TestDispatch_LeavesReservationsIntact() {
	ctx := context.Background()

	suite.mockStockRepo.On("FindYard", ctx, suite.yard.Site, suite.yard.MaterialID).Return(&suite.yard, nil).Once()
	// Dispatching draws down physical stock only; the 200 reserved for other
	// orders stays put until those orders release it.
	suite.mockStockRepo.On("UpdateYard", ctx, mock.MatchedBy(func(y domain.StockYard) bool {
		return y.CurrentStock.Equal(decimal.NewFromInt(850)) && y.ReservedStock.Equal(decimal.NewFromInt(200))
	}), suite.yard.Version, mock.MatchedBy(func(m domain.StockMovement) bool {
		return m.Type == domain.MovementDispatch
	})).Return(nil).Once()

	updated, err := suite.service.Dispatch(ctx, suite.opRequest(150), suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.CurrentStock.Equal(decimal.NewFromInt(850)))
	suite.True(updated.ReservedStock.Equal(decimal.NewFromInt(200)))
}

func (suite *StockServiceTestSuite) TestDispatch_AfterPartialRelease() {
	ctx := context.Background()
	yard := suite.yard
	yard.CurrentStock = decimal.NewFromInt(850)
	yard.ReservedStock = decimal.NewFromInt(50)

	suite.mockStockRepo.On("FindYard", ctx, yard.Site, yard.MaterialID).Return(&yard, nil).Once()
	suite.mockStockRepo.On("UpdateYard", ctx, mock.MatchedBy(func(y domain.StockYard) bool {
		return y.CurrentStock.Equal(decimal.NewFromInt(700)) && y.ReservedStock.Equal(decimal.NewFromInt(50))
	}), yard.Version, mock.Anything).Return(nil).Once()

	updated, err := suite.service.Dispatch(ctx, suite.opRequest(150), suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.ReservedStock.Equal(decimal.NewFromInt(50)))
}

func (suite *StockServiceTestSuite) TestDispatch_ClampsReservedToRemaining() {
	ctx := context.Background()

	suite.mockStockRepo.On("FindYard", ctx, suite.yard.Site, suite.yard.MaterialID).Return(&suite.yard, nil).Once()
	// 900 dispatched leaves only 100 on the yard, so the 200 reservation is
	// clamped to keep reserved within current.
	suite.mockStockRepo.On("UpdateYard", ctx, mock.MatchedBy(func(y domain.StockYard) bool {
		return y.CurrentStock.Equal(decimal.NewFromInt(100)) && y.ReservedStock.Equal(decimal.NewFromInt(100))
	}), suite.yard.Version, mock.Anything).Return(nil).Once()

	updated, err := suite.service.Dispatch(ctx, suite.opRequest(900), suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.ReservedStock.LessThanOrEqual(updated.CurrentStock))
}

func (suite *StockServiceTestSuite) TestDispatch_BeyondCurrentStock() {
	ctx := context.Background()

	suite.mockStockRepo.On("FindYard", ctx, suite.yard.Site, suite.yard.MaterialID).Return(&suite.yard, nil).Once()

	_, err := suite.service.Dispatch(ctx, suite.opRequest(1500), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "UpdateYard", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StockServiceTestSuite) TestReserve_ConcurrentUpdateSurfaces() {
	ctx := context.Background()

	suite.mockStockRepo.On("FindYard", ctx, suite.yard.Site, suite.yard.MaterialID).Return(&suite.yard, nil).Once()
	suite.mockStockRepo.On("UpdateYard", ctx, mock.Anything, suite.yard.Version, mock.Anything).
		Return(apperrors.ErrConcurrency).Once()

	_, err := suite.service.Reserve(ctx, suite.opRequest(100), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrency)
}

func (suite *StockServiceTestSuite) TestListMovements_DefaultsLimit() {
	ctx := context.Background()

	suite.mockStockRepo.On("ListMovements", ctx, suite.yard.Site, suite.yard.MaterialID, 50).
		Return([]domain.StockMovement{}, nil).Once()

	_, err := suite.service.ListMovements(ctx, dto.ListMovementsParams{
		Site:       suite.yard.Site,
		MaterialID: suite.yard.MaterialID,
	})

	suite.Require().NoError(err)
	suite.mockStockRepo.AssertExpectations(suite.T())
}

func TestStockServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StockServiceTestSuite))
}
