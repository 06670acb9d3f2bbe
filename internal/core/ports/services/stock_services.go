package services

import (
	"context"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/quarryworks/quarrybooks/internal/dto"
)

// StockReaderSvc defines read operations for stock yards
type StockReaderSvc interface {
	// GetYard retrieves the yard record for one (site, material) pair.
	GetYard(ctx context.Context, site, materialID string) (*domain.StockYard, error)

	// ListYards retrieves all yard records for a site.
	ListYards(ctx context.Context, site string) ([]domain.StockYard, error)

	// ListMovements retrieves the most recent movements of a yard.
	ListMovements(ctx context.Context, params dto.ListMovementsParams) ([]domain.StockMovement, error)
}

// StockWriterSvc defines the yard operations
type StockWriterSvc interface {
	// Reserve holds quantity against a pending order. Fails when quantity
	// exceeds available stock.
	Reserve(ctx context.Context, req dto.StockOpRequest, userID string) (*domain.StockYard, error)

	// Release returns reserved quantity to the available pool. Fails when
	// quantity exceeds reserved stock.
	Release(ctx context.Context, req dto.StockOpRequest, userID string) (*domain.StockYard, error)

	// Receive adds produced/purchased quantity to the yard, creating the yard
	// record on first receipt.
	Receive(ctx context.Context, req dto.StockOpRequest, userID string) (*domain.StockYard, error)

	// Dispatch removes quantity from the yard, consuming the matching
	// reservation first.
	Dispatch(ctx context.Context, req dto.StockOpRequest, userID string) (*domain.StockYard, error)
}

// StockSvcFacade combines all stock-related service interfaces
type StockSvcFacade interface {
	StockReaderSvc
	StockWriterSvc
}
