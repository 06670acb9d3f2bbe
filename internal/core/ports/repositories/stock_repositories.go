package repositories

import (
	"context"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
)

// StockReader defines read operations for stock yards
type StockReader interface {
	// FindYard retrieves the yard record for one (site, material) pair.
	FindYard(ctx context.Context, site, materialID string) (*domain.StockYard, error)

	// ListYards retrieves all yard records for a site.
	ListYards(ctx context.Context, site string) ([]domain.StockYard, error)

	// ListMovements retrieves the most recent movements of a yard, newest first.
	ListMovements(ctx context.Context, site, materialID string, limit int) ([]domain.StockMovement, error)
}

// StockWriter defines write operations for stock yards
type StockWriter interface {
	// CreateYard inserts a new yard record for a (site, material) pair.
	CreateYard(ctx context.Context, yard domain.StockYard) error

	// UpdateYard persists new quantities for a yard and appends the movement
	// audit row in one transaction. The write is guarded on expectedVersion; a
	// stale stamp affects no rows and surfaces as a concurrency error.
	UpdateYard(ctx context.Context, yard domain.StockYard, expectedVersion int64, movement domain.StockMovement) error
}

// StockRepositoryFacade combines all stock-related repository interfaces
type StockRepositoryFacade interface {
	StockReader
	StockWriter
}
