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
	"github.com/shopspring/decimal"
)

var (
	ErrQuantityNotPositive = errors.New("quantity must be positive")
	ErrInsufficientStock   = errors.New("insufficient available stock")
	ErrOverRelease         = errors.New("release exceeds reserved stock")
)

// stockService keeps the per-yard reservation ledger consistent: after every
// committed operation 0 <= reserved <= current holds.
type stockService struct {
	stockRepo portsrepo.StockRepositoryFacade
}

// NewStockService creates a new stock service.
func NewStockService(stockRepo portsrepo.StockRepositoryFacade) portssvc.StockSvcFacade {
	return &stockService{stockRepo: stockRepo}
}

var _ portssvc.StockSvcFacade = (*stockService)(nil)

// GetYard retrieves the yard record for one (site, material) pair.
func (s *stockService) GetYard(ctx context.Context, site, materialID string) (*domain.StockYard, error) {
	yard, err := s.stockRepo.FindYard(ctx, site, materialID)
	if err != nil {
		return nil, fmt.Errorf("failed to find yard %s/%s: %w", site, materialID, err)
	}
	return yard, nil
}

// ListYards retrieves all yard records for a site.
func (s *stockService) ListYards(ctx context.Context, site string) ([]domain.StockYard, error) {
	yards, err := s.stockRepo.ListYards(ctx, site)
	if err != nil {
		return nil, fmt.Errorf("failed to list yards for site %s: %w", site, err)
	}
	return yards, nil
}

// ListMovements retrieves the most recent movements of a yard.
func (s *stockService) ListMovements(ctx context.Context, params dto.ListMovementsParams) ([]domain.StockMovement, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	movements, err := s.stockRepo.ListMovements(ctx, params.Site, params.MaterialID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, nil
}

// Reserve holds quantity against a pending order.
func (s *stockService) Reserve(ctx context.Context, req dto.StockOpRequest, userID string) (*domain.StockYard, error) {
	return s.mutateYard(ctx, req, userID, domain.MovementReserve, func(yard *domain.StockYard) error {
		if req.Quantity.GreaterThan(yard.AvailableStock()) {
			return fmt.Errorf("%w: %v: available %s, requested %s",
				apperrors.ErrValidation, ErrInsufficientStock, yard.AvailableStock().String(), req.Quantity.String())
		}
		yard.ReservedStock = yard.ReservedStock.Add(req.Quantity)
		return nil
	})
}

// Release returns reserved quantity to the available pool.
func (s *stockService) Release(ctx context.Context, req dto.StockOpRequest, userID string) (*domain.StockYard, error) {
	return s.mutateYard(ctx, req, userID, domain.MovementRelease, func(yard *domain.StockYard) error {
		if req.Quantity.GreaterThan(yard.ReservedStock) {
			return fmt.Errorf("%w: %v: reserved %s, requested %s",
				apperrors.ErrValidation, ErrOverRelease, yard.ReservedStock.String(), req.Quantity.String())
		}
		yard.ReservedStock = yard.ReservedStock.Sub(req.Quantity)
		return nil
	})
}

// Receive adds produced or purchased quantity to the yard, creating the yard
// record on first receipt.
func (s *stockService) Receive(ctx context.Context, req dto.StockOpRequest, userID string) (*domain.StockYard, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrQuantityNotPositive)
	}

	_, err := s.stockRepo.FindYard(ctx, req.Site, req.MaterialID)
	if errors.Is(err, apperrors.ErrNotFound) {
		now := time.Now().UTC()
		yard := domain.StockYard{
			YardID:        uuid.NewString(),
			Site:          req.Site,
			MaterialID:    req.MaterialID,
			CurrentStock:  decimal.Zero,
			ReservedStock: decimal.Zero,
			Version:       1,
			LastUpdated:   now,
			AuditFields:   newAudit(userID, now),
		}
		if err := s.stockRepo.CreateYard(ctx, yard); err != nil {
			logger.Error("Failed to create yard", slog.String("error", err.Error()), slog.String("site", req.Site), slog.String("material_id", req.MaterialID))
			return nil, fmt.Errorf("failed to create yard: %w", err)
		}
		logger.Info("Yard created", slog.String("yard_id", yard.YardID), slog.String("site", req.Site), slog.String("material_id", req.MaterialID))
	} else if err != nil {
		return nil, fmt.Errorf("failed to find yard %s/%s: %w", req.Site, req.MaterialID, err)
	}

	return s.mutateYard(ctx, req, userID, domain.MovementReceive, func(yard *domain.StockYard) error {
		yard.CurrentStock = yard.CurrentStock.Add(req.Quantity)
		return nil
	})
}

// Dispatch removes quantity from the yard, consuming any matching reservation.
func (s *stockService) Dispatch(ctx context.Context, req dto.StockOpRequest, userID string) (*domain.StockYard, error) {
	return s.mutateYard(ctx, req, userID, domain.MovementDispatch, func(yard *domain.StockYard) error {
		if req.Quantity.GreaterThan(yard.CurrentStock) {
			return fmt.Errorf("%w: %v: current %s, requested %s",
				apperrors.ErrValidation, ErrInsufficientStock, yard.CurrentStock.String(), req.Quantity.String())
		}
		yard.CurrentStock = yard.CurrentStock.Sub(req.Quantity)
		// Dispatch only draws down the physical stock; reservations are
		// consumed by an explicit release. Clamp reserved to what remains so
		// the reserved-within-current invariant holds.
		if yard.ReservedStock.GreaterThan(yard.CurrentStock) {
			yard.ReservedStock = yard.CurrentStock
		}
		return nil
	})
}

// mutateYard applies one yard operation: it re-reads the yard, applies the
// mutation, and persists the result guarded on the version stamp read. A failed
// mutation leaves the yard untouched.
func (s *stockService) mutateYard(ctx context.Context, req dto.StockOpRequest, userID string, movementType domain.StockMovementType, mutate func(*domain.StockYard) error) (*domain.StockYard, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrQuantityNotPositive)
	}

	yard, err := s.stockRepo.FindYard(ctx, req.Site, req.MaterialID)
	if err != nil {
		return nil, fmt.Errorf("failed to find yard %s/%s: %w", req.Site, req.MaterialID, err)
	}

	expectedVersion := yard.Version
	updated := *yard
	if err := mutate(&updated); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated.LastUpdated = now
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	movement := domain.StockMovement{
		MovementID: uuid.NewString(),
		YardID:     yard.YardID,
		Site:       yard.Site,
		MaterialID: yard.MaterialID,
		Type:       movementType,
		Quantity:   req.Quantity,
		Reference:  req.Reference,
		CreatedAt:  now,
		CreatedBy:  userID,
	}

	if err := s.stockRepo.UpdateYard(ctx, updated, expectedVersion, movement); err != nil {
		logger.Error("Failed to update yard",
			slog.String("error", err.Error()),
			slog.String("yard_id", yard.YardID),
			slog.String("movement_type", string(movementType)),
		)
		return nil, fmt.Errorf("failed to update yard: %w", err)
	}

	updated.Version = expectedVersion + 1
	logger.Info("Yard updated",
		slog.String("yard_id", yard.YardID),
		slog.String("movement_type", string(movementType)),
		slog.String("quantity", req.Quantity.String()),
	)
	return &updated, nil
}
