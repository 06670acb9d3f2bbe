package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/quarryworks/quarrybooks/internal/apperrors"
	"github.com/quarryworks/quarrybooks/internal/core/domain"
	portsrepo "github.com/quarryworks/quarrybooks/internal/core/ports/repositories"
	"github.com/quarryworks/quarrybooks/internal/models"
	"github.com/quarryworks/quarrybooks/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const yardColumns = `yard_id, site, material_id, current_stock, reserved_stock, version, last_updated, created_at, created_by, last_updated_at, last_updated_by`

const movementColumns = `movement_id, yard_id, site, material_id, movement_type, quantity, reference, created_at, created_by`

type PgxStockRepository struct {
	BaseRepository
}

// newPgxStockRepository creates a new repository for stock yard data.
func newPgxStockRepository(pool *pgxpool.Pool) portsrepo.StockRepositoryFacade {
	return &PgxStockRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StockRepositoryFacade = (*PgxStockRepository)(nil)

func scanYard(row pgx.Row) (models.StockYard, error) {
	var m models.StockYard
	err := row.Scan(
		&m.YardID,
		&m.Site,
		&m.MaterialID,
		&m.CurrentStock,
		&m.ReservedStock,
		&m.Version,
		&m.LastUpdated,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindYard retrieves the yard record for one (site, material) pair.
func (r *PgxStockRepository) FindYard(ctx context.Context, site, materialID string) (*domain.StockYard, error) {
	query := `SELECT ` + yardColumns + ` FROM stock_yards WHERE site = $1 AND material_id = $2;`

	m, err := scanYard(r.Pool.QueryRow(ctx, query, site, materialID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find yard %s/%s: %w", site, materialID, err)
	}

	d := mapping.ToDomainStockYard(m)
	return &d, nil
}

// ListYards retrieves all yard records for a site ordered by material.
func (r *PgxStockRepository) ListYards(ctx context.Context, site string) ([]domain.StockYard, error) {
	query := `SELECT ` + yardColumns + ` FROM stock_yards WHERE site = $1 ORDER BY material_id;`

	rows, err := r.Pool.Query(ctx, query, site)
	if err != nil {
		return nil, fmt.Errorf("failed to query yards for site %s: %w", site, err)
	}
	defer rows.Close()

	yards := []domain.StockYard{}
	for rows.Next() {
		m, err := scanYard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan yard row for site %s: %w", site, err)
		}
		yards = append(yards, mapping.ToDomainStockYard(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating yard rows for site %s: %w", site, err)
	}

	return yards, nil
}

// ListMovements retrieves the most recent movements of a yard, newest first.
func (r *PgxStockRepository) ListMovements(ctx context.Context, site, materialID string, limit int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE site = $1 AND material_id = $2
		ORDER BY created_at DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, site, materialID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for %s/%s: %w", site, materialID, err)
	}
	defer rows.Close()

	movementModels := []models.StockMovement{}
	for rows.Next() {
		var m models.StockMovement
		err := rows.Scan(
			&m.MovementID,
			&m.YardID,
			&m.Site,
			&m.MaterialID,
			&m.Type,
			&m.Quantity,
			&m.Reference,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement row for %s/%s: %w", site, materialID, err)
		}
		movementModels = append(movementModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows for %s/%s: %w", site, materialID, err)
	}

	return mapping.ToDomainStockMovementSlice(movementModels), nil
}

// CreateYard inserts a new yard record for a (site, material) pair.
func (r *PgxStockRepository) CreateYard(ctx context.Context, yard domain.StockYard) error {
	m := mapping.ToModelStockYard(yard)

	query := `
		INSERT INTO stock_yards (` + yardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.YardID,
		m.Site,
		m.MaterialID,
		m.CurrentStock,
		m.ReservedStock,
		m.Version,
		m.LastUpdated,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if translated := translateConstraintErr(err); errors.Is(translated, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: yard %s/%s already exists", apperrors.ErrDuplicate, m.Site, m.MaterialID)
		}
		return fmt.Errorf("failed to create yard %s/%s: %w", m.Site, m.MaterialID, err)
	}
	return nil
}

// UpdateYard persists new quantities for a yard and appends the movement audit
// row in one transaction. The write is guarded on expectedVersion; a stale
// stamp affects no rows and surfaces as a concurrency error.
func (r *PgxStockRepository) UpdateYard(ctx context.Context, yard domain.StockYard, expectedVersion int64, movement domain.StockMovement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelStockYard(yard)
	updateQuery := `
		UPDATE stock_yards
		SET current_stock = $2, reserved_stock = $3, version = version + 1,
		    last_updated = $4, last_updated_at = $5, last_updated_by = $6
		WHERE yard_id = $1 AND version = $7;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		m.YardID,
		m.CurrentStock,
		m.ReservedStock,
		m.LastUpdated,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update yard %s: %w", m.YardID, translateConstraintErr(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: yard %s was modified concurrently", apperrors.ErrConcurrency, m.YardID)
	}

	mm := mapping.ToModelStockMovement(movement)
	movementQuery := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, movementQuery,
		mm.MovementID,
		mm.YardID,
		mm.Site,
		mm.MaterialID,
		mm.Type,
		mm.Quantity,
		mm.Reference,
		mm.CreatedAt,
		mm.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movement %s: %w", mm.MovementID, err)
	}

	return r.Commit(ctx, tx)
}
