package mapping

import (
	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/quarryworks/quarrybooks/internal/models"
)

// ToModelStockYard converts a domain StockYard to a model StockYard
func ToModelStockYard(d domain.StockYard) models.StockYard {
	return models.StockYard{
		YardID:        d.YardID,
		Site:          d.Site,
		MaterialID:    d.MaterialID,
		CurrentStock:  d.CurrentStock,
		ReservedStock: d.ReservedStock,
		Version:       d.Version,
		LastUpdated:   d.LastUpdated,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStockYard converts a model StockYard to a domain StockYard
func ToDomainStockYard(m models.StockYard) domain.StockYard {
	return domain.StockYard{
		YardID:        m.YardID,
		Site:          m.Site,
		MaterialID:    m.MaterialID,
		CurrentStock:  m.CurrentStock,
		ReservedStock: m.ReservedStock,
		Version:       m.Version,
		LastUpdated:   m.LastUpdated,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStockMovement converts a domain StockMovement to a model StockMovement
func ToModelStockMovement(d domain.StockMovement) models.StockMovement {
	return models.StockMovement{
		MovementID: d.MovementID,
		YardID:     d.YardID,
		Site:       d.Site,
		MaterialID: d.MaterialID,
		Type:       string(d.Type),
		Quantity:   d.Quantity,
		Reference:  d.Reference,
		CreatedAt:  d.CreatedAt,
		CreatedBy:  d.CreatedBy,
	}
}

// ToDomainStockMovement converts a model StockMovement to a domain StockMovement
func ToDomainStockMovement(m models.StockMovement) domain.StockMovement {
	return domain.StockMovement{
		MovementID: m.MovementID,
		YardID:     m.YardID,
		Site:       m.Site,
		MaterialID: m.MaterialID,
		Type:       domain.StockMovementType(m.Type),
		Quantity:   m.Quantity,
		Reference:  m.Reference,
		CreatedAt:  m.CreatedAt,
		CreatedBy:  m.CreatedBy,
	}
}

// ToDomainStockMovementSlice converts model movements to domain movements
func ToDomainStockMovementSlice(ms []models.StockMovement) []domain.StockMovement {
	ds := make([]domain.StockMovement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStockMovement(m)
	}
	return ds
}
