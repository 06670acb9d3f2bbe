package dto

import (
	"time"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StockOpRequest defines the payload for a yard operation
// (reserve, release, receive, dispatch).
type StockOpRequest struct {
	Site       string          `json:"site" binding:"required"`
	MaterialID string          `json:"materialID" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Reference  string          `json:"reference"`
}

// StockYardResponse defines the data returned for a yard.
type StockYardResponse struct {
	YardID         string          `json:"yardID"`
	Site           string          `json:"site"`
	MaterialID     string          `json:"materialID"`
	CurrentStock   decimal.Decimal `json:"currentStock"`
	ReservedStock  decimal.Decimal `json:"reservedStock"`
	AvailableStock decimal.Decimal `json:"availableStock"`
	LastUpdated    time.Time       `json:"lastUpdated"`
}

// StockMovementResponse defines the data returned for one yard movement.
type StockMovementResponse struct {
	MovementID string          `json:"movementID"`
	YardID     string          `json:"yardID"`
	Site       string          `json:"site"`
	MaterialID string          `json:"materialID"`
	Type       string          `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reference  string          `json:"reference,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy"`
}

// ListMovementsParams holds parameters for listing yard movements.
type ListMovementsParams struct {
	Site       string `form:"site" binding:"required"`
	MaterialID string `form:"materialID" binding:"required"`
	Limit      int    `form:"limit"`
}

// ToStockYardResponse converts a domain.StockYard to StockYardResponse DTO.
func ToStockYardResponse(y *domain.StockYard) StockYardResponse {
	return StockYardResponse{
		YardID:         y.YardID,
		Site:           y.Site,
		MaterialID:     y.MaterialID,
		CurrentStock:   y.CurrentStock,
		ReservedStock:  y.ReservedStock,
		AvailableStock: y.AvailableStock(),
		LastUpdated:    y.LastUpdated,
	}
}

// ToStockYardResponses converts a slice of domain.StockYard to []StockYardResponse.
func ToStockYardResponses(yards []domain.StockYard) []StockYardResponse {
	responses := make([]StockYardResponse, len(yards))
	for i := range yards {
		responses[i] = ToStockYardResponse(&yards[i])
	}
	return responses
}

// ToStockMovementResponse converts a domain.StockMovement to its DTO.
func ToStockMovementResponse(m *domain.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		MovementID: m.MovementID,
		YardID:     m.YardID,
		Site:       m.Site,
		MaterialID: m.MaterialID,
		Type:       string(m.Type),
		Quantity:   m.Quantity,
		Reference:  m.Reference,
		CreatedAt:  m.CreatedAt,
		CreatedBy:  m.CreatedBy,
	}
}

// ToStockMovementResponses converts a slice of domain.StockMovement to its DTOs.
func ToStockMovementResponses(movements []domain.StockMovement) []StockMovementResponse {
	responses := make([]StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses
}
