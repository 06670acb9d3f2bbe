package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockYard tracks material quantities for one (site, material) pair.
// Invariants after every committed operation:
// 0 <= ReservedStock <= CurrentStock.
type StockYard struct {
	YardID        string          `json:"yardID"` // Primary Key (UUID)
	Site          string          `json:"site"`
	MaterialID    string          `json:"materialID"`
	CurrentStock  decimal.Decimal `json:"currentStock"`
	ReservedStock decimal.Decimal `json:"reservedStock"`
	Version       int64           `json:"version"` // Optimistic concurrency stamp
	LastUpdated   time.Time       `json:"lastUpdated"`
	AuditFields
}

// AvailableStock is currentStock - reservedStock.
func (y StockYard) AvailableStock() decimal.Decimal {
	return y.CurrentStock.Sub(y.ReservedStock)
}

// StockMovementType enumerates the supported yard operations.
type StockMovementType string

const (
	MovementReserve  StockMovementType = "RESERVE"
	MovementRelease  StockMovementType = "RELEASE"
	MovementReceive  StockMovementType = "RECEIVE"
	MovementDispatch StockMovementType = "DISPATCH"
)

// StockMovement is the audit record appended for every yard operation.
type StockMovement struct {
	MovementID string            `json:"movementID"`
	YardID     string            `json:"yardID"`
	Site       string            `json:"site"`
	MaterialID string            `json:"materialID"`
	Type       StockMovementType `json:"type"`
	Quantity   decimal.Decimal   `json:"quantity"`
	Reference  string            `json:"reference"` // Order / ticket reference, optional
	CreatedAt  time.Time         `json:"createdAt"`
	CreatedBy  string            `json:"createdBy"`
}
