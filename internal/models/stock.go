package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockYard represents a row of the stock_yards table, keyed (site, material_id).
type StockYard struct {
	YardID        string          `db:"yard_id"`
	Site          string          `db:"site"`
	MaterialID    string          `db:"material_id"`
	CurrentStock  decimal.Decimal `db:"current_stock"`
	ReservedStock decimal.Decimal `db:"reserved_stock"`
	Version       int64           `db:"version"`
	LastUpdated   time.Time       `db:"last_updated"`
	AuditFields
}

// StockMovement represents a row of the stock_movements audit table.
type StockMovement struct {
	MovementID string          `db:"movement_id"`
	YardID     string          `db:"yard_id"`
	Site       string          `db:"site"`
	MaterialID string          `db:"material_id"`
	Type       string          `db:"movement_type"`
	Quantity   decimal.Decimal `db:"quantity"`
	Reference  string          `db:"reference"`
	CreatedAt  time.Time       `db:"created_at"`
	CreatedBy  string          `db:"created_by"`
}
