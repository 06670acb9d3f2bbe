package domain

import "github.com/shopspring/decimal"

// Customer holds the credit bookkeeping for one buyer of quarry material.
// OutstandingBalance reflects the sum of outstanding invoice balances; it is
// mutated only by the billing operations, never written directly.
type Customer struct {
	CustomerID         string          `json:"customerID"` // Primary Key (UUID)
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	CreditLimit        decimal.Decimal `json:"creditLimit"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	IsActive           bool            `json:"isActive"`
	Version            int64           `json:"version"` // Optimistic concurrency stamp
	AuditFields
}

// AvailableCredit is creditLimit - outstandingBalance. It may be computed as
// negative transiently; operations that would drive it negative must be refused
// before committing.
func (c Customer) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.OutstandingBalance)
}
