package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PrepaymentStatus is the lifecycle state of a customer prepayment.
type PrepaymentStatus string

const (
	PrepaymentActive    PrepaymentStatus = "ACTIVE"
	PrepaymentExhausted PrepaymentStatus = "EXHAUSTED"
	PrepaymentCancelled PrepaymentStatus = "CANCELLED"
)

// CustomerPrepayment is an advance payment held against future invoices.
// Invariant: 0 <= UsedAmount <= Amount, and the sum of its applications equals UsedAmount.
type CustomerPrepayment struct {
	PrepaymentID string           `json:"prepaymentID"` // Primary Key (UUID)
	CustomerID   string           `json:"customerID"`
	Reference    string           `json:"reference"` // Receipt / teller reference
	Amount       decimal.Decimal  `json:"amount"`
	UsedAmount   decimal.Decimal  `json:"usedAmount"`
	Status       PrepaymentStatus `json:"status"`
	Version      int64            `json:"version"` // Optimistic concurrency stamp
	AuditFields
}

// RemainingAmount is amount - usedAmount.
func (p CustomerPrepayment) RemainingAmount() decimal.Decimal {
	return p.Amount.Sub(p.UsedAmount)
}

// PrepaymentApplication ties a portion of a prepayment to one invoice.
type PrepaymentApplication struct {
	ApplicationID string          `json:"applicationID"`
	PrepaymentID  string          `json:"prepaymentID"`
	InvoiceID     string          `json:"invoiceID"`
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
	AppliedAt     time.Time       `json:"appliedAt"`
	AppliedBy     string          `json:"appliedBy"`
}
