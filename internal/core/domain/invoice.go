package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice. Cancelled is terminal;
// the other states are derived from amounts and the due date.
type InvoiceStatus string

const (
	InvoiceUnpaid    InvoiceStatus = "UNPAID"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Invoice belongs to one customer, optionally derived from a weighbridge ticket.
type Invoice struct {
	InvoiceID         string          `json:"invoiceID"` // Primary Key (UUID)
	InvoiceNo         string          `json:"invoiceNo"` // Human-facing number, unique
	CustomerID        string          `json:"customerID"`
	SourceRef         string          `json:"sourceRef"` // Weighbridge ticket / sales transaction reference
	InvoiceDate       time.Time       `json:"invoiceDate"`
	DueDate           time.Time       `json:"dueDate"`
	SubTotal          decimal.Decimal `json:"subTotal"`
	VATAmount         decimal.Decimal `json:"vatAmount"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	PrepaymentApplied decimal.Decimal `json:"prepaymentApplied"`
	Status            InvoiceStatus   `json:"status"`
	JournalID         *string         `json:"journalID,omitempty"` // Revenue journal posted at issuance
	Version           int64           `json:"version"`             // Optimistic concurrency stamp
	AuditFields
}

// OutstandingBalance is totalAmount - paidAmount. The >= 0 invariant is held by
// the billing operations, not by this computed view.
func (i Invoice) OutstandingBalance() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// DeriveStatus recomputes the lifecycle state from the amounts and due date.
// Idempotent and pure; calling it never mutates paidAmount. Cancelled invoices
// keep their status.
func (i Invoice) DeriveStatus(now time.Time) InvoiceStatus {
	if i.Status == InvoiceCancelled {
		return InvoiceCancelled
	}
	if i.OutstandingBalance().LessThanOrEqual(decimal.Zero) {
		return InvoicePaid
	}
	if now.After(i.DueDate) {
		return InvoiceOverdue
	}
	return InvoiceUnpaid
}
