package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a row of the customers table.
type Customer struct {
	CustomerID         string          `db:"customer_id"`
	Name               string          `db:"name"`
	Phone              string          `db:"phone"`
	CreditLimit        decimal.Decimal `db:"credit_limit"`
	OutstandingBalance decimal.Decimal `db:"outstanding_balance"`
	IsActive           bool            `db:"is_active"`
	Version            int64           `db:"version"`
	AuditFields
}

// Invoice represents a row of the invoices table.
type Invoice struct {
	InvoiceID         string          `db:"invoice_id"`
	InvoiceNo         string          `db:"invoice_no"`
	CustomerID        string          `db:"customer_id"`
	SourceRef         string          `db:"source_ref"` // Nullable
	InvoiceDate       time.Time       `db:"invoice_date"`
	DueDate           time.Time       `db:"due_date"`
	SubTotal          decimal.Decimal `db:"sub_total"`
	VATAmount         decimal.Decimal `db:"vat_amount"`
	TotalAmount       decimal.Decimal `db:"total_amount"`
	PaidAmount        decimal.Decimal `db:"paid_amount"`
	PrepaymentApplied decimal.Decimal `db:"prepayment_applied"`
	Status            string          `db:"status"`
	JournalID         *string         `db:"journal_id"` // Nullable
	Version           int64           `db:"version"`
	AuditFields
}

// CustomerPrepayment represents a row of the customer_prepayments table.
type CustomerPrepayment struct {
	PrepaymentID string          `db:"prepayment_id"`
	CustomerID   string          `db:"customer_id"`
	Reference    string          `db:"reference"`
	Amount       decimal.Decimal `db:"amount"`
	UsedAmount   decimal.Decimal `db:"used_amount"`
	Status       string          `db:"status"`
	Version      int64           `db:"version"`
	AuditFields
}

// PrepaymentApplication represents a row of the prepayment_applications table.
type PrepaymentApplication struct {
	ApplicationID string          `db:"application_id"`
	PrepaymentID  string          `db:"prepayment_id"`
	InvoiceID     string          `db:"invoice_id"`
	AppliedAmount decimal.Decimal `db:"applied_amount"`
	AppliedAt     time.Time       `db:"applied_at"`
	AppliedBy     string          `db:"applied_by"`
}
