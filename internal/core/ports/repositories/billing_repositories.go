package repositories

import (
	"context"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CustomerReader defines read operations for customers
type CustomerReader interface {
	// FindCustomerByID retrieves a single customer.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListCustomers retrieves all customers.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

// CustomerWriter defines write operations for customers
type CustomerWriter interface {
	// SaveCustomer persists a new customer.
	SaveCustomer(ctx context.Context, customer domain.Customer) error
}

// InvoiceReader defines read operations for invoices
type InvoiceReader interface {
	// FindInvoiceByID retrieves a single invoice.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices, optionally filtered by
	// customer and status.
	ListInvoices(ctx context.Context, customerID string, status string, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// PrepaymentReader defines read operations for customer prepayments
type PrepaymentReader interface {
	// FindPrepaymentByID retrieves a single prepayment.
	FindPrepaymentByID(ctx context.Context, prepaymentID string) (*domain.CustomerPrepayment, error)

	// FindApplicationsByPrepaymentID retrieves the application records of a prepayment.
	FindApplicationsByPrepaymentID(ctx context.Context, prepaymentID string) ([]domain.PrepaymentApplication, error)
}

// BillingWriter defines the atomic write operations of the billing engine.
// Each method is one database transaction. The invoice/customer/prepayment
// arguments carry the Version stamp they were read at; a stale stamp means the
// update affects no rows and the whole transaction rolls back with a
// concurrency error.
type BillingWriter interface {
	// CreateInvoice inserts the invoice, bumps the customer's outstanding balance
	// and posts the receivable journal.
	CreateInvoice(ctx context.Context, invoice domain.Invoice, customer domain.Customer, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error)

	// UpdateInvoicePayment applies a payment: updates the invoice's paid amount
	// and status, decreases the customer's outstanding balance and posts the
	// settlement journal.
	UpdateInvoicePayment(ctx context.Context, invoice domain.Invoice, customer domain.Customer, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error)

	// SavePrepayment inserts a prepayment and posts its receipt journal.
	SavePrepayment(ctx context.Context, prepayment domain.CustomerPrepayment, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error)

	// ApplyPrepayment records a prepayment application: inserts the application
	// row, updates the invoice and prepayment, decreases the customer's
	// outstanding balance and posts the application journal.
	ApplyPrepayment(ctx context.Context, invoice domain.Invoice, prepayment domain.CustomerPrepayment, application domain.PrepaymentApplication, customer domain.Customer, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error)

	// CancelInvoice marks the invoice cancelled, decreases the customer's
	// outstanding balance, posts the reversing journal and flips the original
	// journal to reversed with its linkage.
	CancelInvoice(ctx context.Context, invoice domain.Invoice, customer domain.Customer, originalJournalID string, reversingJournal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) (int64, error)

	// UpdateInvoiceStatus persists a re-derived invoice status, guarded on the
	// invoice's version stamp.
	UpdateInvoiceStatus(ctx context.Context, invoice domain.Invoice, updatedByUserID string) error
}

// BillingRepositoryFacade combines all billing-related repository interfaces
type BillingRepositoryFacade interface {
	CustomerReader
	CustomerWriter
	InvoiceReader
	PrepaymentReader
	BillingWriter
}
