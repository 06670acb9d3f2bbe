package services

import (
	"context"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/quarryworks/quarrybooks/internal/dto"
	"github.com/shopspring/decimal"
)

// CustomerSvc defines operations for customer records
type CustomerSvc interface {
	// CreateCustomer registers a new customer.
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error)

	// GetCustomerByID retrieves a specific customer.
	GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListCustomers retrieves all customers.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)

	// CheckCreditLimit reports whether the customer can take on the additional
	// amount without exceeding their credit limit.
	CheckCreditLimit(ctx context.Context, customerID string, additional decimal.Decimal) (bool, error)
}

// InvoiceSvc defines operations for the invoice lifecycle
type InvoiceSvc interface {
	// CreateInvoice issues a new invoice with VAT, enforcing the customer's
	// credit limit, and posts the revenue journal.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)

	// GetInvoiceByID retrieves a specific invoice.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated list of invoices.
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// ApplyPayment records a cash/bank receipt against an invoice and posts the
	// settlement journal. Overpayment is refused.
	ApplyPayment(ctx context.Context, invoiceID string, req dto.ApplyPaymentRequest, userID string) (*domain.Invoice, error)

	// CancelInvoice cancels an unpaid invoice and reverses its revenue journal.
	CancelInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// RecomputeStatus re-derives the invoice status from amounts and due date.
	// Idempotent; never touches paidAmount.
	RecomputeStatus(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)
}

// PrepaymentSvc defines operations for customer prepayments
type PrepaymentSvc interface {
	// CreatePrepayment records a customer advance and posts the liability journal.
	CreatePrepayment(ctx context.Context, req dto.CreatePrepaymentRequest, creatorUserID string) (*domain.CustomerPrepayment, error)

	// GetPrepaymentByID retrieves a specific prepayment.
	GetPrepaymentByID(ctx context.Context, prepaymentID string) (*domain.CustomerPrepayment, error)

	// ApplyPrepayment draws down a prepayment against an invoice, records the
	// application, and posts the transfer journal.
	ApplyPrepayment(ctx context.Context, invoiceID string, req dto.ApplyPrepaymentRequest, userID string) (*domain.Invoice, error)

	// ListApplications retrieves the drawdown history of a prepayment.
	ListApplications(ctx context.Context, prepaymentID string) ([]domain.PrepaymentApplication, error)
}

// BillingSvcFacade combines all billing-related service interfaces
type BillingSvcFacade interface {
	CustomerSvc
	InvoiceSvc
	PrepaymentSvc
}
