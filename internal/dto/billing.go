package dto

import (
	"time"

	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest defines the payload for registering a customer.
type CreateCustomerRequest struct {
	Name        string          `json:"name" binding:"required"`
	Phone       string          `json:"phone"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID         string          `json:"customerID"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone,omitempty"`
	CreditLimit        decimal.Decimal `json:"creditLimit"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	AvailableCredit    decimal.Decimal `json:"availableCredit"`
	IsActive           bool            `json:"isActive"`
}

// CreditCheckResponse defines the answer to a credit-limit query.
type CreditCheckResponse struct {
	CustomerID      string          `json:"customerID"`
	Amount          decimal.Decimal `json:"amount"`
	WithinLimit     bool            `json:"withinLimit"`
	AvailableCredit decimal.Decimal `json:"availableCredit"`
}

// CreateInvoiceRequest defines the payload for issuing an invoice. VAT is
// computed server-side from the subtotal. AllowCreditOverride lets a
// supervisor issue past the customer's credit limit.
type CreateInvoiceRequest struct {
	CustomerID          string          `json:"customerID" binding:"required"`
	SourceRef           string          `json:"sourceRef"`
	DueDate             time.Time       `json:"dueDate" binding:"required"`
	SubTotal            decimal.Decimal `json:"subTotal" binding:"required"`
	AllowCreditOverride bool            `json:"allowCreditOverride"`
}

// ApplyPaymentRequest defines the payload for recording a cash/bank payment
// against an invoice.
type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreatePrepaymentRequest defines the payload for recording a customer advance.
type CreatePrepaymentRequest struct {
	CustomerID string          `json:"customerID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Reference  string          `json:"reference"`
}

// ApplyPrepaymentRequest defines the payload for drawing down a prepayment
// against an invoice.
type ApplyPrepaymentRequest struct {
	PrepaymentID string          `json:"prepaymentID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID          string          `json:"invoiceID"`
	InvoiceNo          string          `json:"invoiceNo"`
	CustomerID         string          `json:"customerID"`
	SourceRef          string          `json:"sourceRef,omitempty"`
	InvoiceDate        time.Time       `json:"invoiceDate"`
	DueDate            time.Time       `json:"dueDate"`
	SubTotal           decimal.Decimal `json:"subTotal"`
	VATAmount          decimal.Decimal `json:"vatAmount"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	PaidAmount         decimal.Decimal `json:"paidAmount"`
	PrepaymentApplied  decimal.Decimal `json:"prepaymentApplied"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	Status             string          `json:"status"`
}

// PrepaymentResponse defines the data returned for a customer prepayment.
type PrepaymentResponse struct {
	PrepaymentID    string          `json:"prepaymentID"`
	CustomerID      string          `json:"customerID"`
	Reference       string          `json:"reference,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	UsedAmount      decimal.Decimal `json:"usedAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          string          `json:"status"`
}

// PrepaymentApplicationResponse defines the data returned for one drawdown.
type PrepaymentApplicationResponse struct {
	ApplicationID string          `json:"applicationID"`
	PrepaymentID  string          `json:"prepaymentID"`
	InvoiceID     string          `json:"invoiceID"`
	AppliedAmount decimal.Decimal `json:"appliedAmount"`
	AppliedAt     time.Time       `json:"appliedAt"`
	AppliedBy     string          `json:"appliedBy"`
}

// ListInvoicesParams holds parameters for listing a customer's invoices.
type ListInvoicesParams struct {
	CustomerID string  `form:"customerID"`
	Status     string  `form:"status"`
	Limit      int     `form:"limit"`
	NextToken  *string `form:"nextToken"`
}

// ListInvoicesResponse is the paginated invoice listing.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:         c.CustomerID,
		Name:               c.Name,
		Phone:              c.Phone,
		CreditLimit:        c.CreditLimit,
		OutstandingBalance: c.OutstandingBalance,
		AvailableCredit:    c.AvailableCredit(),
		IsActive:           c.IsActive,
	}
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
func ToInvoiceResponse(i *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:          i.InvoiceID,
		InvoiceNo:          i.InvoiceNo,
		CustomerID:         i.CustomerID,
		SourceRef:          i.SourceRef,
		InvoiceDate:        i.InvoiceDate,
		DueDate:            i.DueDate,
		SubTotal:           i.SubTotal,
		VATAmount:          i.VATAmount,
		TotalAmount:        i.TotalAmount,
		PaidAmount:         i.PaidAmount,
		PrepaymentApplied:  i.PrepaymentApplied,
		OutstandingBalance: i.OutstandingBalance(),
		Status:             string(i.Status),
	}
}

// ToInvoiceResponses converts a slice of domain.Invoice to []InvoiceResponse.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}

// ToPrepaymentResponse converts a domain.CustomerPrepayment to its DTO.
func ToPrepaymentResponse(p *domain.CustomerPrepayment) PrepaymentResponse {
	return PrepaymentResponse{
		PrepaymentID:    p.PrepaymentID,
		CustomerID:      p.CustomerID,
		Reference:       p.Reference,
		Amount:          p.Amount,
		UsedAmount:      p.UsedAmount,
		RemainingAmount: p.RemainingAmount(),
		Status:          string(p.Status),
	}
}

// ToPrepaymentApplicationResponse converts a domain.PrepaymentApplication to its DTO.
func ToPrepaymentApplicationResponse(a *domain.PrepaymentApplication) PrepaymentApplicationResponse {
	return PrepaymentApplicationResponse{
		ApplicationID: a.ApplicationID,
		PrepaymentID:  a.PrepaymentID,
		InvoiceID:     a.InvoiceID,
		AppliedAmount: a.AppliedAmount,
		AppliedAt:     a.AppliedAt,
		AppliedBy:     a.AppliedBy,
	}
}
