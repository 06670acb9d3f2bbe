package mapping

import (
	"github.com/quarryworks/quarrybooks/internal/core/domain"
	"github.com/quarryworks/quarrybooks/internal/models"
)

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:         d.CustomerID,
		Name:               d.Name,
		Phone:              d.Phone,
		CreditLimit:        d.CreditLimit,
		OutstandingBalance: d.OutstandingBalance,
		IsActive:           d.IsActive,
		Version:            d.Version,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:         m.CustomerID,
		Name:               m.Name,
		Phone:              m.Phone,
		CreditLimit:        m.CreditLimit,
		OutstandingBalance: m.OutstandingBalance,
		IsActive:           m.IsActive,
		Version:            m.Version,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:         d.InvoiceID,
		InvoiceNo:         d.InvoiceNo,
		CustomerID:        d.CustomerID,
		SourceRef:         d.SourceRef,
		InvoiceDate:       d.InvoiceDate,
		DueDate:           d.DueDate,
		SubTotal:          d.SubTotal,
		VATAmount:         d.VATAmount,
		TotalAmount:       d.TotalAmount,
		PaidAmount:        d.PaidAmount,
		PrepaymentApplied: d.PrepaymentApplied,
		Status:            string(d.Status),
		JournalID:         d.JournalID,
		Version:           d.Version,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:         m.InvoiceID,
		InvoiceNo:         m.InvoiceNo,
		CustomerID:        m.CustomerID,
		SourceRef:         m.SourceRef,
		InvoiceDate:       m.InvoiceDate,
		DueDate:           m.DueDate,
		SubTotal:          m.SubTotal,
		VATAmount:         m.VATAmount,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		PrepaymentApplied: m.PrepaymentApplied,
		Status:            domain.InvoiceStatus(m.Status),
		JournalID:         m.JournalID,
		Version:           m.Version,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceSlice converts a slice of model Invoices to domain Invoices
func ToDomainInvoiceSlice(ms []models.Invoice) []domain.Invoice {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoice(m)
	}
	return ds
}

// ToModelPrepayment converts a domain CustomerPrepayment to a model CustomerPrepayment
func ToModelPrepayment(d domain.CustomerPrepayment) models.CustomerPrepayment {
	return models.CustomerPrepayment{
		PrepaymentID: d.PrepaymentID,
		CustomerID:   d.CustomerID,
		Reference:    d.Reference,
		Amount:       d.Amount,
		UsedAmount:   d.UsedAmount,
		Status:       string(d.Status),
		Version:      d.Version,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPrepayment converts a model CustomerPrepayment to a domain CustomerPrepayment
func ToDomainPrepayment(m models.CustomerPrepayment) domain.CustomerPrepayment {
	return domain.CustomerPrepayment{
		PrepaymentID: m.PrepaymentID,
		CustomerID:   m.CustomerID,
		Reference:    m.Reference,
		Amount:       m.Amount,
		UsedAmount:   m.UsedAmount,
		Status:       domain.PrepaymentStatus(m.Status),
		Version:      m.Version,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPrepaymentApplication converts a domain PrepaymentApplication to its model
func ToModelPrepaymentApplication(d domain.PrepaymentApplication) models.PrepaymentApplication {
	return models.PrepaymentApplication{
		ApplicationID: d.ApplicationID,
		PrepaymentID:  d.PrepaymentID,
		InvoiceID:     d.InvoiceID,
		AppliedAmount: d.AppliedAmount,
		AppliedAt:     d.AppliedAt,
		AppliedBy:     d.AppliedBy,
	}
}

// ToDomainPrepaymentApplication converts a model PrepaymentApplication to its domain form
func ToDomainPrepaymentApplication(m models.PrepaymentApplication) domain.PrepaymentApplication {
	return domain.PrepaymentApplication{
		ApplicationID: m.ApplicationID,
		PrepaymentID:  m.PrepaymentID,
		InvoiceID:     m.InvoiceID,
		AppliedAmount: m.AppliedAmount,
		AppliedAt:     m.AppliedAt,
		AppliedBy:     m.AppliedBy,
	}
}

// ToDomainPrepaymentApplicationSlice converts model applications to domain applications
func ToDomainPrepaymentApplicationSlice(ms []models.PrepaymentApplication) []domain.PrepaymentApplication {
	ds := make([]domain.PrepaymentApplication, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPrepaymentApplication(m)
	}
	return ds
}
