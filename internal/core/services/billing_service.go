package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quarryworks/quarrybooks/internal/apperrors"
	"github.com/quarryworks/quarrybooks/internal/core/domain"
	portsrepo "github.com/quarryworks/quarrybooks/internal/core/ports/repositories"
	portssvc "github.com/quarryworks/quarrybooks/internal/core/ports/services"
	"github.com/quarryworks/quarrybooks/internal/dto"
	"github.com/quarryworks/quarrybooks/internal/middleware"
	"github.com/quarryworks/quarrybooks/internal/platform/config"
	"github.com/shopspring/decimal"
)

var (
	ErrAmountNotPositive             = errors.New("amount must be positive")
	ErrCustomerInactive              = errors.New("customer is inactive")
	ErrCreditLimitExceeded           = errors.New("customer credit limit exceeded")
	ErrOverpayment                   = errors.New("payment exceeds outstanding balance")
	ErrInvoiceCancelled              = errors.New("invoice is cancelled")
	ErrInvoiceHasPayments            = errors.New("invoice has payments recorded against it")
	ErrPrepaymentNotActive           = errors.New("prepayment is not active")
	ErrPrepaymentCustomerMismatch    = errors.New("prepayment belongs to a different customer")
	ErrInsufficientPrepaymentBalance = errors.New("prepayment balance is insufficient")
)

// billingService reconciles invoices, payments and prepayments, posting the
// ledger effect of every money movement.
type billingService struct {
	billingRepo portsrepo.BillingRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	vatRate     decimal.Decimal
	ledger      config.LedgerAccounts
}

// NewBillingService creates a new billing service.
func NewBillingService(billingRepo portsrepo.BillingRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, vatRate decimal.Decimal, ledger config.LedgerAccounts) portssvc.BillingSvcFacade {
	return &billingService{
		billingRepo: billingRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		vatRate:     vatRate,
		ledger:      ledger,
	}
}

var _ portssvc.BillingSvcFacade = (*billingService)(nil)

// CreateCustomer registers a new customer.
func (s *billingService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, creatorUserID string) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Name == "" {
		return nil, fmt.Errorf("%w: customer name is required", apperrors.ErrValidation)
	}
	if req.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("%w: credit limit must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID:         uuid.NewString(),
		Name:               req.Name,
		Phone:              req.Phone,
		CreditLimit:        req.CreditLimit,
		OutstandingBalance: decimal.Zero,
		IsActive:           true,
		Version:            1,
		AuditFields:        newAudit(creatorUserID, now),
	}

	if err := s.billingRepo.SaveCustomer(ctx, customer); err != nil {
		logger.Error("Failed to save customer", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	logger.Info("Customer created", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

// GetCustomerByID retrieves a single customer.
func (s *billingService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.billingRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	return customer, nil
}

// ListCustomers retrieves all customers.
func (s *billingService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.billingRepo.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// CheckCreditLimit reports whether the customer can take on the additional
// amount without exceeding their credit limit.
func (s *billingService) CheckCreditLimit(ctx context.Context, customerID string, additional decimal.Decimal) (bool, error) {
	if additional.IsNegative() {
		return false, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	customer, err := s.billingRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return false, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}

	return !additional.GreaterThan(customer.AvailableCredit()), nil
}

// CreateInvoice issues an invoice with VAT and posts the revenue journal. The
// invoice total is checked against the customer's available credit unless the
// caller explicitly overrides.
func (s *billingService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.SubTotal.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	customer, err := s.billingRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", req.CustomerID, err)
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrCustomerInactive)
	}

	vatAmount := req.SubTotal.Mul(s.vatRate).Round(2)
	totalAmount := req.SubTotal.Add(vatAmount)

	if !req.AllowCreditOverride && totalAmount.GreaterThan(customer.AvailableCredit()) {
		return nil, fmt.Errorf("%w: %v: available %s, invoice total %s",
			apperrors.ErrValidation, ErrCreditLimitExceeded, customer.AvailableCredit().String(), totalAmount.String())
	}

	controlAccounts, err := resolveAccountsByCode(ctx, s.accountRepo, []string{
		s.ledger.AccountsReceivable,
		s.ledger.SalesRevenue,
		s.ledger.VATPayable,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()
	journalID := uuid.NewString()
	invoiceNo := newInvoiceNo(now)

	specs := []lineSpec{
		{AccountCode: s.ledger.AccountsReceivable, Debit: totalAmount, Notes: "Invoice " + invoiceNo},
		{AccountCode: s.ledger.SalesRevenue, Credit: req.SubTotal, Notes: "Invoice " + invoiceNo},
		{AccountCode: s.ledger.VATPayable, Credit: vatAmount, Notes: "VAT on " + invoiceNo},
	}
	lines, err := buildJournalLines(journalID, specs, controlAccounts, creatorUserID, now)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := computeBalanceChanges(lines, accountTypesOf(controlAccounts))
	if err != nil {
		return nil, err
	}

	journal := domain.Journal{
		JournalID:   journalID,
		JournalDate: now,
		Description: fmt.Sprintf("Invoice %s issued to %s", invoiceNo, customer.Name),
		Source:      domain.SourceBilling,
		Status:      domain.Posted,
		Amount:      journalAmount(lines),
		AuditFields: newAudit(creatorUserID, now),
	}

	invoice := domain.Invoice{
		InvoiceID:         invoiceID,
		InvoiceNo:         invoiceNo,
		CustomerID:        customer.CustomerID,
		SourceRef:         req.SourceRef,
		InvoiceDate:       now,
		DueDate:           req.DueDate,
		SubTotal:          req.SubTotal,
		VATAmount:         vatAmount,
		TotalAmount:       totalAmount,
		PaidAmount:        decimal.Zero,
		PrepaymentApplied: decimal.Zero,
		JournalID:         &journalID,
		Version:           1,
		AuditFields:       newAudit(creatorUserID, now),
	}
	invoice.Status = invoice.DeriveStatus(now)

	updatedCustomer := *customer
	updatedCustomer.OutstandingBalance = customer.OutstandingBalance.Add(totalAmount)

	entryNo, err := s.billingRepo.CreateInvoice(ctx, invoice, updatedCustomer, journal, lines, balanceChanges)
	if err != nil {
		logger.Error("Failed to create invoice", slog.String("error", err.Error()), slog.String("customer_id", customer.CustomerID))
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	logger.Info("Invoice created",
		slog.String("invoice_id", invoiceID),
		slog.String("invoice_no", invoiceNo),
		slog.String("total", totalAmount.String()),
		slog.Int64("entry_no", entryNo),
	)
	return &invoice, nil
}

// GetInvoiceByID retrieves a single invoice.
func (s *billingService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.billingRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

// ListInvoices retrieves a paginated list of invoices.
func (s *billingService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	invoices, nextToken, err := s.billingRepo.ListInvoices(ctx, params.CustomerID, params.Status, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return &dto.ListInvoicesResponse{
		Invoices:  dto.ToInvoiceResponses(invoices),
		NextToken: nextToken,
	}, nil
}

// ApplyPayment records a cash receipt against an invoice. Overpayment is
// refused and leaves the invoice untouched.
func (s *billingService) ApplyPayment(ctx context.Context, invoiceID string, req dto.ApplyPaymentRequest, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	invoice, err := s.billingRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.Status == domain.InvoiceCancelled {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrInvoiceCancelled)
	}
	if req.Amount.GreaterThan(invoice.OutstandingBalance()) {
		return nil, fmt.Errorf("%w: %v: outstanding %s, payment %s",
			apperrors.ErrValidation, ErrOverpayment, invoice.OutstandingBalance().String(), req.Amount.String())
	}

	customer, err := s.billingRepo.FindCustomerByID(ctx, invoice.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", invoice.CustomerID, err)
	}

	controlAccounts, err := resolveAccountsByCode(ctx, s.accountRepo, []string{
		s.ledger.Cash,
		s.ledger.AccountsReceivable,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()

	specs := []lineSpec{
		{AccountCode: s.ledger.Cash, Debit: req.Amount, Notes: "Payment for " + invoice.InvoiceNo},
		{AccountCode: s.ledger.AccountsReceivable, Credit: req.Amount, Notes: "Payment for " + invoice.InvoiceNo},
	}
	lines, err := buildJournalLines(journalID, specs, controlAccounts, userID, now)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := computeBalanceChanges(lines, accountTypesOf(controlAccounts))
	if err != nil {
		return nil, err
	}

	journal := domain.Journal{
		JournalID:   journalID,
		JournalDate: now,
		Description: fmt.Sprintf("Payment received for invoice %s", invoice.InvoiceNo),
		Source:      domain.SourceBilling,
		Status:      domain.Posted,
		Amount:      journalAmount(lines),
		AuditFields: newAudit(userID, now),
	}

	updatedInvoice := *invoice
	updatedInvoice.PaidAmount = invoice.PaidAmount.Add(req.Amount)
	updatedInvoice.Status = updatedInvoice.DeriveStatus(now)
	updatedInvoice.LastUpdatedAt = now
	updatedInvoice.LastUpdatedBy = userID

	updatedCustomer := *customer
	updatedCustomer.OutstandingBalance = customer.OutstandingBalance.Sub(req.Amount)

	entryNo, err := s.billingRepo.UpdateInvoicePayment(ctx, updatedInvoice, updatedCustomer, journal, lines, balanceChanges)
	if err != nil {
		logger.Error("Failed to apply payment", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to apply payment: %w", err)
	}

	updatedInvoice.Version = invoice.Version + 1
	logger.Info("Payment applied",
		slog.String("invoice_id", invoiceID),
		slog.String("amount", req.Amount.String()),
		slog.String("status", string(updatedInvoice.Status)),
		slog.Int64("entry_no", entryNo),
	)
	return &updatedInvoice, nil
}

// CancelInvoice cancels an invoice with no payments against it and reverses
// its revenue journal.
func (s *billingService) CancelInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.billingRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.Status == domain.InvoiceCancelled {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrInvoiceCancelled)
	}
	if invoice.PaidAmount.IsPositive() || invoice.PrepaymentApplied.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrInvoiceHasPayments)
	}
	if invoice.JournalID == nil {
		return nil, fmt.Errorf("%w: invoice %s has no revenue journal", apperrors.ErrInternal, invoiceID)
	}

	customer, err := s.billingRepo.FindCustomerByID(ctx, invoice.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", invoice.CustomerID, err)
	}

	originalLines, err := s.journalRepo.FindLinesByJournalID(ctx, *invoice.JournalID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch revenue journal lines: %w", err)
	}

	now := time.Now().UTC()
	reversingJournalID := uuid.NewString()

	reversingLines := make([]domain.JournalLine, len(originalLines))
	accountIDs := make([]string, 0, len(originalLines))
	for i, origLine := range originalLines {
		accountIDs = append(accountIDs, origLine.AccountID)
		reversingLines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   reversingJournalID,
			AccountID:   origLine.AccountID,
			Debit:       origLine.Credit,
			Credit:      origLine.Debit,
			Notes:       "Cancellation of " + invoice.InvoiceNo,
			AuditFields: newAudit(userID, now),
		}
	}

	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for cancellation: %w", err)
	}
	accountTypes := make(map[string]domain.AccountType, len(accountsMap))
	for id, account := range accountsMap {
		accountTypes[id] = account.AccountType
	}
	balanceChanges, err := computeBalanceChanges(reversingLines, accountTypes)
	if err != nil {
		return nil, err
	}

	reversingJournal := domain.Journal{
		JournalID:         reversingJournalID,
		JournalDate:       now,
		Description:       fmt.Sprintf("Cancellation of invoice %s", invoice.InvoiceNo),
		Source:            domain.SourceBilling,
		Status:            domain.Posted,
		OriginalJournalID: invoice.JournalID,
		Amount:            invoice.TotalAmount,
		AuditFields:       newAudit(userID, now),
	}

	updatedInvoice := *invoice
	updatedInvoice.Status = domain.InvoiceCancelled
	updatedInvoice.LastUpdatedAt = now
	updatedInvoice.LastUpdatedBy = userID

	updatedCustomer := *customer
	updatedCustomer.OutstandingBalance = customer.OutstandingBalance.Sub(invoice.TotalAmount)

	entryNo, err := s.billingRepo.CancelInvoice(ctx, updatedInvoice, updatedCustomer, *invoice.JournalID, reversingJournal, reversingLines, balanceChanges)
	if err != nil {
		logger.Error("Failed to cancel invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to cancel invoice: %w", err)
	}

	updatedInvoice.Version = invoice.Version + 1
	logger.Info("Invoice cancelled", slog.String("invoice_id", invoiceID), slog.Int64("entry_no", entryNo))
	return &updatedInvoice, nil
}

// RecomputeStatus re-derives the invoice status from its amounts and due date.
// Idempotent: paidAmount is never touched, and an unchanged status writes nothing.
func (s *billingService) RecomputeStatus(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.billingRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}

	now := time.Now().UTC()
	derived := invoice.DeriveStatus(now)
	if derived == invoice.Status {
		return invoice, nil
	}

	updatedInvoice := *invoice
	updatedInvoice.Status = derived
	updatedInvoice.LastUpdatedAt = now
	updatedInvoice.LastUpdatedBy = userID

	if err := s.billingRepo.UpdateInvoiceStatus(ctx, updatedInvoice, userID); err != nil {
		logger.Error("Failed to update invoice status", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	updatedInvoice.Version = invoice.Version + 1
	logger.Info("Invoice status recomputed",
		slog.String("invoice_id", invoiceID),
		slog.String("from", string(invoice.Status)),
		slog.String("to", string(derived)),
	)
	return &updatedInvoice, nil
}

// CreatePrepayment records a customer advance and posts the liability journal.
func (s *billingService) CreatePrepayment(ctx context.Context, req dto.CreatePrepaymentRequest, creatorUserID string) (*domain.CustomerPrepayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	customer, err := s.billingRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", req.CustomerID, err)
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrCustomerInactive)
	}

	controlAccounts, err := resolveAccountsByCode(ctx, s.accountRepo, []string{
		s.ledger.Cash,
		s.ledger.CustomerPrepayments,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	prepaymentID := uuid.NewString()
	journalID := uuid.NewString()

	specs := []lineSpec{
		{AccountCode: s.ledger.Cash, Debit: req.Amount, Notes: "Prepayment from " + customer.Name},
		{AccountCode: s.ledger.CustomerPrepayments, Credit: req.Amount, Notes: "Prepayment from " + customer.Name},
	}
	lines, err := buildJournalLines(journalID, specs, controlAccounts, creatorUserID, now)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := computeBalanceChanges(lines, accountTypesOf(controlAccounts))
	if err != nil {
		return nil, err
	}

	journal := domain.Journal{
		JournalID:   journalID,
		JournalDate: now,
		Description: fmt.Sprintf("Prepayment received from %s", customer.Name),
		Source:      domain.SourceBilling,
		Status:      domain.Posted,
		Amount:      journalAmount(lines),
		AuditFields: newAudit(creatorUserID, now),
	}

	prepayment := domain.CustomerPrepayment{
		PrepaymentID: prepaymentID,
		CustomerID:   customer.CustomerID,
		Reference:    req.Reference,
		Amount:       req.Amount,
		UsedAmount:   decimal.Zero,
		Status:       domain.PrepaymentActive,
		Version:      1,
		AuditFields:  newAudit(creatorUserID, now),
	}

	entryNo, err := s.billingRepo.SavePrepayment(ctx, prepayment, journal, lines, balanceChanges)
	if err != nil {
		logger.Error("Failed to save prepayment", slog.String("error", err.Error()), slog.String("customer_id", customer.CustomerID))
		return nil, fmt.Errorf("failed to save prepayment: %w", err)
	}

	logger.Info("Prepayment created",
		slog.String("prepayment_id", prepaymentID),
		slog.String("amount", req.Amount.String()),
		slog.Int64("entry_no", entryNo),
	)
	return &prepayment, nil
}

// GetPrepaymentByID retrieves a single prepayment.
func (s *billingService) GetPrepaymentByID(ctx context.Context, prepaymentID string) (*domain.CustomerPrepayment, error) {
	prepayment, err := s.billingRepo.FindPrepaymentByID(ctx, prepaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find prepayment %s: %w", prepaymentID, err)
	}
	return prepayment, nil
}

// ApplyPrepayment draws down a prepayment against an invoice. The drawdown is
// limited by both the prepayment's remaining balance and the invoice's
// outstanding balance.
func (s *billingService) ApplyPrepayment(ctx context.Context, invoiceID string, req dto.ApplyPrepaymentRequest, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrAmountNotPositive)
	}

	invoice, err := s.billingRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	if invoice.Status == domain.InvoiceCancelled {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrInvoiceCancelled)
	}

	prepayment, err := s.billingRepo.FindPrepaymentByID(ctx, req.PrepaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find prepayment %s: %w", req.PrepaymentID, err)
	}
	if prepayment.Status != domain.PrepaymentActive {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrPrepaymentNotActive)
	}
	if prepayment.CustomerID != invoice.CustomerID {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, ErrPrepaymentCustomerMismatch)
	}
	if req.Amount.GreaterThan(prepayment.RemainingAmount()) {
		return nil, fmt.Errorf("%w: %v: remaining %s, requested %s",
			apperrors.ErrValidation, ErrInsufficientPrepaymentBalance, prepayment.RemainingAmount().String(), req.Amount.String())
	}
	if req.Amount.GreaterThan(invoice.OutstandingBalance()) {
		return nil, fmt.Errorf("%w: %v: outstanding %s, requested %s",
			apperrors.ErrValidation, ErrOverpayment, invoice.OutstandingBalance().String(), req.Amount.String())
	}

	customer, err := s.billingRepo.FindCustomerByID(ctx, invoice.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", invoice.CustomerID, err)
	}

	controlAccounts, err := resolveAccountsByCode(ctx, s.accountRepo, []string{
		s.ledger.CustomerPrepayments,
		s.ledger.AccountsReceivable,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()

	specs := []lineSpec{
		{AccountCode: s.ledger.CustomerPrepayments, Debit: req.Amount, Notes: "Applied to " + invoice.InvoiceNo},
		{AccountCode: s.ledger.AccountsReceivable, Credit: req.Amount, Notes: "Prepayment applied to " + invoice.InvoiceNo},
	}
	lines, err := buildJournalLines(journalID, specs, controlAccounts, userID, now)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := computeBalanceChanges(lines, accountTypesOf(controlAccounts))
	if err != nil {
		return nil, err
	}

	journal := domain.Journal{
		JournalID:   journalID,
		JournalDate: now,
		Description: fmt.Sprintf("Prepayment applied to invoice %s", invoice.InvoiceNo),
		Source:      domain.SourceBilling,
		Status:      domain.Posted,
		Amount:      journalAmount(lines),
		AuditFields: newAudit(userID, now),
	}

	updatedInvoice := *invoice
	updatedInvoice.PaidAmount = invoice.PaidAmount.Add(req.Amount)
	updatedInvoice.PrepaymentApplied = invoice.PrepaymentApplied.Add(req.Amount)
	updatedInvoice.Status = updatedInvoice.DeriveStatus(now)
	updatedInvoice.LastUpdatedAt = now
	updatedInvoice.LastUpdatedBy = userID

	updatedPrepayment := *prepayment
	updatedPrepayment.UsedAmount = prepayment.UsedAmount.Add(req.Amount)
	if updatedPrepayment.RemainingAmount().IsZero() {
		updatedPrepayment.Status = domain.PrepaymentExhausted
	}
	updatedPrepayment.LastUpdatedAt = now
	updatedPrepayment.LastUpdatedBy = userID

	application := domain.PrepaymentApplication{
		ApplicationID: uuid.NewString(),
		PrepaymentID:  prepayment.PrepaymentID,
		InvoiceID:     invoice.InvoiceID,
		AppliedAmount: req.Amount,
		AppliedAt:     now,
		AppliedBy:     userID,
	}

	updatedCustomer := *customer
	updatedCustomer.OutstandingBalance = customer.OutstandingBalance.Sub(req.Amount)

	entryNo, err := s.billingRepo.ApplyPrepayment(ctx, updatedInvoice, updatedPrepayment, application, updatedCustomer, journal, lines, balanceChanges)
	if err != nil {
		logger.Error("Failed to apply prepayment", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to apply prepayment: %w", err)
	}

	updatedInvoice.Version = invoice.Version + 1
	logger.Info("Prepayment applied",
		slog.String("invoice_id", invoiceID),
		slog.String("prepayment_id", prepayment.PrepaymentID),
		slog.String("amount", req.Amount.String()),
		slog.Int64("entry_no", entryNo),
	)
	return &updatedInvoice, nil
}

// ListApplications retrieves the drawdown history of a prepayment.
func (s *billingService) ListApplications(ctx context.Context, prepaymentID string) ([]domain.PrepaymentApplication, error) {
	if _, err := s.billingRepo.FindPrepaymentByID(ctx, prepaymentID); err != nil {
		return nil, fmt.Errorf("failed to find prepayment %s: %w", prepaymentID, err)
	}
	applications, err := s.billingRepo.FindApplicationsByPrepaymentID(ctx, prepaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

// newInvoiceNo builds a human-facing invoice number. Uniqueness is enforced by
// the database; the random suffix keeps collisions within a day negligible.
func newInvoiceNo(now time.Time) string {
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}
