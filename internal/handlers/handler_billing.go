package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/quarryworks/quarrybooks/internal/core/ports/services"
	"github.com/quarryworks/quarrybooks/internal/dto"
	"github.com/quarryworks/quarrybooks/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// billingHandler handles HTTP requests for customers, invoices, and prepayments.
type billingHandler struct {
	billingService portssvc.BillingSvcFacade
}

func newBillingHandler(bs portssvc.BillingSvcFacade) *billingHandler {
	return &billingHandler{billingService: bs}
}

// registerBillingRoutes registers routes related to billing.
func registerBillingRoutes(rg *gin.RouterGroup, billingService portssvc.BillingSvcFacade) {
	h := newBillingHandler(billingService)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.GET("/:id", h.getCustomer)
		customers.GET("/:id/credit-check", h.checkCreditLimit)
	}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.POST("/:id/payments", h.applyPayment)
		invoices.POST("/:id/prepayments", h.applyPrepayment)
		invoices.POST("/:id/cancel", h.cancelInvoice)
		invoices.POST("/:id/recompute-status", h.recomputeStatus)
	}

	prepayments := rg.Group("/prepayments")
	{
		prepayments.POST("", h.createPrepayment)
		prepayments.GET("/:id", h.getPrepayment)
		prepayments.GET("/:id/applications", h.listApplications)
	}
}

// createCustomer registers a new customer.
func (h *billingHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCustomer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	customer, err := h.billingService.CreateCustomer(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// getCustomer retrieves a single customer.
func (h *billingHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("id")

	customer, err := h.billingService.GetCustomerByID(c.Request.Context(), customerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve customer")
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// listCustomers retrieves all customers.
func (h *billingHandler) listCustomers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	customers, err := h.billingService.ListCustomers(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list customers")
		return
	}

	responses := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = dto.ToCustomerResponse(&customers[i])
	}
	c.JSON(http.StatusOK, gin.H{"customers": responses})
}

// checkCreditLimit answers whether the customer can take on an additional amount.
func (h *billingHandler) checkCreditLimit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("id")

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing amount parameter"})
		return
	}

	withinLimit, err := h.billingService.CheckCreditLimit(c.Request.Context(), customerID, amount)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to check credit limit")
		return
	}

	customer, err := h.billingService.GetCustomerByID(c.Request.Context(), customerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to check credit limit")
		return
	}

	c.JSON(http.StatusOK, dto.CreditCheckResponse{
		CustomerID:      customerID,
		Amount:          amount,
		WithinLimit:     withinLimit,
		AvailableCredit: customer.AvailableCredit(),
	})
}

// createInvoice issues a new invoice and posts its revenue journal.
func (h *billingHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.billingService.CreateInvoice(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_no", invoice.InvoiceNo),
		slog.String("customer_id", invoice.CustomerID))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// getInvoice retrieves a single invoice.
func (h *billingHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	invoice, err := h.billingService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoices retrieves a paginated list of invoices.
func (h *billingHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.billingService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// applyPayment records a cash/bank receipt against an invoice.
func (h *billingHandler) applyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.billingService.ApplyPayment(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to apply payment")
		return
	}

	logger.Info("Payment applied",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("amount", req.Amount.String()),
		slog.String("status", string(invoice.Status)))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// applyPrepayment draws down a customer prepayment against an invoice.
func (h *billingHandler) applyPrepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	var req dto.ApplyPrepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyPrepayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.billingService.ApplyPrepayment(c.Request.Context(), invoiceID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to apply prepayment")
		return
	}

	logger.Info("Prepayment applied",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("prepayment_id", req.PrepaymentID),
		slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// cancelInvoice cancels an unpaid invoice and reverses its journal.
func (h *billingHandler) cancelInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.billingService.CancelInvoice(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel invoice")
		return
	}

	logger.Info("Invoice cancelled", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// recomputeStatus re-derives the invoice status from amounts and due date.
func (h *billingHandler) recomputeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.billingService.RecomputeStatus(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to recompute invoice status")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// createPrepayment records a customer advance.
func (h *billingHandler) createPrepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePrepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePrepayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	prepayment, err := h.billingService.CreatePrepayment(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create prepayment")
		return
	}

	logger.Info("Prepayment recorded",
		slog.String("prepayment_id", prepayment.PrepaymentID),
		slog.String("customer_id", prepayment.CustomerID),
		slog.String("amount", prepayment.Amount.String()))
	c.JSON(http.StatusCreated, dto.ToPrepaymentResponse(prepayment))
}

// getPrepayment retrieves a single prepayment.
func (h *billingHandler) getPrepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	prepaymentID := c.Param("id")

	prepayment, err := h.billingService.GetPrepaymentByID(c.Request.Context(), prepaymentID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve prepayment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPrepaymentResponse(prepayment))
}

// listApplications retrieves the drawdown history of a prepayment.
func (h *billingHandler) listApplications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	prepaymentID := c.Param("id")

	applications, err := h.billingService.ListApplications(c.Request.Context(), prepaymentID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list prepayment applications")
		return
	}

	responses := make([]dto.PrepaymentApplicationResponse, len(applications))
	for i := range applications {
		responses[i] = dto.ToPrepaymentApplicationResponse(&applications[i])
	}
	c.JSON(http.StatusOK, gin.H{"applications": responses})
}
