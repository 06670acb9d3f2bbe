package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/quarryworks/quarrybooks/internal/core/ports/services"
	"github.com/quarryworks/quarrybooks/internal/dto"
	"github.com/quarryworks/quarrybooks/internal/middleware"
	"github.com/gin-gonic/gin"
)

// payrollHandler handles HTTP requests for employees and payroll runs.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

func newPayrollHandler(ps portssvc.PayrollSvcFacade) *payrollHandler {
	return &payrollHandler{payrollService: ps}
}

// registerPayrollRoutes registers routes related to employees and payroll runs.
func registerPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := newPayrollHandler(payrollService)

	employees := rg.Group("/employees")
	{
		employees.POST("", h.createEmployee)
		employees.GET("", h.listEmployees)
		employees.GET("/:id", h.getEmployee)
	}

	runs := rg.Group("/payroll/runs")
	{
		runs.POST("", h.computeRun)
		runs.GET("", h.listRuns)
		runs.GET("/:id", h.getRun)
		runs.POST("/:id/process", h.processRun)
		runs.POST("/:id/pay", h.markRunPaid)
	}
}

// createEmployee registers a new employee.
func (h *payrollHandler) createEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEmployee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	employee, err := h.payrollService.CreateEmployee(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEmployeeResponse(employee))
}

// getEmployee retrieves a single employee.
func (h *payrollHandler) getEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	employeeID := c.Param("id")

	employee, err := h.payrollService.GetEmployeeByID(c.Request.Context(), employeeID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve employee")
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeResponse(employee))
}

// listEmployees retrieves employees, optionally only active ones.
func (h *payrollHandler) listEmployees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	activeOnly := c.Query("activeOnly") == "true"

	employees, err := h.payrollService.ListEmployees(c.Request.Context(), activeOnly)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list employees")
		return
	}

	responses := make([]dto.EmployeeResponse, len(employees))
	for i := range employees {
		responses[i] = dto.ToEmployeeResponse(&employees[i])
	}
	c.JSON(http.StatusOK, gin.H{"employees": responses})
}

// computeRun calculates a draft payroll run for a period.
func (h *payrollHandler) computeRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ComputePayrollRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ComputeRun", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.payrollService.ComputeRun(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute payroll run")
		return
	}

	logger.Info("Payroll run computed",
		slog.String("run_id", run.RunID),
		slog.Int("period_year", run.PeriodYear),
		slog.Int("period_month", int(run.PeriodMonth)),
		slog.Int("employee_count", run.EmployeeCount))
	c.JSON(http.StatusCreated, dto.ToPayrollRunResponse(run))
}

// getRun retrieves a payroll run with its salary snapshots.
func (h *payrollHandler) getRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("id")

	run, err := h.payrollService.GetRunByID(c.Request.Context(), runID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve payroll run")
		return
	}

	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}

// listRuns retrieves the payroll runs of one year, newest first.
func (h *payrollHandler) listRuns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	yearParam := c.Query("year")
	if yearParam == "" {
		yearParam = strconv.Itoa(time.Now().Year())
	}
	year, err := strconv.Atoi(yearParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year parameter"})
		return
	}

	runs, err := h.payrollService.ListRuns(c.Request.Context(), year)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payroll runs")
		return
	}

	responses := make([]dto.PayrollRunResponse, len(runs))
	for i := range runs {
		responses[i] = dto.ToPayrollRunResponse(&runs[i])
	}
	c.JSON(http.StatusOK, gin.H{"runs": responses})
}

// processRun posts the accrual journal and marks the run processed.
func (h *payrollHandler) processRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.payrollService.ProcessRun(c.Request.Context(), runID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to process payroll run")
		return
	}

	logger.Info("Payroll run processed", slog.String("run_id", run.RunID))
	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}

// markRunPaid moves a processed run to paid.
func (h *payrollHandler) markRunPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("id")

	// The body is optional; an empty request means "paid now".
	var req dto.MarkRunPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for MarkRunPaid", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	run, err := h.payrollService.MarkRunPaid(c.Request.Context(), runID, paidAt, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to mark payroll run paid")
		return
	}

	logger.Info("Payroll run marked paid", slog.String("run_id", run.RunID))
	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}
