package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/quarryworks/quarrybooks/internal/core/ports/services"
	"github.com/quarryworks/quarrybooks/internal/dto"
	"github.com/quarryworks/quarrybooks/internal/middleware"
	"github.com/gin-gonic/gin"
)

// stockHandler handles HTTP requests for stock yards and movements.
type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

func newStockHandler(ss portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{stockService: ss}
}

// registerStockRoutes registers routes related to stock yards.
func registerStockRoutes(rg *gin.RouterGroup, stockService portssvc.StockSvcFacade) {
	h := newStockHandler(stockService)

	stock := rg.Group("/stock")
	{
		stock.GET("/yards", h.listYards)
		stock.GET("/yards/:site/:materialID", h.getYard)
		stock.GET("/movements", h.listMovements)
		stock.POST("/reserve", h.reserve)
		stock.POST("/release", h.release)
		stock.POST("/receive", h.receive)
		stock.POST("/dispatch", h.dispatch)
	}
}

// listYards retrieves the yard records of one site.
func (h *stockHandler) listYards(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	site := c.Query("site")
	if site == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: site"})
		return
	}

	yards, err := h.stockService.ListYards(c.Request.Context(), site)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list stock yards")
		return
	}

	c.JSON(http.StatusOK, gin.H{"yards": dto.ToStockYardResponses(yards)})
}

// getYard retrieves the yard record for one (site, material) pair.
func (h *stockHandler) getYard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	site := c.Param("site")
	materialID := c.Param("materialID")

	yard, err := h.stockService.GetYard(c.Request.Context(), site, materialID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve stock yard")
		return
	}

	c.JSON(http.StatusOK, dto.ToStockYardResponse(yard))
}

// listMovements retrieves the most recent movements of a yard.
func (h *stockHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListMovements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	movements, err := h.stockService.ListMovements(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list stock movements")
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": dto.ToStockMovementResponses(movements)})
}

// runStockOp binds the shared request shape and dispatches to one yard operation.
func (h *stockHandler) runStockOp(c *gin.Context, opName string, op func(c *gin.Context, req dto.StockOpRequest, userID string)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StockOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for stock operation",
			slog.String("operation", opName),
			slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	op(c, req, userID)
}

// reserve holds quantity against a pending order.
func (h *stockHandler) reserve(c *gin.Context) {
	h.runStockOp(c, "reserve", func(c *gin.Context, req dto.StockOpRequest, userID string) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		yard, err := h.stockService.Reserve(c.Request.Context(), req, userID)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to reserve stock")
			return
		}
		c.JSON(http.StatusOK, dto.ToStockYardResponse(yard))
	})
}

// release returns reserved quantity to the available pool.
func (h *stockHandler) release(c *gin.Context) {
	h.runStockOp(c, "release", func(c *gin.Context, req dto.StockOpRequest, userID string) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		yard, err := h.stockService.Release(c.Request.Context(), req, userID)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to release stock")
			return
		}
		c.JSON(http.StatusOK, dto.ToStockYardResponse(yard))
	})
}

// receive adds produced or purchased quantity to the yard.
func (h *stockHandler) receive(c *gin.Context) {
	h.runStockOp(c, "receive", func(c *gin.Context, req dto.StockOpRequest, userID string) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		yard, err := h.stockService.Receive(c.Request.Context(), req, userID)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to receive stock")
			return
		}
		c.JSON(http.StatusOK, dto.ToStockYardResponse(yard))
	})
}

// dispatch removes quantity from the yard, consuming the reservation first.
func (h *stockHandler) dispatch(c *gin.Context) {
	h.runStockOp(c, "dispatch", func(c *gin.Context, req dto.StockOpRequest, userID string) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		yard, err := h.stockService.Dispatch(c.Request.Context(), req, userID)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to dispatch stock")
			return
		}
		c.JSON(http.StatusOK, dto.ToStockYardResponse(yard))
	})
}
