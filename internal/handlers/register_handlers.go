package handlers

import (
	"net/http"

	portssvc "github.com/quarryworks/quarrybooks/internal/core/ports/services"
	"github.com/quarryworks/quarrybooks/internal/middleware"
	"github.com/quarryworks/quarrybooks/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the health check and the authenticated v1 API.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, services.Account, services.Journal)
	registerJournalRoutes(v1, services.Journal)
	registerPayrollRoutes(v1, services.Payroll)
	registerBillingRoutes(v1, services.Billing)
	registerStockRoutes(v1, services.Stock)
}
