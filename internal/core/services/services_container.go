package services

import (
	portsrepo "github.com/quarryworks/quarrybooks/internal/core/ports/repositories"
	portssvc "github.com/quarryworks/quarrybooks/internal/core/ports/services"
	"github.com/quarryworks/quarrybooks/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo)
	container.Payroll = NewPayrollService(repos.PayrollRepo, repos.AccountRepo, cfg.Ledger)
	container.Billing = NewBillingService(repos.BillingRepo, repos.JournalRepo, repos.AccountRepo, cfg.VATRate, cfg.Ledger)
	container.Stock = NewStockService(repos.StockRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.JournalSvcFacade = (*journalService)(nil)
	_ portssvc.PayrollSvcFacade = (*payrollService)(nil)
	_ portssvc.BillingSvcFacade = (*billingService)(nil)
	_ portssvc.StockSvcFacade   = (*stockService)(nil)
)
