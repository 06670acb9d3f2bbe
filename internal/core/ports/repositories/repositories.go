package repositories

// RepositoryProvider bundles the repository facades handed to the service container.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	JournalRepo JournalRepositoryFacade
	PayrollRepo PayrollRepositoryFacade
	BillingRepo BillingRepositoryFacade
	StockRepo   StockRepositoryFacade
}
