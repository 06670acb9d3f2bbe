package pgsql

import (
	portsrepo "github.com/quarryworks/quarrybooks/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgsql repositories against one connection
// pool. The account repository is shared so every posting path locks and
// updates balances through the same code.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		JournalRepo: newPgxJournalRepository(pool, accountRepo),
		PayrollRepo: newPgxPayrollRepository(pool, accountRepo),
		BillingRepo: newPgxBillingRepository(pool, accountRepo),
		StockRepo:   newPgxStockRepository(pool),
	}
}
