package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/talentforge/payroll-fx/internal/core/ports/repositories"
)

// NewRepositoryProvider creates all pgx-backed repositories over one pool.
func NewRepositoryProvider(db *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo:   NewPgxExchangeRateRepository(db),
		CurrencyConfigRepo: NewPgxCurrencyConfigRepository(db),
		ConversionRepo:     NewPgxConversionRepository(db),
	}
}

// Compile-time interface checks.
var (
	_ portsrepo.ExchangeRateRepositoryWithTx   = (*PgxExchangeRateRepository)(nil)
	_ portsrepo.CurrencyConfigRepositoryFacade = (*PgxCurrencyConfigRepository)(nil)
	_ portsrepo.ConversionRepositoryFacade     = (*PgxConversionRepository)(nil)
)
