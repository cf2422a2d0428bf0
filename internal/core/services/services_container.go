package services

import (
	"log/slog"

	portsrepo "github.com/talentforge/payroll-fx/internal/core/ports/repositories"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
	"github.com/talentforge/payroll-fx/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, cache portssvc.RateCache, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.RateCache = cache
	container.CurrencyConfig = NewCurrencyConfigService(repos.CurrencyConfigRepo, cfg.DefaultBaseCurrency)

	// The resolver reads the currency config for triangulation and sits
	// between the cache and the rate store.
	container.Resolver = NewRateResolverService(repos.ExchangeRateRepo, container.CurrencyConfig, cache)

	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, cache)
	container.Conversion = NewConversionService(container.Resolver, repos.ConversionRepo, logger)

	return container
}

// Compile-time interface checks for the concrete services.
var (
	_ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)
	_ portssvc.RateResolverSvc       = (*RateResolverService)(nil)
	_ portssvc.ConversionSvc         = (*ConversionService)(nil)
	_ portssvc.CurrencyConfigSvc     = (*CurrencyConfigService)(nil)
)
