package repositories

import (
	"context"

	"github.com/talentforge/payroll-fx/internal/core/domain"
)

// CurrencyConfigReader defines read operations for organization currency configuration
type CurrencyConfigReader interface {
	// FindConfigByOrganization retrieves the currency configuration for an
	// organization. Returns apperrors.ErrNotFound when none exists yet.
	FindConfigByOrganization(ctx context.Context, organizationID string) (*domain.OrgCurrencyConfig, error)
}

// CurrencyConfigWriter defines write operations for organization currency configuration
type CurrencyConfigWriter interface {
	// SaveConfig persists a new currency configuration.
	SaveConfig(ctx context.Context, config domain.OrgCurrencyConfig) error

	// UpdateConfig replaces the base currency and supported set for an organization.
	UpdateConfig(ctx context.Context, config domain.OrgCurrencyConfig) error
}

// CurrencyConfigRepositoryFacade combines all currency-config repository interfaces
type CurrencyConfigRepositoryFacade interface {
	CurrencyConfigReader
	CurrencyConfigWriter
}
