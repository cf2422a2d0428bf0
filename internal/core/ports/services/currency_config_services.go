package services

import (
	"context"

	"github.com/talentforge/payroll-fx/internal/core/domain"
	"github.com/talentforge/payroll-fx/internal/dto"
)

// CurrencyConfigSvc manages per-organization currency configuration.
type CurrencyConfigSvc interface {
	// GetConfig retrieves an organization's currency configuration, creating
	// it with the platform default base currency on first access.
	GetConfig(ctx context.Context, organizationID string) (*domain.OrgCurrencyConfig, error)

	// UpdateConfig replaces the base currency and supported currency set.
	UpdateConfig(ctx context.Context, organizationID string, req dto.UpdateCurrencyConfigRequest, updaterUserID string) (*domain.OrgCurrencyConfig, error)
}
