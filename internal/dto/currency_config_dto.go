package dto

import (
	"time"

	"github.com/talentforge/payroll-fx/internal/core/domain"
)

// UpdateCurrencyConfigRequest defines the structure for replacing an
// organization's currency configuration.
type UpdateCurrencyConfigRequest struct {
	BaseCurrencyCode    string   `json:"baseCurrencyCode" binding:"required,len=3,uppercase"`
	SupportedCurrencies []string `json:"supportedCurrencies" binding:"required,min=1,dive,len=3,uppercase"`
}

// CurrencyConfigResponse defines the API shape of an organization's currency configuration.
type CurrencyConfigResponse struct {
	OrganizationID      string    `json:"organizationID"`
	BaseCurrencyCode    string    `json:"baseCurrencyCode"`
	SupportedCurrencies []string  `json:"supportedCurrencies"`
	CreatedAt           time.Time `json:"createdAt"`
	CreatedBy           string    `json:"createdBy"`
	LastUpdatedAt       time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy       string    `json:"lastUpdatedBy"`
}

// ToCurrencyConfigResponse converts a domain.OrgCurrencyConfig to its API shape.
func ToCurrencyConfigResponse(cfg *domain.OrgCurrencyConfig) CurrencyConfigResponse {
	return CurrencyConfigResponse{
		OrganizationID:      cfg.OrganizationID,
		BaseCurrencyCode:    cfg.BaseCurrencyCode,
		SupportedCurrencies: cfg.SupportedCurrencies,
		CreatedAt:           cfg.CreatedAt,
		CreatedBy:           cfg.CreatedBy,
		LastUpdatedAt:       cfg.LastUpdatedAt,
		LastUpdatedBy:       cfg.LastUpdatedBy,
	}
}

// CacheStatsResponse defines the API shape of resolution cache statistics.
type CacheStatsResponse struct {
	Keys   int   `json:"keys"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}
