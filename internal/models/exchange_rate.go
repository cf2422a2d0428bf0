package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate mirrors a row of the exchange_rates table.
// effective_to IS NULL marks the current open-ended window; the table carries
// a partial unique index on (organization_id, from_currency_code,
// to_currency_code) WHERE effective_to IS NULL.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	OrganizationID   string          `json:"organizationID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	Source           string          `json:"source"`
	EffectiveFrom    time.Time       `json:"effectiveFrom"`
	EffectiveTo      *time.Time      `json:"effectiveTo"`
	AuditFields
}
