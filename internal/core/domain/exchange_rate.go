package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource identifies where a rate (or a derived rate) came from.
type RateSource string

const (
	RateSourceManual           RateSource = "manual"
	RateSourceImported         RateSource = "imported"
	RateSourceIdentity         RateSource = "identity"
	RateSourceManualInverted   RateSource = "manual_inverted"
	RateSourceImportedInverted RateSource = "imported_inverted"
	RateSourceTriangulated     RateSource = "triangulated"
)

// Inverted returns the source tag for a rate derived by algebraic inversion.
// Already-derived sources invert to themselves; there is no second derivation step.
func (s RateSource) Inverted() RateSource {
	switch s {
	case RateSourceManual:
		return RateSourceManualInverted
	case RateSourceImported:
		return RateSourceImportedInverted
	default:
		return s
	}
}

// ExchangeRate stores the conversion rate between two currencies for an
// organization, valid over the window [EffectiveFrom, EffectiveTo).
// EffectiveTo == nil marks the current, open-ended rate: at most one such row
// may exist per (organization, from, to).
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	OrganizationID   string          `json:"organizationID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // toAmount = fromAmount * Rate
	Source           RateSource      `json:"source"`
	EffectiveFrom    time.Time       `json:"effectiveFrom"`
	EffectiveTo      *time.Time      `json:"effectiveTo,omitempty"`
	AuditFields
}

// ResolvedRate is the outcome of rate resolution: the multiplier to apply plus
// provenance for the audit trail. ExchangeRateID is empty for identity and
// triangulated rates, which do not correspond to a single stored row.
type ResolvedRate struct {
	Rate             decimal.Decimal `json:"rate"`
	Source           RateSource      `json:"source"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	ExchangeRateID   string          `json:"exchangeRateID,omitempty"`
	Via              string          `json:"via,omitempty"` // base currency used for triangulation
}
