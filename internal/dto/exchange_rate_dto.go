package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/talentforge/payroll-fx/internal/core/domain"
)

// CreateExchangeRateRequest defines the structure for creating a new exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	Source           string          `json:"source" binding:"omitempty,oneof=manual imported"`
	EffectiveFrom    time.Time       `json:"effectiveFrom" binding:"required"`
	EffectiveTo      *time.Time      `json:"effectiveTo,omitempty"`
}

// UpdateExchangeRateRequest defines an in-place edit of an existing rate row.
// Only the supplied fields are changed.
type UpdateExchangeRateRequest struct {
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	EffectiveFrom *time.Time       `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time       `json:"effectiveTo,omitempty"`
}

// BulkImportExchangeRatesRequest defines a batch of rates to import.
type BulkImportExchangeRatesRequest struct {
	Rates []CreateExchangeRateRequest `json:"rates" binding:"required,min=1,dive"`
}

// BulkImportRowResult reports the outcome for one imported row. Import is
// best-effort: a failed row never aborts its siblings.
type BulkImportRowResult struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error,omitempty"`
	Rate    *ExchangeRateResponse `json:"rate,omitempty"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	OrganizationID   string          `json:"organizationID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	Source           string          `json:"source"`
	EffectiveFrom    time.Time       `json:"effectiveFrom"`
	EffectiveTo      *time.Time      `json:"effectiveTo,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy    string          `json:"lastUpdatedBy"`
}

// HistoricalRatesResponse wraps a page of historical rate rows.
type HistoricalRatesResponse struct {
	Rates  []ExchangeRateResponse `json:"rates"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// ResolvedRateResponse defines the API shape of a resolution result.
type ResolvedRateResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	Source           string          `json:"source"`
	ExchangeRateID   string          `json:"exchangeRateID,omitempty"`
	Via              string          `json:"via,omitempty"`
	AsOf             time.Time       `json:"asOf"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   rate.ExchangeRateID,
		OrganizationID:   rate.OrganizationID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		Source:           string(rate.Source),
		EffectiveFrom:    rate.EffectiveFrom,
		EffectiveTo:      rate.EffectiveTo,
		CreatedAt:        rate.CreatedAt,
		CreatedBy:        rate.CreatedBy,
		LastUpdatedAt:    rate.LastUpdatedAt,
		LastUpdatedBy:    rate.LastUpdatedBy,
	}
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to a slice of ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}

// ToResolvedRateResponse converts a domain.ResolvedRate to its API shape.
func ToResolvedRateResponse(r *domain.ResolvedRate, asOf time.Time) ResolvedRateResponse {
	return ResolvedRateResponse{
		FromCurrencyCode: r.FromCurrencyCode,
		ToCurrencyCode:   r.ToCurrencyCode,
		Rate:             r.Rate,
		Source:           string(r.Source),
		ExchangeRateID:   r.ExchangeRateID,
		Via:              r.Via,
		AsOf:             asOf,
	}
}
