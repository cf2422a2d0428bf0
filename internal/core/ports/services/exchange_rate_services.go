package services

import (
	"context"
	"time"

	"github.com/talentforge/payroll-fx/internal/core/domain"
	"github.com/talentforge/payroll-fx/internal/dto"
)

// RateResolverSvc resolves an applicable rate for a currency pair and date,
// directly, by inversion, or by triangulation through the organization's base
// currency. A zero asOf means "now". Returns apperrors.ErrRateNotFound when
// no strategy yields a rate.
type RateResolverSvc interface {
	ResolveRate(ctx context.Context, organizationID, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ResolvedRate, error)
}

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetExchangeRateByID retrieves a single rate row.
	GetExchangeRateByID(ctx context.Context, organizationID, rateID string) (*domain.ExchangeRate, error)

	// ListActiveRates retrieves the rate rows currently in effect for an organization.
	ListActiveRates(ctx context.Context, organizationID string) ([]domain.ExchangeRate, error)

	// ListHistoricalRates retrieves a page of historical rate rows for a pair.
	ListHistoricalRates(ctx context.Context, organizationID, fromCurrencyCode, toCurrencyCode string, start, end *time.Time, limit, offset int) ([]domain.ExchangeRate, int, error)
}

// ExchangeRateWriterSvc defines administration operations for exchange rates
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate persists a new rate and invalidates the cached pair.
	CreateExchangeRate(ctx context.Context, organizationID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)

	// UpdateExchangeRate edits a rate row in place and invalidates the cached pair.
	UpdateExchangeRate(ctx context.Context, organizationID, rateID string, req dto.UpdateExchangeRateRequest, updaterUserID string) (*domain.ExchangeRate, error)

	// DeleteExchangeRate closes a rate's validity window and invalidates the
	// cached pair. The row is retained for historical lookups.
	DeleteExchangeRate(ctx context.Context, organizationID, rateID, actorUserID string) error

	// BulkImportExchangeRates creates rates best-effort, one result per input row.
	BulkImportExchangeRates(ctx context.Context, organizationID string, req dto.BulkImportExchangeRatesRequest, creatorUserID string) ([]dto.BulkImportRowResult, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
