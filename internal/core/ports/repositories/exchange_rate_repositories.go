package repositories

import (
	"context"
	"time"

	"github.com/talentforge/payroll-fx/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindRateForDate retrieves the rate row for a pair whose validity window
	// contains asOf, preferring the most recent effectiveFrom.
	FindRateForDate(ctx context.Context, organizationID, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error)

	// FindExchangeRateByID retrieves a rate row by its ID, scoped to the organization.
	FindExchangeRateByID(ctx context.Context, organizationID, rateID string) (*domain.ExchangeRate, error)

	// ListActiveRates retrieves all rate rows whose window contains asOf.
	ListActiveRates(ctx context.Context, organizationID string, asOf time.Time) ([]domain.ExchangeRate, error)

	// ListHistoricalRates retrieves rate rows for a pair, optionally bounded by
	// [start, end] on effectiveFrom, newest first, with the total row count.
	ListHistoricalRates(ctx context.Context, organizationID, fromCurrencyCode, toCurrencyCode string, start, end *time.Time, limit, offset int) ([]domain.ExchangeRate, int, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate persists a new rate row. When the new row is current
	// (EffectiveTo == nil), any prior current row for the same pair is closed
	// in the same transaction so the one-current-row invariant holds.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// UpdateExchangeRate edits a rate row in place without changing historical
	// semantics.
	UpdateExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// CloseRateWindow soft-deletes a rate row by setting effectiveTo to closedAt.
	// The row itself is retained for historical lookups.
	CloseRateWindow(ctx context.Context, organizationID, rateID, actorUserID string, closedAt time.Time) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
