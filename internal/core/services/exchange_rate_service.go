package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/talentforge/payroll-fx/internal/apperrors"
	"github.com/talentforge/payroll-fx/internal/core/domain"
	portsrepo "github.com/talentforge/payroll-fx/internal/core/ports/repositories"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
	"github.com/talentforge/payroll-fx/internal/dto"
)

// ExchangeRateService provides administration logic for exchange rates:
// creation, in-place edits, window-closing soft deletes, and bulk import.
// Every mutation invalidates the resolution cache for the affected pair.
type ExchangeRateService struct {
	rateRepo portsrepo.ExchangeRateRepositoryFacade
	cache    portssvc.RateCache
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, cache portssvc.RateCache) *ExchangeRateService {
	return &ExchangeRateService{
		rateRepo: rateRepo,
		cache:    cache,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)

// CreateExchangeRate handles the creation of a new exchange rate.
func (s *ExchangeRateService) CreateExchangeRate(ctx context.Context, organizationID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	fromCode := strings.ToUpper(req.FromCurrencyCode)
	toCode := strings.ToUpper(req.ToCurrencyCode)

	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if fromCode == toCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}
	if err := validateCurrencyCode(fromCode); err != nil {
		return nil, err
	}
	if err := validateCurrencyCode(toCode); err != nil {
		return nil, err
	}
	if req.EffectiveTo != nil && !req.EffectiveTo.After(req.EffectiveFrom) {
		return nil, fmt.Errorf("%w: effectiveTo must be after effectiveFrom", apperrors.ErrValidation)
	}

	source := domain.RateSource(req.Source)
	if source == "" {
		source = domain.RateSourceManual
	}

	now := time.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		OrganizationID:   organizationID,
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             req.Rate,
		Source:           source,
		EffectiveFrom:    req.EffectiveFrom,
		EffectiveTo:      req.EffectiveTo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to create exchange rate in service: %w", err)
	}

	s.invalidatePair(ctx, organizationID, fromCode, toCode)
	return &rate, nil
}

// UpdateExchangeRate edits a rate row in place, e.g. correcting a typo.
// It does not create a new validity window.
func (s *ExchangeRateService) UpdateExchangeRate(ctx context.Context, organizationID, rateID string, req dto.UpdateExchangeRateRequest, updaterUserID string) (*domain.ExchangeRate, error) {
	rate, err := s.rateRepo.FindExchangeRateByID(ctx, organizationID, rateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange rate for update: %w", err)
	}

	if req.Rate != nil {
		if req.Rate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
		}
		rate.Rate = *req.Rate
	}
	if req.EffectiveFrom != nil {
		rate.EffectiveFrom = *req.EffectiveFrom
	}
	if req.EffectiveTo != nil {
		rate.EffectiveTo = req.EffectiveTo
	}
	if rate.EffectiveTo != nil && !rate.EffectiveTo.After(rate.EffectiveFrom) {
		return nil, fmt.Errorf("%w: effectiveTo must be after effectiveFrom", apperrors.ErrValidation)
	}

	rate.LastUpdatedAt = time.Now()
	rate.LastUpdatedBy = updaterUserID

	if err := s.rateRepo.UpdateExchangeRate(ctx, *rate); err != nil {
		return nil, fmt.Errorf("failed to update exchange rate in service: %w", err)
	}

	s.invalidatePair(ctx, organizationID, rate.FromCurrencyCode, rate.ToCurrencyCode)
	return rate, nil
}

// DeleteExchangeRate soft-deletes a rate by closing its validity window at now.
// The row is retained for historical resolution.
func (s *ExchangeRateService) DeleteExchangeRate(ctx context.Context, organizationID, rateID, actorUserID string) error {
	rate, err := s.rateRepo.FindExchangeRateByID(ctx, organizationID, rateID)
	if err != nil {
		return fmt.Errorf("failed to load exchange rate for delete: %w", err)
	}

	if err := s.rateRepo.CloseRateWindow(ctx, organizationID, rateID, actorUserID, time.Now()); err != nil {
		return fmt.Errorf("failed to delete exchange rate in service: %w", err)
	}

	s.invalidatePair(ctx, organizationID, rate.FromCurrencyCode, rate.ToCurrencyCode)
	return nil
}

// BulkImportExchangeRates creates rates best-effort: each row is attempted
// independently and reported in input order. Atomicity across the batch is
// deliberately not guaranteed.
func (s *ExchangeRateService) BulkImportExchangeRates(ctx context.Context, organizationID string, req dto.BulkImportExchangeRatesRequest, creatorUserID string) ([]dto.BulkImportRowResult, error) {
	results := make([]dto.BulkImportRowResult, 0, len(req.Rates))
	for _, row := range req.Rates {
		if row.Source == "" {
			row.Source = string(domain.RateSourceImported)
		}
		created, err := s.CreateExchangeRate(ctx, organizationID, row, creatorUserID)
		if err != nil {
			results = append(results, dto.BulkImportRowResult{Success: false, Error: err.Error()})
			continue
		}
		resp := dto.ToExchangeRateResponse(created)
		results = append(results, dto.BulkImportRowResult{Success: true, Rate: &resp})
	}
	return results, nil
}

// GetExchangeRateByID retrieves a single rate row.
func (s *ExchangeRateService) GetExchangeRateByID(ctx context.Context, organizationID, rateID string) (*domain.ExchangeRate, error) {
	rate, err := s.rateRepo.FindExchangeRateByID(ctx, organizationID, rateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate in service: %w", err)
	}
	return rate, nil
}

// ListActiveRates retrieves the rate rows currently in effect for an organization.
func (s *ExchangeRateService) ListActiveRates(ctx context.Context, organizationID string) ([]domain.ExchangeRate, error) {
	rates, err := s.rateRepo.ListActiveRates(ctx, organizationID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list active rates in service: %w", err)
	}
	if rates == nil {
		return []domain.ExchangeRate{}, nil
	}
	return rates, nil
}

// ListHistoricalRates retrieves a page of historical rate rows for a pair.
func (s *ExchangeRateService) ListHistoricalRates(ctx context.Context, organizationID, fromCurrencyCode, toCurrencyCode string, start, end *time.Time, limit, offset int) ([]domain.ExchangeRate, int, error) {
	fromCode := strings.ToUpper(fromCurrencyCode)
	toCode := strings.ToUpper(toCurrencyCode)
	if err := validateCurrencyCode(fromCode); err != nil {
		return nil, 0, err
	}
	if err := validateCurrencyCode(toCode); err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rates, total, err := s.rateRepo.ListHistoricalRates(ctx, organizationID, fromCode, toCode, start, end, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list historical rates in service: %w", err)
	}
	if rates == nil {
		rates = []domain.ExchangeRate{}
	}
	return rates, total, nil
}

// invalidatePair drops both directions of a pair from the resolution cache:
// a stored (A,B) row also serves inverted (B,A) resolutions.
func (s *ExchangeRateService) invalidatePair(ctx context.Context, organizationID, fromCode, toCode string) {
	s.cache.Invalidate(ctx, portssvc.RateCacheKey(organizationID, fromCode, toCode))
	s.cache.Invalidate(ctx, portssvc.RateCacheKey(organizationID, toCode, fromCode))
}
