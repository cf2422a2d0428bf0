package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talentforge/payroll-fx/internal/apperrors"
	"github.com/talentforge/payroll-fx/internal/core/domain"
	portsrepo "github.com/talentforge/payroll-fx/internal/core/ports/repositories"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
)

// RateResolverService resolves applicable exchange rates for a currency pair
// and date: identity, then cache, then direct lookup, then algebraic
// inversion, then a single triangulation hop through the organization's base
// currency. Triangulation legs resolve direct-or-inverse only; there is no
// multi-hop chaining.
type RateResolverService struct {
	rateRepo      portsrepo.ExchangeRateReader
	configService portssvc.CurrencyConfigSvc
	cache         portssvc.RateCache
}

// NewRateResolverService creates a new RateResolverService.
func NewRateResolverService(rateRepo portsrepo.ExchangeRateReader, configService portssvc.CurrencyConfigSvc, cache portssvc.RateCache) *RateResolverService {
	return &RateResolverService{
		rateRepo:      rateRepo,
		configService: configService,
		cache:         cache,
	}
}

var _ portssvc.RateResolverSvc = (*RateResolverService)(nil)

// ResolveRate implements the resolution algorithm. A zero asOf means "now".
// Historical resolutions (non-zero asOf) bypass the cache entirely: the cache
// key carries no date, so only as-of-now lookups are safe to cache.
func (s *RateResolverService) ResolveRate(ctx context.Context, organizationID, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ResolvedRate, error) {
	fromCode := strings.ToUpper(fromCurrencyCode)
	toCode := strings.ToUpper(toCurrencyCode)
	if err := validateCurrencyCode(fromCode); err != nil {
		return nil, err
	}
	if err := validateCurrencyCode(toCode); err != nil {
		return nil, err
	}

	if fromCode == toCode {
		return &domain.ResolvedRate{
			Rate:             decimal.NewFromInt(1),
			Source:           domain.RateSourceIdentity,
			FromCurrencyCode: fromCode,
			ToCurrencyCode:   toCode,
		}, nil
	}

	cacheable := asOf.IsZero()
	effectiveAt := asOf
	if cacheable {
		effectiveAt = time.Now()
	}

	cacheKey := portssvc.RateCacheKey(organizationID, fromCode, toCode)
	if cacheable {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	resolved, err := s.lookupDirectOrInverse(ctx, organizationID, fromCode, toCode, effectiveAt)
	if err == nil {
		if cacheable {
			s.cache.Set(ctx, cacheKey, *resolved)
		}
		return resolved, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	resolved, err = s.triangulate(ctx, organizationID, fromCode, toCode, effectiveAt)
	if err == nil {
		if cacheable {
			s.cache.Set(ctx, cacheKey, *resolved)
		}
		return resolved, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return nil, apperrors.NewRateNotFoundError(fromCode, toCode)
}

// lookupDirectOrInverse finds a stored rate for the pair at effectiveAt,
// trying the direct row first and the reverse row (inverted) second.
func (s *RateResolverService) lookupDirectOrInverse(ctx context.Context, organizationID, fromCode, toCode string, effectiveAt time.Time) (*domain.ResolvedRate, error) {
	direct, err := s.rateRepo.FindRateForDate(ctx, organizationID, fromCode, toCode, effectiveAt)
	if err == nil {
		return &domain.ResolvedRate{
			Rate:             direct.Rate,
			Source:           direct.Source,
			FromCurrencyCode: fromCode,
			ToCurrencyCode:   toCode,
			ExchangeRateID:   direct.ExchangeRateID,
		}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up direct rate: %w", err)
	}

	reverse, err := s.rateRepo.FindRateForDate(ctx, organizationID, toCode, fromCode, effectiveAt)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up inverse rate: %w", err)
	}
	if reverse.Rate.IsZero() {
		// A zero stored rate cannot be inverted; treat it as absent.
		return nil, apperrors.ErrNotFound
	}

	return &domain.ResolvedRate{
		Rate:             decimal.NewFromInt(1).Div(reverse.Rate),
		Source:           reverse.Source.Inverted(),
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		ExchangeRateID:   reverse.ExchangeRateID,
	}, nil
}

// triangulate composes from->base and base->to through the organization's
// base currency. Each leg resolves direct-or-inverse only.
func (s *RateResolverService) triangulate(ctx context.Context, organizationID, fromCode, toCode string, effectiveAt time.Time) (*domain.ResolvedRate, error) {
	config, err := s.configService.GetConfig(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load currency config for triangulation: %w", err)
	}

	base := config.BaseCurrencyCode
	if base == "" || base == fromCode || base == toCode {
		// Base equals one of the legs: direct-or-inverse already covered it.
		return nil, apperrors.ErrNotFound
	}

	fromToBase, err := s.lookupDirectOrInverse(ctx, organizationID, fromCode, base, effectiveAt)
	if err != nil {
		return nil, err
	}
	baseToTarget, err := s.lookupDirectOrInverse(ctx, organizationID, base, toCode, effectiveAt)
	if err != nil {
		return nil, err
	}

	return &domain.ResolvedRate{
		Rate:             fromToBase.Rate.Mul(baseToTarget.Rate),
		Source:           domain.RateSourceTriangulated,
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Via:              base,
	}, nil
}

// validateCurrencyCode rejects codes that are not three ASCII letters.
func validateCurrencyCode(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, code)
		}
	}
	return nil
}
