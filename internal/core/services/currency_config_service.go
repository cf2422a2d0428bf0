package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/talentforge/payroll-fx/internal/apperrors"
	"github.com/talentforge/payroll-fx/internal/core/domain"
	portsrepo "github.com/talentforge/payroll-fx/internal/core/ports/repositories"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
	"github.com/talentforge/payroll-fx/internal/dto"
)

// CurrencyConfigService manages per-organization currency configuration.
// Configuration is created lazily: the first read for an organization without
// one persists a default whose base is the platform default currency.
type CurrencyConfigService struct {
	configRepo          portsrepo.CurrencyConfigRepositoryFacade
	defaultBaseCurrency string
}

// NewCurrencyConfigService creates a new CurrencyConfigService.
// defaultBaseCurrency seeds lazily-created configurations.
func NewCurrencyConfigService(configRepo portsrepo.CurrencyConfigRepositoryFacade, defaultBaseCurrency string) *CurrencyConfigService {
	return &CurrencyConfigService{
		configRepo:          configRepo,
		defaultBaseCurrency: strings.ToUpper(defaultBaseCurrency),
	}
}

var _ portssvc.CurrencyConfigSvc = (*CurrencyConfigService)(nil)

// GetConfig retrieves an organization's currency configuration, creating the
// default on first access.
func (s *CurrencyConfigService) GetConfig(ctx context.Context, organizationID string) (*domain.OrgCurrencyConfig, error) {
	config, err := s.configRepo.FindConfigByOrganization(ctx, organizationID)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to get currency config in service: %w", err)
	}

	if err := validateCurrencyCode(s.defaultBaseCurrency); err != nil {
		return nil, fmt.Errorf("%w: no default base currency configured", apperrors.ErrConfiguration)
	}

	now := time.Now()
	defaulted := domain.OrgCurrencyConfig{
		OrganizationID:      organizationID,
		BaseCurrencyCode:    s.defaultBaseCurrency,
		SupportedCurrencies: []string{s.defaultBaseCurrency},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system",
			LastUpdatedAt: now,
			LastUpdatedBy: "system",
		},
	}

	if err := s.configRepo.SaveConfig(ctx, defaulted); err != nil {
		// A concurrent first access may have created it already.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.configRepo.FindConfigByOrganization(ctx, organizationID)
		}
		return nil, fmt.Errorf("%w: failed to create default currency config: %v", apperrors.ErrConfiguration, err)
	}

	return &defaulted, nil
}

// UpdateConfig replaces the base currency and supported set for an organization.
func (s *CurrencyConfigService) UpdateConfig(ctx context.Context, organizationID string, req dto.UpdateCurrencyConfigRequest, updaterUserID string) (*domain.OrgCurrencyConfig, error) {
	base := strings.ToUpper(req.BaseCurrencyCode)
	if err := validateCurrencyCode(base); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(req.SupportedCurrencies))
	for _, code := range req.SupportedCurrencies {
		code = strings.ToUpper(code)
		if err := validateCurrencyCode(code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	// Ensure the row exists so update semantics are uniform.
	existing, err := s.GetConfig(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.BaseCurrencyCode = base
	updated.SupportedCurrencies = make([]string, 0, len(codes)+1)
	for _, code := range codes {
		if !updated.Supports(code) {
			updated.SupportedCurrencies = append(updated.SupportedCurrencies, code)
		}
	}
	// The base currency is always part of the supported set.
	if !updated.Supports(base) {
		updated.SupportedCurrencies = append(updated.SupportedCurrencies, base)
	}
	updated.LastUpdatedAt = time.Now()
	updated.LastUpdatedBy = updaterUserID

	if err := s.configRepo.UpdateConfig(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update currency config in service: %w", err)
	}

	return &updated, nil
}
