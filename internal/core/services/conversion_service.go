package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/talentforge/payroll-fx/internal/apperrors"
	"github.com/talentforge/payroll-fx/internal/core/domain"
	portsrepo "github.com/talentforge/payroll-fx/internal/core/ports/repositories"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
	"github.com/talentforge/payroll-fx/internal/dto"
)

// ConversionService converts amounts between currencies using resolved rates
// and maintains the append-only conversion ledger. Ledger writes are
// best-effort: payroll must not fail because an audit row could not be stored.
type ConversionService struct {
	resolver       portssvc.RateResolverSvc
	conversionRepo portsrepo.ConversionRepositoryFacade
	logger         *slog.Logger
}

// NewConversionService creates a new ConversionService.
func NewConversionService(resolver portssvc.RateResolverSvc, conversionRepo portsrepo.ConversionRepositoryFacade, logger *slog.Logger) *ConversionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversionService{
		resolver:       resolver,
		conversionRepo: conversionRepo,
		logger:         logger,
	}
}

var _ portssvc.ConversionSvc = (*ConversionService)(nil)

// Convert performs a single conversion. The rate is resolved for the request
// date (defaulting to now), the raw product is rounded under the requested
// discipline, and a ledger entry is appended when a reference is supplied.
func (s *ConversionService) Convert(ctx context.Context, organizationID string, req dto.ConvertRequest, createdBy string) (*dto.ConversionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	method, err := domain.ParseRoundingMethod(req.RoundingMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	places := domain.DefaultDecimalPlaces
	if req.DecimalPlaces != nil {
		places = *req.DecimalPlaces
	}

	var asOf time.Time
	if req.AsOfDate != nil {
		asOf = *req.AsOfDate
	}

	resolved, err := s.resolver.ResolveRate(ctx, organizationID, req.FromCurrencyCode, req.ToCurrencyCode, asOf)
	if err != nil {
		return nil, err
	}

	raw := req.Amount.Mul(resolved.Rate)
	toAmount, err := domain.Round(raw, places, method)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	result := &dto.ConversionResponse{
		FromAmount:       req.Amount,
		ToAmount:         toAmount,
		Rate:             resolved.Rate,
		FromCurrencyCode: resolved.FromCurrencyCode,
		ToCurrencyCode:   resolved.ToCurrencyCode,
		Source:           string(resolved.Source),
		Via:              resolved.Via,
	}

	if req.ReferenceType != "" && req.ReferenceID != "" {
		record := domain.ConversionRecord{
			ConversionID:     uuid.NewString(),
			OrganizationID:   organizationID,
			FromCurrencyCode: resolved.FromCurrencyCode,
			ToCurrencyCode:   resolved.ToCurrencyCode,
			FromAmount:       req.Amount,
			ToAmount:         toAmount,
			RateUsed:         resolved.Rate,
			RateSource:       resolved.Source,
			ExchangeRateID:   resolved.ExchangeRateID,
			ReferenceType:    req.ReferenceType,
			ReferenceID:      req.ReferenceID,
			Metadata: domain.ConversionMetadata{
				RoundingMethod: method,
				DecimalPlaces:  places,
				Via:            resolved.Via,
			},
			CreatedAt: time.Now(),
			CreatedBy: createdBy,
		}

		if err := s.conversionRepo.SaveConversion(ctx, record); err != nil {
			// Audit is best-effort: the conversion result stands even when
			// its ledger entry cannot be written.
			s.logger.Error("Failed to write conversion ledger entry",
				slog.String("organization_id", organizationID),
				slog.String("reference_type", req.ReferenceType),
				slog.String("reference_id", req.ReferenceID),
				slog.String("error", err.Error()),
			)
		} else {
			result.ConversionID = record.ConversionID
		}
	}

	return result, nil
}

// ConvertBatch processes each entry independently through Convert. Per-entry
// failures are captured in the corresponding result; siblings are unaffected.
func (s *ConversionService) ConvertBatch(ctx context.Context, organizationID string, reqs []dto.ConvertRequest, createdBy string) []dto.BatchConversionResult {
	results := make([]dto.BatchConversionResult, 0, len(reqs))
	for _, req := range reqs {
		converted, err := s.Convert(ctx, organizationID, req, createdBy)
		if err != nil {
			results = append(results, dto.BatchConversionResult{Success: false, Error: err.Error()})
			continue
		}
		results = append(results, dto.BatchConversionResult{Success: true, Result: converted})
	}
	return results
}

// ListConversionsByReference retrieves ledger entries for a business entity,
// e.g. every conversion performed for one paycheck.
func (s *ConversionService) ListConversionsByReference(ctx context.Context, organizationID, referenceType, referenceID string) ([]domain.ConversionRecord, error) {
	if referenceType == "" || referenceID == "" {
		return nil, fmt.Errorf("%w: referenceType and referenceID are required", apperrors.ErrValidation)
	}

	records, err := s.conversionRepo.ListConversionsByReference(ctx, organizationID, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions in service: %w", err)
	}
	if records == nil {
		return []domain.ConversionRecord{}, nil
	}
	return records, nil
}
