package mapping

import (
	"github.com/talentforge/payroll-fx/internal/core/domain"
	"github.com/talentforge/payroll-fx/internal/models"
)

// ToModelConversionRecord converts a domain ConversionRecord to its model counterpart
func ToModelConversionRecord(d domain.ConversionRecord) models.ConversionRecord {
	return models.ConversionRecord{
		ConversionID:     d.ConversionID,
		OrganizationID:   d.OrganizationID,
		FromCurrencyCode: d.FromCurrencyCode,
		ToCurrencyCode:   d.ToCurrencyCode,
		FromAmount:       d.FromAmount,
		ToAmount:         d.ToAmount,
		RateUsed:         d.RateUsed,
		RateSource:       string(d.RateSource),
		ExchangeRateID:   nilIfEmpty(d.ExchangeRateID),
		ReferenceType:    nilIfEmpty(d.ReferenceType),
		ReferenceID:      nilIfEmpty(d.ReferenceID),
		RoundingMethod:   string(d.Metadata.RoundingMethod),
		DecimalPlaces:    d.Metadata.DecimalPlaces,
		Via:              nilIfEmpty(d.Metadata.Via),
		CreatedAt:        d.CreatedAt,
		CreatedBy:        d.CreatedBy,
	}
}

// ToDomainConversionRecord converts a model ConversionRecord to its domain counterpart
func ToDomainConversionRecord(m models.ConversionRecord) domain.ConversionRecord {
	return domain.ConversionRecord{
		ConversionID:     m.ConversionID,
		OrganizationID:   m.OrganizationID,
		FromCurrencyCode: m.FromCurrencyCode,
		ToCurrencyCode:   m.ToCurrencyCode,
		FromAmount:       m.FromAmount,
		ToAmount:         m.ToAmount,
		RateUsed:         m.RateUsed,
		RateSource:       domain.RateSource(m.RateSource),
		ExchangeRateID:   emptyIfNil(m.ExchangeRateID),
		ReferenceType:    emptyIfNil(m.ReferenceType),
		ReferenceID:      emptyIfNil(m.ReferenceID),
		Metadata: domain.ConversionMetadata{
			RoundingMethod: domain.RoundingMethod(m.RoundingMethod),
			DecimalPlaces:  m.DecimalPlaces,
			Via:            emptyIfNil(m.Via),
		},
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func emptyIfNil(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
