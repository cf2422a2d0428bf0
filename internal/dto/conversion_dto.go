package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/talentforge/payroll-fx/internal/core/domain"
)

// ConvertRequest defines the structure for performing a single conversion.
// RoundingMethod and DecimalPlaces fall back to half_up / 2 when omitted;
// AsOfDate falls back to "now".
type ConvertRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
	AsOfDate         *time.Time      `json:"asOfDate,omitempty"`
	RoundingMethod   string          `json:"roundingMethod,omitempty" binding:"omitempty,roundingmethod"`
	DecimalPlaces    *int32          `json:"decimalPlaces,omitempty" binding:"omitempty,gte=0,lte=8"`
	ReferenceType    string          `json:"referenceType,omitempty"`
	ReferenceID      string          `json:"referenceID,omitempty"`
}

// ConversionResponse defines the structure returned for a performed conversion.
// ConversionID is absent when no ledger entry was requested or its write failed.
type ConversionResponse struct {
	FromAmount       decimal.Decimal `json:"fromAmount"`
	ToAmount         decimal.Decimal `json:"toAmount"`
	Rate             decimal.Decimal `json:"rate"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Source           string          `json:"source"`
	Via              string          `json:"via,omitempty"`
	ConversionID     string          `json:"conversionID,omitempty"`
}

// BatchConvertRequest defines a batch of independent conversions.
type BatchConvertRequest struct {
	Conversions []ConvertRequest `json:"conversions" binding:"required,min=1,dive"`
}

// BatchConversionResult reports the outcome for one batch entry, in input order.
type BatchConversionResult struct {
	Success bool                `json:"success"`
	Result  *ConversionResponse `json:"result,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// ConversionRecordResponse defines the API shape of a conversion ledger entry.
type ConversionRecordResponse struct {
	ConversionID     string          `json:"conversionID"`
	OrganizationID   string          `json:"organizationID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	FromAmount       decimal.Decimal `json:"fromAmount"`
	ToAmount         decimal.Decimal `json:"toAmount"`
	RateUsed         decimal.Decimal `json:"rateUsed"`
	RateSource       string          `json:"rateSource"`
	ExchangeRateID   string          `json:"exchangeRateID,omitempty"`
	ReferenceType    string          `json:"referenceType,omitempty"`
	ReferenceID      string          `json:"referenceID,omitempty"`
	RoundingMethod   string          `json:"roundingMethod"`
	DecimalPlaces    int32           `json:"decimalPlaces"`
	Via              string          `json:"via,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ToConversionRecordResponse converts a domain.ConversionRecord to its API shape.
func ToConversionRecordResponse(rec *domain.ConversionRecord) ConversionRecordResponse {
	return ConversionRecordResponse{
		ConversionID:     rec.ConversionID,
		OrganizationID:   rec.OrganizationID,
		FromCurrencyCode: rec.FromCurrencyCode,
		ToCurrencyCode:   rec.ToCurrencyCode,
		FromAmount:       rec.FromAmount,
		ToAmount:         rec.ToAmount,
		RateUsed:         rec.RateUsed,
		RateSource:       string(rec.RateSource),
		ExchangeRateID:   rec.ExchangeRateID,
		ReferenceType:    rec.ReferenceType,
		ReferenceID:      rec.ReferenceID,
		RoundingMethod:   string(rec.Metadata.RoundingMethod),
		DecimalPlaces:    rec.Metadata.DecimalPlaces,
		Via:              rec.Metadata.Via,
		CreatedAt:        rec.CreatedAt,
		CreatedBy:        rec.CreatedBy,
	}
}

// ToListConversionRecordResponse converts a slice of ledger entries to DTOs.
func ToListConversionRecordResponse(records []domain.ConversionRecord) []ConversionRecordResponse {
	responses := make([]ConversionRecordResponse, len(records))
	for i := range records {
		responses[i] = ToConversionRecordResponse(&records[i])
	}
	return responses
}
