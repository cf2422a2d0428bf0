package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionMetadata captures how a converted amount was produced.
type ConversionMetadata struct {
	RoundingMethod RoundingMethod `json:"roundingMethod"`
	DecimalPlaces  int32          `json:"decimalPlaces"`
	Via            string         `json:"via,omitempty"` // triangulation pivot, if any
}

// ConversionRecord is an append-only ledger entry for a single performed
// conversion. Records are never updated or deleted; ExchangeRateID is empty
// for identity conversions.
type ConversionRecord struct {
	ConversionID     string             `json:"conversionID"`
	OrganizationID   string             `json:"organizationID"`
	FromCurrencyCode string             `json:"fromCurrencyCode"`
	ToCurrencyCode   string             `json:"toCurrencyCode"`
	FromAmount       decimal.Decimal    `json:"fromAmount"`
	ToAmount         decimal.Decimal    `json:"toAmount"`
	RateUsed         decimal.Decimal    `json:"rateUsed"`
	RateSource       RateSource         `json:"rateSource"`
	ExchangeRateID   string             `json:"exchangeRateID,omitempty"`
	ReferenceType    string             `json:"referenceType,omitempty"` // e.g. "paycheck"
	ReferenceID      string             `json:"referenceID,omitempty"`
	Metadata         ConversionMetadata `json:"metadata"`
	CreatedAt        time.Time          `json:"createdAt"`
	CreatedBy        string             `json:"createdBy"`
}
