package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionRecord mirrors a row of the conversion_records ledger table.
// Rows are append-only; exchange_rate_id is NULL for identity and
// triangulated conversions.
type ConversionRecord struct {
	ConversionID     string          `json:"conversionID"`
	OrganizationID   string          `json:"organizationID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	FromAmount       decimal.Decimal `json:"fromAmount"`
	ToAmount         decimal.Decimal `json:"toAmount"`
	RateUsed         decimal.Decimal `json:"rateUsed"`
	RateSource       string          `json:"rateSource"`
	ExchangeRateID   *string         `json:"exchangeRateID"`
	ReferenceType    *string         `json:"referenceType"`
	ReferenceID      *string         `json:"referenceID"`
	RoundingMethod   string          `json:"roundingMethod"`
	DecimalPlaces    int32           `json:"decimalPlaces"`
	Via              *string         `json:"via"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}
