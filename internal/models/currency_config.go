package models

// OrgCurrencyConfig mirrors a row of the org_currency_configs table.
// SupportedCurrencies maps to a text[] column.
type OrgCurrencyConfig struct {
	OrganizationID      string   `json:"organizationID"`
	BaseCurrencyCode    string   `json:"baseCurrencyCode"`
	SupportedCurrencies []string `json:"supportedCurrencies"`
	AuditFields
}
