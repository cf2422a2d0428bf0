package domain

// OrgCurrencyConfig holds an organization's currency configuration: the base
// currency used as the triangulation pivot and for reporting, and the set of
// currencies the organization pays in.
type OrgCurrencyConfig struct {
	OrganizationID      string   `json:"organizationID"`
	BaseCurrencyCode    string   `json:"baseCurrencyCode"`
	SupportedCurrencies []string `json:"supportedCurrencies"`
	AuditFields
}

// Supports reports whether code is in the organization's supported set.
// Writers keep the base currency in the set, so Supports(base) holds for any
// persisted configuration.
func (c OrgCurrencyConfig) Supports(code string) bool {
	for _, s := range c.SupportedCurrencies {
		if s == code {
			return true
		}
	}
	return false
}
