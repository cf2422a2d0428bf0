package mapping

import (
	"github.com/talentforge/payroll-fx/internal/core/domain"
	"github.com/talentforge/payroll-fx/internal/models"
)

// ToModelCurrencyConfig converts a domain OrgCurrencyConfig to its model counterpart
func ToModelCurrencyConfig(d domain.OrgCurrencyConfig) models.OrgCurrencyConfig {
	return models.OrgCurrencyConfig{
		OrganizationID:      d.OrganizationID,
		BaseCurrencyCode:    d.BaseCurrencyCode,
		SupportedCurrencies: d.SupportedCurrencies,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCurrencyConfig converts a model OrgCurrencyConfig to its domain counterpart
func ToDomainCurrencyConfig(m models.OrgCurrencyConfig) domain.OrgCurrencyConfig {
	return domain.OrgCurrencyConfig{
		OrganizationID:      m.OrganizationID,
		BaseCurrencyCode:    m.BaseCurrencyCode,
		SupportedCurrencies: m.SupportedCurrencies,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}
