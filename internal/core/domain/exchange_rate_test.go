package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talentforge/payroll-fx/internal/core/domain"
)

func TestRateSource_Inverted(t *testing.T) {
	assert.Equal(t, domain.RateSourceManualInverted, domain.RateSourceManual.Inverted())
	assert.Equal(t, domain.RateSourceImportedInverted, domain.RateSourceImported.Inverted())

	// Derived sources do not invert a second time.
	assert.Equal(t, domain.RateSourceManualInverted, domain.RateSourceManualInverted.Inverted())
	assert.Equal(t, domain.RateSourceTriangulated, domain.RateSourceTriangulated.Inverted())
	assert.Equal(t, domain.RateSourceIdentity, domain.RateSourceIdentity.Inverted())
}

func TestOrgCurrencyConfig_Supports(t *testing.T) {
	cfg := domain.OrgCurrencyConfig{
		BaseCurrencyCode:    "USD",
		SupportedCurrencies: []string{"USD", "EUR", "SRD"},
	}

	assert.True(t, cfg.Supports("USD"))
	assert.True(t, cfg.Supports("EUR"))
	assert.True(t, cfg.Supports("SRD"))
	assert.False(t, cfg.Supports("GBP"))
}
