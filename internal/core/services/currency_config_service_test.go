package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/talentforge/payroll-fx/internal/apperrors"
	"github.com/talentforge/payroll-fx/internal/core/domain"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
	"github.com/talentforge/payroll-fx/internal/core/services"
	"github.com/talentforge/payroll-fx/internal/dto"
)

// --- Mock CurrencyConfigRepository ---
type MockCurrencyConfigRepository struct {
	mock.Mock
}

func (m *MockCurrencyConfigRepository) FindConfigByOrganization(ctx context.Context, organizationID string) (*domain.OrgCurrencyConfig, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrgCurrencyConfig), args.Error(1)
}

func (m *MockCurrencyConfigRepository) SaveConfig(ctx context.Context, config domain.OrgCurrencyConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockCurrencyConfigRepository) UpdateConfig(ctx context.Context, config domain.OrgCurrencyConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// --- Test Suite ---
type CurrencyConfigServiceTestSuite struct {
	suite.Suite
	mockConfigRepo *MockCurrencyConfigRepository
	service        portssvc.CurrencyConfigSvc
}

func (suite *CurrencyConfigServiceTestSuite) SetupTest() {
	suite.mockConfigRepo = new(MockCurrencyConfigRepository)
	suite.service = services.NewCurrencyConfigService(suite.mockConfigRepo, "usd")
}

func (suite *CurrencyConfigServiceTestSuite) TestGetConfig_Existing() {
	ctx := context.Background()
	existing := &domain.OrgCurrencyConfig{
		OrganizationID:      testOrgID,
		BaseCurrencyCode:    "EUR",
		SupportedCurrencies: []string{"EUR", "USD"},
	}

	suite.mockConfigRepo.On("FindConfigByOrganization", ctx, testOrgID).Return(existing, nil).Once()

	config, err := suite.service.GetConfig(ctx, testOrgID)

	suite.Require().NoError(err)
	suite.Equal(existing, config)
	suite.mockConfigRepo.AssertNotCalled(suite.T(), "SaveConfig")
}

func (suite *CurrencyConfigServiceTestSuite) TestGetConfig_LazyDefault() {
	ctx := context.Background()

	suite.mockConfigRepo.On("FindConfigByOrganization", ctx, testOrgID).
		Return(nil, apperrors.NewNotFoundError("currency config not found")).Once()
	suite.mockConfigRepo.On("SaveConfig", ctx, mock.MatchedBy(func(c domain.OrgCurrencyConfig) bool {
		return c.OrganizationID == testOrgID &&
			c.BaseCurrencyCode == "USD" &&
			len(c.SupportedCurrencies) == 1 &&
			c.SupportedCurrencies[0] == "USD" &&
			c.CreatedBy == "system"
	})).Return(nil).Once()

	config, err := suite.service.GetConfig(ctx, testOrgID)

	suite.Require().NoError(err)
	suite.Equal("USD", config.BaseCurrencyCode)
	suite.Equal([]string{"USD"}, config.SupportedCurrencies)
	suite.mockConfigRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyConfigServiceTestSuite) TestGetConfig_ConcurrentFirstAccess() {
	ctx := context.Background()
	created := &domain.OrgCurrencyConfig{
		OrganizationID:   testOrgID,
		BaseCurrencyCode: "USD",
	}

	// Another request creates the row between our miss and our insert.
	suite.mockConfigRepo.On("FindConfigByOrganization", ctx, testOrgID).
		Return(nil, apperrors.NewNotFoundError("currency config not found")).Once()
	suite.mockConfigRepo.On("SaveConfig", ctx, mock.AnythingOfType("domain.OrgCurrencyConfig")).
		Return(apperrors.NewAppError(409, "currency config already exists", apperrors.ErrDuplicate)).Once()
	suite.mockConfigRepo.On("FindConfigByOrganization", ctx, testOrgID).Return(created, nil).Once()

	config, err := suite.service.GetConfig(ctx, testOrgID)

	suite.Require().NoError(err)
	suite.Equal(created, config)
	suite.mockConfigRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyConfigServiceTestSuite) TestGetConfig_NoDefaultConfigured() {
	ctx := context.Background()
	service := services.NewCurrencyConfigService(suite.mockConfigRepo, "")

	suite.mockConfigRepo.On("FindConfigByOrganization", ctx, testOrgID).
		Return(nil, apperrors.NewNotFoundError("currency config not found")).Once()

	config, err := service.GetConfig(ctx, testOrgID)

	suite.Require().Error(err)
	suite.Nil(config)
	suite.ErrorIs(err, apperrors.ErrConfiguration)
	suite.mockConfigRepo.AssertNotCalled(suite.T(), "SaveConfig")
}

func (suite *CurrencyConfigServiceTestSuite) TestUpdateConfig_Success() {
	ctx := context.Background()
	existing := &domain.OrgCurrencyConfig{
		OrganizationID:      testOrgID,
		BaseCurrencyCode:    "USD",
		SupportedCurrencies: []string{"USD"},
	}
	req := dto.UpdateCurrencyConfigRequest{
		BaseCurrencyCode:    "eur",
		SupportedCurrencies: []string{"usd", "srd", "USD"},
	}

	suite.mockConfigRepo.On("FindConfigByOrganization", ctx, testOrgID).Return(existing, nil).Once()
	suite.mockConfigRepo.On("UpdateConfig", ctx, mock.MatchedBy(func(c domain.OrgCurrencyConfig) bool {
		return c.BaseCurrencyCode == "EUR" && c.LastUpdatedBy == "user-1"
	})).Return(nil).Once()

	config, err := suite.service.UpdateConfig(ctx, testOrgID, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("EUR", config.BaseCurrencyCode)
	// Codes are uppercased, deduplicated, and the base is always included.
	suite.Equal([]string{"USD", "SRD", "EUR"}, config.SupportedCurrencies)
	suite.mockConfigRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyConfigServiceTestSuite) TestUpdateConfig_InvalidBase() {
	ctx := context.Background()
	req := dto.UpdateCurrencyConfigRequest{BaseCurrencyCode: "EURO"}

	config, err := suite.service.UpdateConfig(ctx, testOrgID, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(config)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockConfigRepo.AssertNotCalled(suite.T(), "UpdateConfig")
}

func (suite *CurrencyConfigServiceTestSuite) TestUpdateConfig_InvalidSupportedCode() {
	ctx := context.Background()
	req := dto.UpdateCurrencyConfigRequest{
		BaseCurrencyCode:    "EUR",
		SupportedCurrencies: []string{"USD", "12X"},
	}

	config, err := suite.service.UpdateConfig(ctx, testOrgID, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(config)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Suite ---
func TestCurrencyConfigService(t *testing.T) {
	suite.Run(t, new(CurrencyConfigServiceTestSuite))
}
