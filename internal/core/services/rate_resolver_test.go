package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/talentforge/payroll-fx/internal/apperrors"
	"github.com/talentforge/payroll-fx/internal/core/domain"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
	"github.com/talentforge/payroll-fx/internal/core/services"
	"github.com/talentforge/payroll-fx/internal/dto"
)

// --- Mock ExchangeRateReader ---
type MockRateStore struct {
	mock.Mock
}

func (m *MockRateStore) FindRateForDate(ctx context.Context, organizationID, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, organizationID, fromCurrencyCode, toCurrencyCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateStore) FindExchangeRateByID(ctx context.Context, organizationID, rateID string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, organizationID, rateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateStore) ListActiveRates(ctx context.Context, organizationID string, asOf time.Time) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, organizationID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockRateStore) ListHistoricalRates(ctx context.Context, organizationID, fromCurrencyCode, toCurrencyCode string, start, end *time.Time, limit, offset int) ([]domain.ExchangeRate, int, error) {
	args := m.Called(ctx, organizationID, fromCurrencyCode, toCurrencyCode, start, end, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Int(1), args.Error(2)
}

// --- Mock CurrencyConfigSvc ---
type MockCurrencyConfigSvc struct {
	mock.Mock
}

func (m *MockCurrencyConfigSvc) GetConfig(ctx context.Context, organizationID string) (*domain.OrgCurrencyConfig, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrgCurrencyConfig), args.Error(1)
}

func (m *MockCurrencyConfigSvc) UpdateConfig(ctx context.Context, organizationID string, req dto.UpdateCurrencyConfigRequest, updaterUserID string) (*domain.OrgCurrencyConfig, error) {
	args := m.Called(ctx, organizationID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrgCurrencyConfig), args.Error(1)
}

// --- Mock RateCache ---
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) Get(ctx context.Context, key string) (*domain.ResolvedRate, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.ResolvedRate), args.Bool(1)
}

func (m *MockRateCache) Set(ctx context.Context, key string, rate domain.ResolvedRate) {
	m.Called(ctx, key, rate)
}

func (m *MockRateCache) Invalidate(ctx context.Context, key string) {
	m.Called(ctx, key)
}

func (m *MockRateCache) Clear(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockRateCache) Stats(ctx context.Context) portssvc.CacheStats {
	args := m.Called(ctx)
	return args.Get(0).(portssvc.CacheStats)
}

// --- Test Suite ---
type RateResolverServiceTestSuite struct {
	suite.Suite
	mockRateStore *MockRateStore
	mockConfigSvc *MockCurrencyConfigSvc
	mockCache     *MockRateCache
	resolver      portssvc.RateResolverSvc
}

func (suite *RateResolverServiceTestSuite) SetupTest() {
	suite.mockRateStore = new(MockRateStore)
	suite.mockConfigSvc = new(MockCurrencyConfigSvc)
	suite.mockCache = new(MockRateCache)
	suite.resolver = services.NewRateResolverService(suite.mockRateStore, suite.mockConfigSvc, suite.mockCache)
}

const testOrgID = "org-123"

func (suite *RateResolverServiceTestSuite) TestResolveRate_Identity() {
	ctx := context.Background()

	resolved, err := suite.resolver.ResolveRate(ctx, testOrgID, "USD", "USD", time.Time{})

	suite.Require().NoError(err)
	suite.True(resolved.Rate.Equal(decimal.NewFromInt(1)))
	suite.Equal(domain.RateSourceIdentity, resolved.Source)
	suite.Empty(resolved.ExchangeRateID)
	suite.mockRateStore.AssertNotCalled(suite.T(), "FindRateForDate")
	suite.mockCache.AssertNotCalled(suite.T(), "Get")
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_NormalizesCase() {
	ctx := context.Background()

	resolved, err := suite.resolver.ResolveRate(ctx, testOrgID, "usd", "Usd", time.Time{})

	suite.Require().NoError(err)
	suite.Equal("USD", resolved.FromCurrencyCode)
	suite.Equal("USD", resolved.ToCurrencyCode)
	suite.Equal(domain.RateSourceIdentity, resolved.Source)
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_InvalidCode() {
	ctx := context.Background()

	_, err := suite.resolver.ResolveRate(ctx, testOrgID, "US", "EUR", time.Time{})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.resolver.ResolveRate(ctx, testOrgID, "USD", "EU2", time.Time{})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_Direct() {
	ctx := context.Background()
	stored := &domain.ExchangeRate{
		ExchangeRateID:   "rate-1",
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		Rate:             decimal.NewFromFloat(21.5),
		Source:           domain.RateSourceManual,
	}

	suite.mockCache.On("Get", ctx, portssvc.RateCacheKey(testOrgID, "USD", "SRD")).Return(nil, false).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "USD", "SRD", mock.AnythingOfType("time.Time")).Return(stored, nil).Once()
	suite.mockCache.On("Set", ctx, portssvc.RateCacheKey(testOrgID, "USD", "SRD"), mock.AnythingOfType("domain.ResolvedRate")).Once()

	resolved, err := suite.resolver.ResolveRate(ctx, testOrgID, "USD", "SRD", time.Time{})

	suite.Require().NoError(err)
	suite.True(resolved.Rate.Equal(decimal.NewFromFloat(21.5)))
	suite.Equal(domain.RateSourceManual, resolved.Source)
	suite.Equal("rate-1", resolved.ExchangeRateID)
	suite.Empty(resolved.Via)
	suite.mockRateStore.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_CacheHit() {
	ctx := context.Background()
	cached := &domain.ResolvedRate{
		Rate:             decimal.NewFromFloat(21.5),
		Source:           domain.RateSourceManual,
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		ExchangeRateID:   "rate-1",
	}

	suite.mockCache.On("Get", ctx, portssvc.RateCacheKey(testOrgID, "USD", "SRD")).Return(cached, true).Once()

	resolved, err := suite.resolver.ResolveRate(ctx, testOrgID, "USD", "SRD", time.Time{})

	suite.Require().NoError(err)
	suite.Equal(cached, resolved)
	suite.mockRateStore.AssertNotCalled(suite.T(), "FindRateForDate")
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_HistoricalBypassesCache() {
	ctx := context.Background()
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	stored := &domain.ExchangeRate{
		ExchangeRateID:   "rate-old",
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		Rate:             decimal.NewFromFloat(19.8),
		Source:           domain.RateSourceImported,
	}

	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "USD", "SRD", asOf).Return(stored, nil).Once()

	resolved, err := suite.resolver.ResolveRate(ctx, testOrgID, "USD", "SRD", asOf)

	suite.Require().NoError(err)
	suite.True(resolved.Rate.Equal(decimal.NewFromFloat(19.8)))
	suite.mockCache.AssertNotCalled(suite.T(), "Get")
	suite.mockCache.AssertNotCalled(suite.T(), "Set")
	suite.mockRateStore.AssertExpectations(suite.T())
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_Inverse() {
	ctx := context.Background()
	stored := &domain.ExchangeRate{
		ExchangeRateID:   "rate-1",
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		Rate:             decimal.NewFromFloat(21.5),
		Source:           domain.RateSourceManual,
	}

	suite.mockCache.On("Get", ctx, mock.AnythingOfType("string")).Return(nil, false).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "SRD", "USD", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "USD", "SRD", mock.AnythingOfType("time.Time")).Return(stored, nil).Once()
	suite.mockCache.On("Set", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("domain.ResolvedRate")).Once()

	resolved, err := suite.resolver.ResolveRate(ctx, testOrgID, "SRD", "USD", time.Time{})

	suite.Require().NoError(err)
	expected := decimal.NewFromInt(1).Div(decimal.NewFromFloat(21.5))
	suite.True(resolved.Rate.Equal(expected), "want %s, got %s", expected, resolved.Rate)
	suite.Equal(domain.RateSourceManualInverted, resolved.Source)
	suite.Equal("rate-1", resolved.ExchangeRateID)
	suite.mockRateStore.AssertExpectations(suite.T())
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_Triangulated() {
	ctx := context.Background()
	usdToSrd := &domain.ExchangeRate{
		ExchangeRateID:   "rate-usd-srd",
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		Rate:             decimal.NewFromFloat(21.5),
		Source:           domain.RateSourceManual,
	}
	usdToEur := &domain.ExchangeRate{
		ExchangeRateID:   "rate-usd-eur",
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.NewFromFloat(0.047),
		Source:           domain.RateSourceManual,
	}
	config := &domain.OrgCurrencyConfig{
		OrganizationID:   testOrgID,
		BaseCurrencyCode: "USD",
	}

	suite.mockCache.On("Get", ctx, mock.AnythingOfType("string")).Return(nil, false).Once()
	// No direct or inverse SRD/EUR rows.
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "SRD", "EUR", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "EUR", "SRD", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockConfigSvc.On("GetConfig", ctx, testOrgID).Return(config, nil).Once()
	// Leg 1: SRD->USD resolves by inverting the stored USD->SRD row.
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "SRD", "USD", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "USD", "SRD", mock.AnythingOfType("time.Time")).Return(usdToSrd, nil).Once()
	// Leg 2: USD->EUR resolves directly.
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "USD", "EUR", mock.AnythingOfType("time.Time")).Return(usdToEur, nil).Once()
	suite.mockCache.On("Set", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("domain.ResolvedRate")).Once()

	resolved, err := suite.resolver.ResolveRate(ctx, testOrgID, "SRD", "EUR", time.Time{})

	suite.Require().NoError(err)
	suite.Equal(domain.RateSourceTriangulated, resolved.Source)
	suite.Equal("USD", resolved.Via)
	suite.Empty(resolved.ExchangeRateID)

	expected := decimal.NewFromInt(1).Div(decimal.NewFromFloat(21.5)).Mul(decimal.NewFromFloat(0.047))
	suite.True(resolved.Rate.Equal(expected), "want %s, got %s", expected, resolved.Rate)
	suite.mockRateStore.AssertExpectations(suite.T())
	suite.mockConfigSvc.AssertExpectations(suite.T())
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_TriangulatedBothLegsDirect() {
	ctx := context.Background()
	usdToSrd := &domain.ExchangeRate{
		ExchangeRateID:   "rate-usd-srd",
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		Rate:             decimal.NewFromFloat(21.5),
		Source:           domain.RateSourceManual,
	}
	srdToEur := &domain.ExchangeRate{
		ExchangeRateID:   "rate-srd-eur",
		FromCurrencyCode: "SRD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.NewFromFloat(0.047),
		Source:           domain.RateSourceManual,
	}
	config := &domain.OrgCurrencyConfig{
		OrganizationID:   testOrgID,
		BaseCurrencyCode: "SRD",
	}

	suite.mockCache.On("Get", ctx, mock.AnythingOfType("string")).Return(nil, false).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "USD", "EUR", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "EUR", "USD", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockConfigSvc.On("GetConfig", ctx, testOrgID).Return(config, nil).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "USD", "SRD", mock.AnythingOfType("time.Time")).Return(usdToSrd, nil).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "SRD", "EUR", mock.AnythingOfType("time.Time")).Return(srdToEur, nil).Once()
	suite.mockCache.On("Set", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("domain.ResolvedRate")).Once()

	resolved, err := suite.resolver.ResolveRate(ctx, testOrgID, "USD", "EUR", time.Time{})

	suite.Require().NoError(err)
	suite.Equal(domain.RateSourceTriangulated, resolved.Source)
	suite.Equal("SRD", resolved.Via)
	suite.True(resolved.Rate.Equal(decimal.NewFromFloat(1.0105)), "got %s", resolved.Rate)
	suite.mockRateStore.AssertExpectations(suite.T())
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_TriangulationSkippedWhenBaseIsLeg() {
	ctx := context.Background()
	config := &domain.OrgCurrencyConfig{
		OrganizationID:   testOrgID,
		BaseCurrencyCode: "USD",
	}

	suite.mockCache.On("Get", ctx, mock.AnythingOfType("string")).Return(nil, false).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "USD", "EUR", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "EUR", "USD", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockConfigSvc.On("GetConfig", ctx, testOrgID).Return(config, nil).Once()

	_, err := suite.resolver.ResolveRate(ctx, testOrgID, "USD", "EUR", time.Time{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateNotFound)
	// The base currency is a leg of the pair, so only two lookups happen.
	suite.mockRateStore.AssertNumberOfCalls(suite.T(), "FindRateForDate", 2)
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_NotFound() {
	ctx := context.Background()
	config := &domain.OrgCurrencyConfig{
		OrganizationID:   testOrgID,
		BaseCurrencyCode: "USD",
	}

	suite.mockCache.On("Get", ctx, mock.AnythingOfType("string")).Return(nil, false).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound)
	suite.mockConfigSvc.On("GetConfig", ctx, testOrgID).Return(config, nil).Once()

	_, err := suite.resolver.ResolveRate(ctx, testOrgID, "SRD", "EUR", time.Time{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateNotFound)
	suite.Contains(err.Error(), "SRD")
	suite.Contains(err.Error(), "EUR")
}

func (suite *RateResolverServiceTestSuite) TestResolveRate_ZeroStoredRateNotInvertible() {
	ctx := context.Background()
	zeroRate := &domain.ExchangeRate{
		ExchangeRateID:   "rate-bad",
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		Rate:             decimal.Zero,
		Source:           domain.RateSourceManual,
	}
	config := &domain.OrgCurrencyConfig{
		OrganizationID:   testOrgID,
		BaseCurrencyCode: "SRD",
	}

	suite.mockCache.On("Get", ctx, mock.AnythingOfType("string")).Return(nil, false).Once()
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "SRD", "USD", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound)
	suite.mockRateStore.On("FindRateForDate", ctx, testOrgID, "USD", "SRD", mock.AnythingOfType("time.Time")).Return(zeroRate, nil)
	suite.mockConfigSvc.On("GetConfig", ctx, testOrgID).Return(config, nil).Once()

	_, err := suite.resolver.ResolveRate(ctx, testOrgID, "SRD", "USD", time.Time{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateNotFound)
}

// --- Run Suite ---
func TestRateResolverService(t *testing.T) {
	suite.Run(t, new(RateResolverServiceTestSuite))
}
