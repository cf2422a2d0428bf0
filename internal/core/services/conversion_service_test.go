package services_test

import (
	"context"
	"errors"
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

// --- Mock RateResolverSvc ---
type MockRateResolver struct {
	mock.Mock
}

func (m *MockRateResolver) ResolveRate(ctx context.Context, organizationID, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ResolvedRate, error) {
	args := m.Called(ctx, organizationID, fromCurrencyCode, toCurrencyCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResolvedRate), args.Error(1)
}

// --- Mock ConversionRepository ---
type MockConversionRepository struct {
	mock.Mock
}

func (m *MockConversionRepository) SaveConversion(ctx context.Context, record domain.ConversionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockConversionRepository) ListConversionsByReference(ctx context.Context, organizationID, referenceType, referenceID string) ([]domain.ConversionRecord, error) {
	args := m.Called(ctx, organizationID, referenceType, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConversionRecord), args.Error(1)
}

// --- Test Suite ---
type ConversionServiceTestSuite struct {
	suite.Suite
	mockResolver *MockRateResolver
	mockConvRepo *MockConversionRepository
	service      portssvc.ConversionSvc
}

func (suite *ConversionServiceTestSuite) SetupTest() {
	suite.mockResolver = new(MockRateResolver)
	suite.mockConvRepo = new(MockConversionRepository)
	suite.service = services.NewConversionService(suite.mockResolver, suite.mockConvRepo, nil)
}

func (suite *ConversionServiceTestSuite) resolvedUSDToSRD() *domain.ResolvedRate {
	return &domain.ResolvedRate{
		Rate:             decimal.NewFromFloat(21.5),
		Source:           domain.RateSourceManual,
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		ExchangeRateID:   "rate-1",
	}
}

func (suite *ConversionServiceTestSuite) TestConvert_Success() {
	ctx := context.Background()
	req := dto.ConvertRequest{
		Amount:           decimal.NewFromInt(100),
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
	}

	suite.mockResolver.On("ResolveRate", ctx, testOrgID, "USD", "SRD", time.Time{}).Return(suite.resolvedUSDToSRD(), nil).Once()

	result, err := suite.service.Convert(ctx, testOrgID, req, "user-1")

	suite.Require().NoError(err)
	suite.True(result.ToAmount.Equal(decimal.NewFromFloat(2150.00)), "got %s", result.ToAmount)
	suite.True(result.Rate.Equal(decimal.NewFromFloat(21.5)))
	suite.Equal("manual", result.Source)
	suite.Empty(result.ConversionID)
	// No reference supplied, so no ledger entry is written.
	suite.mockConvRepo.AssertNotCalled(suite.T(), "SaveConversion")
}

func (suite *ConversionServiceTestSuite) TestConvert_RoundsToRequestedPlaces() {
	ctx := context.Background()
	places := int32(0)
	req := dto.ConvertRequest{
		Amount:           decimal.NewFromFloat(100.25),
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		RoundingMethod:   "down",
		DecimalPlaces:    &places,
	}

	suite.mockResolver.On("ResolveRate", ctx, testOrgID, "USD", "SRD", time.Time{}).Return(suite.resolvedUSDToSRD(), nil).Once()

	result, err := suite.service.Convert(ctx, testOrgID, req, "user-1")

	suite.Require().NoError(err)
	// 100.25 * 21.5 = 2155.375, truncated to 2155.
	suite.True(result.ToAmount.Equal(decimal.NewFromInt(2155)), "got %s", result.ToAmount)
}

func (suite *ConversionServiceTestSuite) TestConvert_NegativeAmount() {
	ctx := context.Background()
	req := dto.ConvertRequest{
		Amount:           decimal.NewFromInt(-5),
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
	}

	result, err := suite.service.Convert(ctx, testOrgID, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockResolver.AssertNotCalled(suite.T(), "ResolveRate")
}

func (suite *ConversionServiceTestSuite) TestConvert_ZeroAmount() {
	ctx := context.Background()
	req := dto.ConvertRequest{
		Amount:           decimal.Zero,
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		ReferenceType:    "paycheck",
		ReferenceID:      "pay-42",
	}

	result, err := suite.service.Convert(ctx, testOrgID, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockResolver.AssertNotCalled(suite.T(), "ResolveRate")
	suite.mockConvRepo.AssertNotCalled(suite.T(), "SaveConversion")
}

func (suite *ConversionServiceTestSuite) TestConvert_UnknownRoundingMethod() {
	ctx := context.Background()
	req := dto.ConvertRequest{
		Amount:           decimal.NewFromInt(100),
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		RoundingMethod:   "ceiling",
	}

	result, err := suite.service.Convert(ctx, testOrgID, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ConversionServiceTestSuite) TestConvert_RateNotFound() {
	ctx := context.Background()
	req := dto.ConvertRequest{
		Amount:           decimal.NewFromInt(100),
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "XOF",
	}

	suite.mockResolver.On("ResolveRate", ctx, testOrgID, "USD", "XOF", time.Time{}).
		Return(nil, apperrors.NewRateNotFoundError("USD", "XOF")).Once()

	result, err := suite.service.Convert(ctx, testOrgID, req, "user-1")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrRateNotFound)
}

func (suite *ConversionServiceTestSuite) TestConvert_WithReferenceWritesLedger() {
	ctx := context.Background()
	req := dto.ConvertRequest{
		Amount:           decimal.NewFromInt(100),
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		ReferenceType:    "paycheck",
		ReferenceID:      "pay-42",
	}

	suite.mockResolver.On("ResolveRate", ctx, testOrgID, "USD", "SRD", time.Time{}).Return(suite.resolvedUSDToSRD(), nil).Once()
	suite.mockConvRepo.On("SaveConversion", ctx, mock.MatchedBy(func(rec domain.ConversionRecord) bool {
		return rec.OrganizationID == testOrgID &&
			rec.ReferenceType == "paycheck" &&
			rec.ReferenceID == "pay-42" &&
			rec.RateSource == domain.RateSourceManual &&
			rec.Metadata.RoundingMethod == domain.RoundHalfUp &&
			rec.Metadata.DecimalPlaces == 2 &&
			rec.CreatedBy == "user-1"
	})).Return(nil).Once()

	result, err := suite.service.Convert(ctx, testOrgID, req, "user-1")

	suite.Require().NoError(err)
	suite.NotEmpty(result.ConversionID)
	suite.mockConvRepo.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestConvert_LedgerFailureDoesNotFailConversion() {
	ctx := context.Background()
	req := dto.ConvertRequest{
		Amount:           decimal.NewFromInt(100),
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		ReferenceType:    "paycheck",
		ReferenceID:      "pay-42",
	}

	suite.mockResolver.On("ResolveRate", ctx, testOrgID, "USD", "SRD", time.Time{}).Return(suite.resolvedUSDToSRD(), nil).Once()
	suite.mockConvRepo.On("SaveConversion", ctx, mock.AnythingOfType("domain.ConversionRecord")).
		Return(errors.New("connection refused")).Once()

	result, err := suite.service.Convert(ctx, testOrgID, req, "user-1")

	suite.Require().NoError(err)
	suite.True(result.ToAmount.Equal(decimal.NewFromFloat(2150.00)))
	suite.Empty(result.ConversionID)
	suite.mockConvRepo.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestConvert_HistoricalDatePassedThrough() {
	ctx := context.Background()
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	req := dto.ConvertRequest{
		Amount:           decimal.NewFromInt(100),
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "SRD",
		AsOfDate:         &asOf,
	}

	suite.mockResolver.On("ResolveRate", ctx, testOrgID, "USD", "SRD", asOf).Return(suite.resolvedUSDToSRD(), nil).Once()

	_, err := suite.service.Convert(ctx, testOrgID, req, "user-1")

	suite.Require().NoError(err)
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *ConversionServiceTestSuite) TestConvertBatch_PartialFailure() {
	ctx := context.Background()
	reqs := []dto.ConvertRequest{
		{Amount: decimal.NewFromInt(100), FromCurrencyCode: "USD", ToCurrencyCode: "SRD"},
		{Amount: decimal.NewFromInt(50), FromCurrencyCode: "USD", ToCurrencyCode: "XOF"},
		{Amount: decimal.NewFromInt(10), FromCurrencyCode: "EUR", ToCurrencyCode: "EUR"},
	}

	suite.mockResolver.On("ResolveRate", ctx, testOrgID, "USD", "SRD", time.Time{}).Return(suite.resolvedUSDToSRD(), nil).Once()
	suite.mockResolver.On("ResolveRate", ctx, testOrgID, "USD", "XOF", time.Time{}).
		Return(nil, apperrors.NewRateNotFoundError("USD", "XOF")).Once()
	suite.mockResolver.On("ResolveRate", ctx, testOrgID, "EUR", "EUR", time.Time{}).
		Return(&domain.ResolvedRate{
			Rate:             decimal.NewFromInt(1),
			Source:           domain.RateSourceIdentity,
			FromCurrencyCode: "EUR",
			ToCurrencyCode:   "EUR",
		}, nil).Once()

	results := suite.service.ConvertBatch(ctx, testOrgID, reqs, "user-1")

	suite.Require().Len(results, 3)
	suite.True(results[0].Success)
	suite.True(results[0].Result.ToAmount.Equal(decimal.NewFromFloat(2150.00)))
	suite.False(results[1].Success)
	suite.Contains(results[1].Error, "exchange rate not found")
	suite.Nil(results[1].Result)
	suite.True(results[2].Success)
	suite.True(results[2].Result.ToAmount.Equal(decimal.NewFromInt(10)))
}

func (suite *ConversionServiceTestSuite) TestConvertBatch_Empty() {
	results := suite.service.ConvertBatch(context.Background(), testOrgID, nil, "user-1")
	suite.Empty(results)
	suite.NotNil(results)
}

func (suite *ConversionServiceTestSuite) TestListConversionsByReference_Success() {
	ctx := context.Background()
	records := []domain.ConversionRecord{{ConversionID: "conv-1"}}

	suite.mockConvRepo.On("ListConversionsByReference", ctx, testOrgID, "paycheck", "pay-42").Return(records, nil).Once()

	got, err := suite.service.ListConversionsByReference(ctx, testOrgID, "paycheck", "pay-42")

	suite.Require().NoError(err)
	suite.Equal(records, got)
}

func (suite *ConversionServiceTestSuite) TestListConversionsByReference_MissingParams() {
	ctx := context.Background()

	_, err := suite.service.ListConversionsByReference(ctx, testOrgID, "", "pay-42")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.ListConversionsByReference(ctx, testOrgID, "paycheck", "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Suite ---
func TestConversionService(t *testing.T) {
	suite.Run(t, new(ConversionServiceTestSuite))
}
