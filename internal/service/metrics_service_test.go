package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"customer-analytics-buddy/internal/logger"
	"customer-analytics-buddy/internal/model"
	"customer-analytics-buddy/internal/shopify"
	"customer-analytics-buddy/internal/testdata/mockfetcher"
)

type MetricsServiceTestSuite struct {
	suite.Suite

	fetcher *mockfetcher.Fetcher

	// Concrete struct so tests can freeze the 'now' clock.
	service *metricsService

	now  time.Time
	opts shopify.FetchOptions
}

func TestMetricsServiceSuite(t *testing.T) {
	suite.Run(t, new(MetricsServiceTestSuite))
}

func (s *MetricsServiceTestSuite) SetupTest() {
	s.fetcher = &mockfetcher.Fetcher{}

	svc := NewMetricsService(250, 1000, logger.NewNop())
	s.service = svc.(*metricsService)

	s.now = time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)
	s.service.now = func() time.Time { return s.now }
	s.opts = shopify.FetchOptions{PageSize: 250, MaxRecords: 1000}
}

func (s *MetricsServiceTestSuite) fullRange(token string) DateRange {
	return ResolveRange(token, s.now)
}

func (s *MetricsServiceTestSuite) TestReviewers_DistinctActorCount() {
	rng := s.fullRange("7days")
	orders := []model.Order{
		{ID: "o1", CustomerID: "C1", Tags: []string{"vip", "reviewed"}},
		{ID: "o2", CustomerID: "C2", Note: "Great review, thanks!"},
		{ID: "o3", CustomerID: "C3", Tags: []string{"wholesale"}},
	}
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).Return(orders, nil)

	result, err := s.service.Reviewers(context.Background(), s.fetcher, "7days", nil)

	s.NoError(err)
	s.Equal(2, result.Count)
	s.Empty(result.DataPoints)
}

func (s *MetricsServiceTestSuite) TestReviewers_SameActorCountedOnce() {
	rng := s.fullRange("7days")
	orders := []model.Order{
		{ID: "o1", CustomerID: "C1", Tags: []string{"reviewed"}},
		{ID: "o2", CustomerID: "C1", Note: "another review"},
	}
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).Return(orders, nil)

	result, err := s.service.Reviewers(context.Background(), s.fetcher, "7days", nil)

	s.NoError(err)
	s.Equal(1, result.Count)
}

func (s *MetricsServiceTestSuite) TestReviewers_NullActorNeverCounted() {
	rng := s.fullRange("7days")
	orders := []model.Order{
		{ID: "o1", Tags: []string{"reviewed"}}, // matches, but no customer
	}
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).Return(orders, nil)

	result, err := s.service.Reviewers(context.Background(), s.fetcher, "7days", nil)

	s.NoError(err)
	s.Equal(0, result.Count)
}

func (s *MetricsServiceTestSuite) TestReviewers_EmptyRangeYieldsZero() {
	rng := s.fullRange("30days")
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).Return([]model.Order{}, nil)

	result, err := s.service.Reviewers(context.Background(), s.fetcher, "30days", nil)

	s.NoError(err)
	s.Equal(0, result.Count)
}

func (s *MetricsServiceTestSuite) TestReviewers_TwoPointSeries() {
	rng := s.fullRange("7days")
	day := time.Date(2024, time.May, 18, 0, 0, 0, 0, time.UTC)
	dayEnd := time.Date(2024, time.May, 18, 23, 59, 59, 999000000, time.UTC)

	// Single-day window: one reviewer.
	s.fetcher.On("FetchOrders", mock.Anything, day, dayEnd, s.opts).
		Return([]model.Order{{ID: "o1", CustomerID: "C1", Tags: []string{"reviewed"}}}, nil).Once()
	// Cumulative window from range start through that day: two reviewers.
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, dayEnd, s.opts).
		Return([]model.Order{
			{ID: "o1", CustomerID: "C1", Tags: []string{"reviewed"}},
			{ID: "o2", CustomerID: "C2", Note: "review"},
		}, nil).Once()
	// Authoritative full-range pass: three reviewers.
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).
		Return([]model.Order{
			{ID: "o1", CustomerID: "C1", Tags: []string{"reviewed"}},
			{ID: "o2", CustomerID: "C2", Note: "review"},
			{ID: "o3", CustomerID: "C3", CustomAttributes: []model.Attribute{{Key: "review", Value: "5"}}},
		}, nil).Once()

	result, err := s.service.Reviewers(context.Background(), s.fetcher, "7days", &day)

	s.NoError(err)
	s.Equal(3, result.Count, "total comes from the full-range pass, not the points")
	s.Require().Len(result.DataPoints, 2)
	s.Equal(model.DataPoint{Date: "2024-05-18", Count: 1}, result.DataPoints[0])
	s.Equal(model.DataPoint{Date: "2024-05-18", Count: 2}, result.DataPoints[1])
	s.fetcher.AssertExpectations(s.T())
}

func (s *MetricsServiceTestSuite) TestReviewers_PointFailureYieldsZeroPoint() {
	rng := s.fullRange("7days")
	day := time.Date(2024, time.May, 18, 0, 0, 0, 0, time.UTC)
	dayEnd := time.Date(2024, time.May, 18, 23, 59, 59, 999000000, time.UTC)

	s.fetcher.On("FetchOrders", mock.Anything, day, dayEnd, s.opts).
		Return(nil, &shopify.QueryError{Message: "throttled"}).Once()
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, dayEnd, s.opts).
		Return([]model.Order{{ID: "o2", CustomerID: "C2", Note: "review"}}, nil).Once()
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).
		Return([]model.Order{{ID: "o2", CustomerID: "C2", Note: "review"}}, nil).Once()

	result, err := s.service.Reviewers(context.Background(), s.fetcher, "7days", &day)

	s.NoError(err, "a non-protected point failure must not fail the call")
	s.Equal(1, result.Count)
	s.Require().Len(result.DataPoints, 2)
	s.Equal(0, result.DataPoints[0].Count)
	s.Equal(1, result.DataPoints[1].Count)
}

func (s *MetricsServiceTestSuite) TestReviewers_DayOutsideRangeRejected() {
	// April 1 is well before the 7-day window ending May 20.
	day := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.service.Reviewers(context.Background(), s.fetcher, "7days", &day)

	var validation *ValidationError
	s.ErrorAs(err, &validation)
	s.fetcher.AssertNotCalled(s.T(), "FetchOrders")
}

func (s *MetricsServiceTestSuite) TestReviewers_DayAnchoredToClockLocation() {
	loc, locErr := time.LoadLocation("America/New_York")
	s.Require().NoError(locErr)
	s.now = time.Date(2024, time.May, 20, 12, 0, 0, 0, loc)
	s.service.now = func() time.Time { return s.now }
	rng := ResolveRange("7days", s.now)

	// The date parameter parses in UTC upstream; the sub-windows must still
	// be built in the same location as the resolved range.
	day := time.Date(2024, time.May, 18, 0, 0, 0, 0, time.UTC)
	dayStart := time.Date(2024, time.May, 18, 0, 0, 0, 0, loc)
	dayEnd := time.Date(2024, time.May, 18, 23, 59, 59, 999000000, loc)

	s.fetcher.On("FetchOrders", mock.Anything, dayStart, dayEnd, s.opts).Return([]model.Order{}, nil).Once()
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, dayEnd, s.opts).Return([]model.Order{}, nil).Once()
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).Return([]model.Order{}, nil).Once()

	_, err := s.service.Reviewers(context.Background(), s.fetcher, "7days", &day)

	s.NoError(err)
	s.fetcher.AssertExpectations(s.T())
}

func (s *MetricsServiceTestSuite) TestReviewers_ProtectedDataFailsWholeCall() {
	day := time.Date(2024, time.May, 18, 0, 0, 0, 0, time.UTC)
	dayEnd := time.Date(2024, time.May, 18, 23, 59, 59, 999000000, time.UTC)

	s.fetcher.On("FetchOrders", mock.Anything, day, dayEnd, s.opts).
		Return(nil, shopify.ErrProtectedDataAccessDenied).Once()

	result, err := s.service.Reviewers(context.Background(), s.fetcher, "7days", &day)

	s.ErrorIs(err, shopify.ErrProtectedDataAccessDenied)
	s.Equal(model.MetricResult{}, result, "no partial count may leak out")
	s.fetcher.AssertNumberOfCalls(s.T(), "FetchOrders", 1)
}

func (s *MetricsServiceTestSuite) TestReviewers_ProtectedDataOnTotalPass() {
	rng := s.fullRange("7days")
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).
		Return(nil, shopify.ErrProtectedDataAccessDenied)

	_, err := s.service.Reviewers(context.Background(), s.fetcher, "7days", nil)

	s.ErrorIs(err, shopify.ErrProtectedDataAccessDenied)
}

func (s *MetricsServiceTestSuite) TestReviewers_Idempotent() {
	rng := s.fullRange("7days")
	orders := []model.Order{
		{ID: "o1", CustomerID: "C1", Tags: []string{"reviewed"}},
		{ID: "o2", CustomerID: "C2", Note: "review"},
	}
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).Return(orders, nil)

	first, err := s.service.Reviewers(context.Background(), s.fetcher, "7days", nil)
	s.NoError(err)
	second, err := s.service.Reviewers(context.Background(), s.fetcher, "7days", nil)
	s.NoError(err)

	s.Equal(first, second)
}

func (s *MetricsServiceTestSuite) TestOrderBehavior_Counts() {
	rng := s.fullRange("30days")
	orders := []model.Order{
		{ID: "o1", FinancialStatus: model.FinancialStatusPaid},
		{ID: "o2", FinancialStatus: model.FinancialStatusPending},
		{ID: "o3", FinancialStatus: model.FinancialStatusPending},
		{ID: "o4", FinancialStatus: model.FinancialStatusPartiallyRefunded},
	}
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).Return(orders, nil)

	result, err := s.service.OrderBehavior(context.Background(), s.fetcher, "30days")

	s.NoError(err)
	s.Equal(2, result.CODOrders)
	s.Equal(2, result.PrepaidOrders)
	s.Equal(0, result.CancelledOrders)
}

func (s *MetricsServiceTestSuite) TestOrderBehavior_CancelledCountedIndependently() {
	rng := s.fullRange("30days")
	cancelledAt := time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC)
	orders := []model.Order{
		{ID: "o1", FinancialStatus: model.FinancialStatusPending, CancelledAt: &cancelledAt},
	}
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).Return(orders, nil)

	result, err := s.service.OrderBehavior(context.Background(), s.fetcher, "30days")

	s.NoError(err)
	s.Equal(1, result.CODOrders)
	s.Equal(1, result.CancelledOrders)
}

func (s *MetricsServiceTestSuite) TestDiscountUsers_ParsesAmounts() {
	rng := s.fullRange("30days")
	orders := []model.Order{
		{ID: "o1", CustomerID: "C1", TotalDiscounts: "0.00"},
		{ID: "o2", CustomerID: "C2", TotalDiscounts: "5.00"},
		{ID: "o3", CustomerID: "C3", TotalDiscounts: ""},
		{ID: "o4", CustomerID: "C4", TotalDiscounts: "12.50"},
	}
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).Return(orders, nil)

	result, err := s.service.DiscountUsers(context.Background(), s.fetcher, "30days")

	s.NoError(err)
	s.Equal(2, result.Count)
}

func (s *MetricsServiceTestSuite) TestReturningCustomers_PriorOrderLookups() {
	rng := s.fullRange("30days")
	orders := []model.Order{
		{ID: "o1", CustomerID: "C1"},
		{ID: "o2", CustomerID: "C1"},
		{ID: "o3", CustomerID: "C2"},
		{ID: "o4"}, // no customer attached
	}
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).Return(orders, nil)
	s.fetcher.On("CustomerOrderedBefore", mock.Anything, "C1", rng.Start).Return(true, nil).Once()
	s.fetcher.On("CustomerOrderedBefore", mock.Anything, "C2", rng.Start).Return(false, nil).Once()

	result, err := s.service.ReturningCustomers(context.Background(), s.fetcher, "30days")

	s.NoError(err)
	s.Equal(1, result.Count)
	s.fetcher.AssertExpectations(s.T())
}

func (s *MetricsServiceTestSuite) TestReturningCustomers_LookupErrorAborts() {
	rng := s.fullRange("30days")
	s.fetcher.On("FetchOrders", mock.Anything, rng.Start, rng.End, s.opts).
		Return([]model.Order{{ID: "o1", CustomerID: "C1"}}, nil)
	s.fetcher.On("CustomerOrderedBefore", mock.Anything, "C1", rng.Start).
		Return(false, shopify.ErrProtectedDataAccessDenied)

	_, err := s.service.ReturningCustomers(context.Background(), s.fetcher, "30days")

	s.ErrorIs(err, shopify.ErrProtectedDataAccessDenied)
}
