package mockservice

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"customer-analytics-buddy/internal/model"
	"customer-analytics-buddy/internal/service"
	"customer-analytics-buddy/internal/shopify"
)

type Service struct {
	mock.Mock
}

// Interface compliance check
var _ service.MetricsService = &Service{}

func (m *Service) Reviewers(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string, day *time.Time) (model.MetricResult, error) {
	args := m.Called(ctx, fetcher, rangeToken, day)
	return args.Get(0).(model.MetricResult), args.Error(1)
}

func (m *Service) ReturningCustomers(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string) (model.MetricResult, error) {
	args := m.Called(ctx, fetcher, rangeToken)
	return args.Get(0).(model.MetricResult), args.Error(1)
}

func (m *Service) OrderBehavior(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string) (model.OrderBehaviorResult, error) {
	args := m.Called(ctx, fetcher, rangeToken)
	return args.Get(0).(model.OrderBehaviorResult), args.Error(1)
}

func (m *Service) DiscountUsers(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string) (model.MetricResult, error) {
	args := m.Called(ctx, fetcher, rangeToken)
	return args.Get(0).(model.MetricResult), args.Error(1)
}
