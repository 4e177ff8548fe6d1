package mockfetcher

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"customer-analytics-buddy/internal/model"
	"customer-analytics-buddy/internal/shopify"
)

type Fetcher struct {
	mock.Mock
}

// Interface compliance check
var _ shopify.OrderFetcher = &Fetcher{}

func (m *Fetcher) FetchOrders(ctx context.Context, start, end time.Time, opts shopify.FetchOptions) ([]model.Order, error) {
	args := m.Called(ctx, start, end, opts)
	var orders []model.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]model.Order)
	}
	return orders, args.Error(1)
}

func (m *Fetcher) CustomerOrderedBefore(ctx context.Context, customerID string, before time.Time) (bool, error) {
	args := m.Called(ctx, customerID, before)
	return args.Bool(0), args.Error(1)
}
