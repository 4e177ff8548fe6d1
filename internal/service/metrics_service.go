package service

import (
	"context"
	"errors"
	"time"

	"customer-analytics-buddy/internal/logger"
	"customer-analytics-buddy/internal/model"
	"customer-analytics-buddy/internal/shopify"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MetricsService computes the dashboard KPIs. Every method receives the
// shop-scoped fetcher explicitly; nothing is cached between requests, so
// identical inputs against unchanged data yield identical results.
type MetricsService interface {
	Reviewers(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string, day *time.Time) (model.MetricResult, error)
	ReturningCustomers(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string) (model.MetricResult, error)
	OrderBehavior(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string) (model.OrderBehaviorResult, error)
	DiscountUsers(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string) (model.MetricResult, error)
}

type metricsService struct {
	log        *logger.Logger
	now        func() time.Time
	pageSize   int
	maxRecords int
}

// NewMetricsService constructs a metricsService.
func NewMetricsService(pageSize, maxRecords int, log *logger.Logger) MetricsService {
	return &metricsService{
		log:        log,
		now:        time.Now,
		pageSize:   pageSize,
		maxRecords: maxRecords,
	}
}

func (s *metricsService) fetchOptions() shopify.FetchOptions {
	return shopify.FetchOptions{PageSize: s.pageSize, MaxRecords: s.maxRecords}
}

// Reviewers counts distinct customers with a review signal on an order in
// range. When day is set, two data points are computed via independent
// re-scoped fetches: the single day, and the cumulative window from range
// start through that day. The authoritative total is always a separate
// full-range pass; the points must not be summed to derive it.
func (s *metricsService) Reviewers(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string, day *time.Time) (model.MetricResult, error) {
	now := s.now()
	rng := ResolveRange(rangeToken, now)

	var points []model.DataPoint
	if day != nil {
		// The query parameter carries a bare calendar date; anchor it in the
		// clock's location so both sub-windows share the range's frame.
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
		if dayStart.Before(rng.Start) || dayStart.After(rng.End) {
			return model.MetricResult{}, &ValidationError{Message: "date is outside the selected range"}
		}
		windows := []DateRange{
			{Start: dayStart, End: endOfDay(dayStart)},
			{Start: rng.Start, End: endOfDay(dayStart)},
		}
		for _, window := range windows {
			count, err := aggregateOrders(ctx, fetcher, window.Start, window.End, s.fetchOptions(), HasReviewSignal, NewDistinctActorReducer())
			if err != nil {
				if errors.Is(err, shopify.ErrProtectedDataAccessDenied) {
					return model.MetricResult{}, err
				}
				// A failed point is reported as zero; the call goes on.
				s.log.Warnw("reviewer data point fetch failed", "date", dayStart.Format("2006-01-02"), "error", err)
				count = 0
			}
			points = append(points, model.DataPoint{Date: dayStart.Format("2006-01-02"), Count: count})
		}
	}

	total, err := aggregateOrders(ctx, fetcher, rng.Start, rng.End, s.fetchOptions(), HasReviewSignal, NewDistinctActorReducer())
	if err != nil {
		return model.MetricResult{}, err
	}

	return model.MetricResult{Count: total, DataPoints: points}, nil
}

// ReturningCustomers counts distinct customers in range that placed at
// least one order before the range started. The prior-order lookups run
// one at a time; Shopify's rate limits make serializing them the safe
// choice even though latency grows with customer count.
func (s *metricsService) ReturningCustomers(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string) (model.MetricResult, error) {
	rng := ResolveRange(rangeToken, s.now())

	orders, err := fetcher.FetchOrders(ctx, rng.Start, rng.End, s.fetchOptions())
	if err != nil {
		return model.MetricResult{}, err
	}

	seen := make(map[string]struct{}, len(orders))
	var customerIDs []string
	for _, order := range orders {
		if order.CustomerID == "" {
			continue
		}
		if _, ok := seen[order.CustomerID]; ok {
			continue
		}
		seen[order.CustomerID] = struct{}{}
		customerIDs = append(customerIDs, order.CustomerID)
	}

	returning := 0
	for _, customerID := range customerIDs {
		prior, err := fetcher.CustomerOrderedBefore(ctx, customerID, rng.Start)
		if err != nil {
			return model.MetricResult{}, err
		}
		if prior {
			returning++
		}
	}

	return model.MetricResult{Count: returning}, nil
}

// OrderBehavior classifies every order in range by payment behavior. The
// three counters are independent: a cancelled order still counts toward
// its financial-status bucket.
func (s *metricsService) OrderBehavior(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string) (model.OrderBehaviorResult, error) {
	rng := ResolveRange(rangeToken, s.now())

	orders, err := fetcher.FetchOrders(ctx, rng.Start, rng.End, s.fetchOptions())
	if err != nil {
		return model.OrderBehaviorResult{}, err
	}

	cod := NewRecordCountReducer()
	prepaid := NewRecordCountReducer()
	cancelled := NewRecordCountReducer()
	for _, order := range orders {
		if IsCODOrder(order) {
			cod.Add(order)
		}
		if IsPrepaidOrder(order) {
			prepaid.Add(order)
		}
		if IsCancelledOrder(order) {
			cancelled.Add(order)
		}
	}

	return model.OrderBehaviorResult{
		CODOrders:       cod.Count(),
		PrepaidOrders:   prepaid.Count(),
		CancelledOrders: cancelled.Count(),
	}, nil
}

// DiscountUsers counts distinct customers whose order in range carries a
// positive discount amount.
func (s *metricsService) DiscountUsers(ctx context.Context, fetcher shopify.OrderFetcher, rangeToken string) (model.MetricResult, error) {
	rng := ResolveRange(rangeToken, s.now())

	count, err := aggregateOrders(ctx, fetcher, rng.Start, rng.End, s.fetchOptions(), UsedDiscount, NewDistinctActorReducer())
	if err != nil {
		return model.MetricResult{}, err
	}

	return model.MetricResult{Count: count}, nil
}
