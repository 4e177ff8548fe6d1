package service

import (
	"context"
	"time"

	"customer-analytics-buddy/internal/model"
	"customer-analytics-buddy/internal/shopify"
)

// Predicate decides whether a single order counts toward a metric.
type Predicate func(model.Order) bool

// Reducer folds counted orders into a final number. Implementations are
// single-use; build a fresh one per aggregation pass.
type Reducer interface {
	Add(order model.Order)
	Count() int
}

// distinctActorReducer counts distinct customers, not orders. Orders with
// no attached customer are skipped: without an actor id there is nothing
// to deduplicate on.
type distinctActorReducer struct {
	seen map[string]struct{}
}

// NewDistinctActorReducer builds a reducer keyed by customer id.
func NewDistinctActorReducer() Reducer {
	return &distinctActorReducer{seen: make(map[string]struct{})}
}

func (r *distinctActorReducer) Add(order model.Order) {
	if order.CustomerID == "" {
		return
	}
	r.seen[order.CustomerID] = struct{}{}
}

func (r *distinctActorReducer) Count() int {
	return len(r.seen)
}

// recordCountReducer counts every matching order.
type recordCountReducer struct {
	n int
}

// NewRecordCountReducer builds a plain record counter.
func NewRecordCountReducer() Reducer {
	return &recordCountReducer{}
}

func (r *recordCountReducer) Add(model.Order) {
	r.n++
}

func (r *recordCountReducer) Count() int {
	return r.n
}

// aggregateOrders is the shared fetch-and-reduce pass: pull every order in
// the window, keep the ones the predicate accepts, fold them through the
// reducer. A fetch error discards the pass entirely.
func aggregateOrders(ctx context.Context, fetcher shopify.OrderFetcher, start, end time.Time, opts shopify.FetchOptions, pred Predicate, reducer Reducer) (int, error) {
	orders, err := fetcher.FetchOrders(ctx, start, end, opts)
	if err != nil {
		return 0, err
	}

	for _, order := range orders {
		if pred(order) {
			reducer.Add(order)
		}
	}

	return reducer.Count(), nil
}
