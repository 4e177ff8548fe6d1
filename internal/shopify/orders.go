package shopify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"customer-analytics-buddy/internal/logger"
	"customer-analytics-buddy/internal/model"
)

// DefaultMaxRecords caps how many orders a single aggregation may pull.
const DefaultMaxRecords = 1000

// DefaultPageSize is the Admin API's maximum page size for orders.
const DefaultPageSize = 250

// FetchOptions tune the pagination loop. MaxRecords == 0 means fetch until
// the server reports no further page.
type FetchOptions struct {
	PageSize   int
	MaxRecords int
}

// OrderFetcher pulls every order in a window, one page at a time. Pages are
// never fetched in parallel; Shopify's per-app rate limits are respected by
// serializing calls.
type OrderFetcher interface {
	FetchOrders(ctx context.Context, start, end time.Time, opts FetchOptions) ([]model.Order, error)
	CustomerOrderedBefore(ctx context.Context, customerID string, before time.Time) (bool, error)
}

type orderFetcher struct {
	client Client
	log    *logger.Logger
}

// NewOrderFetcher builds an OrderFetcher over an existing client.
func NewOrderFetcher(client Client, log *logger.Logger) OrderFetcher {
	return &orderFetcher{client: client, log: log}
}

const ordersQuery = `
query ordersInRange($first: Int!, $query: String, $after: String) {
  orders(first: $first, query: $query, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      createdAt
      cancelledAt
      note
      tags
      displayFinancialStatus
      customer {
        id
      }
      customAttributes {
        key
        value
      }
      totalDiscountsSet {
        shopMoney {
          amount
        }
      }
    }
  }
}`

type orderNode struct {
	ID                     string     `json:"id"`
	CreatedAt              time.Time  `json:"createdAt"`
	CancelledAt            *time.Time `json:"cancelledAt"`
	Note                   string     `json:"note"`
	Tags                   []string   `json:"tags"`
	DisplayFinancialStatus string     `json:"displayFinancialStatus"`
	Customer               *struct {
		ID string `json:"id"`
	} `json:"customer"`
	CustomAttributes []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"customAttributes"`
	TotalDiscountsSet struct {
		ShopMoney struct {
			Amount string `json:"amount"`
		} `json:"shopMoney"`
	} `json:"totalDiscountsSet"`
}

type ordersPage struct {
	Orders struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Nodes []orderNode `json:"nodes"`
	} `json:"orders"`
}

// FetchOrders follows the end cursor until the server reports no next page
// or the record cap is hit. Records come back in arrival order. Any page
// error aborts the whole fetch and discards what was accumulated so far.
func (f *orderFetcher) FetchOrders(ctx context.Context, start, end time.Time, opts FetchOptions) ([]model.Order, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	search := fmt.Sprintf("created_at:>='%s' AND created_at:<='%s'",
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))

	var (
		orders []model.Order
		cursor string
		pages  int
	)

	for {
		variables := map[string]any{
			"first": pageSize,
			"query": search,
		}
		if cursor != "" {
			variables["after"] = cursor
		}

		var page ordersPage
		if err := f.client.Query(ctx, ordersQuery, variables, &page); err != nil {
			return nil, err
		}
		pages++

		for _, node := range page.Orders.Nodes {
			orders = append(orders, node.toOrder())
		}

		if opts.MaxRecords > 0 && len(orders) >= opts.MaxRecords {
			f.log.Debugw("order fetch hit record cap", "cap", opts.MaxRecords, "pages", pages)
			orders = orders[:opts.MaxRecords]
			break
		}

		if !page.Orders.PageInfo.HasNextPage {
			break
		}
		cursor = page.Orders.PageInfo.EndCursor
	}

	return orders, nil
}

const priorOrderQuery = `
query priorOrders($query: String) {
  orders(first: 1, query: $query) {
    nodes {
      id
    }
  }
}`

// CustomerOrderedBefore reports whether the customer has at least one order
// created strictly before the given instant.
func (f *orderFetcher) CustomerOrderedBefore(ctx context.Context, customerID string, before time.Time) (bool, error) {
	search := fmt.Sprintf("customer_id:%s AND created_at:<'%s'",
		legacyID(customerID), before.UTC().Format(time.RFC3339))

	var page ordersPage
	if err := f.client.Query(ctx, priorOrderQuery, map[string]any{"query": search}, &page); err != nil {
		return false, err
	}

	return len(page.Orders.Nodes) > 0, nil
}

func (n orderNode) toOrder() model.Order {
	order := model.Order{
		ID:              n.ID,
		Tags:            n.Tags,
		Note:            n.Note,
		FinancialStatus: model.FinancialStatus(n.DisplayFinancialStatus),
		CancelledAt:     n.CancelledAt,
		TotalDiscounts:  n.TotalDiscountsSet.ShopMoney.Amount,
		CreatedAt:       n.CreatedAt,
	}
	if n.Customer != nil {
		order.CustomerID = n.Customer.ID
	}
	for _, attr := range n.CustomAttributes {
		order.CustomAttributes = append(order.CustomAttributes, model.Attribute{Key: attr.Key, Value: attr.Value})
	}
	return order
}

// legacyID strips the gid prefix so the value can be used in a search query.
func legacyID(gid string) string {
	if idx := strings.LastIndex(gid, "/"); idx >= 0 {
		return gid[idx+1:]
	}
	return gid
}
