package service

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"customer-analytics-buddy/internal/model"
)

// reviewMarkers are the tag fragments merchants and review apps use to mark
// an order whose customer left a review. "review" subsumes the rest, but
// the full list documents the known variants.
var reviewMarkers = []string{"review", "reviewed", "has-review", "review-submitted"}

// HasReviewSignal reports whether any of the order's tags, its note, or a
// custom attribute key/value carries a review marker.
func HasReviewSignal(order model.Order) bool {
	tagged := lo.SomeBy(order.Tags, func(tag string) bool {
		return containsReviewMarker(tag)
	})
	if tagged {
		return true
	}

	if strings.Contains(strings.ToLower(order.Note), "review") {
		return true
	}

	return lo.SomeBy(order.CustomAttributes, func(attr model.Attribute) bool {
		return strings.Contains(strings.ToLower(attr.Key), "review") ||
			strings.Contains(strings.ToLower(attr.Value), "review")
	})
}

func containsReviewMarker(tag string) bool {
	lower := strings.ToLower(tag)
	return lo.SomeBy(reviewMarkers, func(marker string) bool {
		return strings.Contains(lower, marker)
	})
}

// IsCODOrder treats anything not yet fully collected as cash-on-delivery.
func IsCODOrder(order model.Order) bool {
	switch order.FinancialStatus {
	case model.FinancialStatusPending, model.FinancialStatusPartiallyPaid, model.FinancialStatusAuthorized:
		return true
	default:
		return false
	}
}

// IsPrepaidOrder matches orders collected up front.
func IsPrepaidOrder(order model.Order) bool {
	switch order.FinancialStatus {
	case model.FinancialStatusPaid, model.FinancialStatusPartiallyRefunded:
		return true
	default:
		return false
	}
}

// IsCancelledOrder is independent of financial status.
func IsCancelledOrder(order model.Order) bool {
	return order.CancelledAt != nil
}

// DiscountAmount parses the order's discount total. Malformed amounts parse
// as zero rather than failing the aggregation.
func DiscountAmount(order model.Order) decimal.Decimal {
	amount, err := decimal.NewFromString(order.TotalDiscounts)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// UsedDiscount reports whether the order carries a strictly positive
// discount amount.
func UsedDiscount(order model.Order) bool {
	return DiscountAmount(order).GreaterThan(decimal.Zero)
}
