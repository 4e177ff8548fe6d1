package shopify

import (
	"errors"
	"strings"
)

// ErrProtectedDataAccessDenied signals that the shop's app install is not
// approved for protected customer data. Fatal to the whole aggregation;
// partial results are discarded, never returned.
var ErrProtectedDataAccessDenied = errors.New("access to protected customer data not approved")

// QueryError carries a server-reported GraphQL error that is not an
// access-denial. Fatal to the current aggregation call, never retried.
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return "shopify query failed: " + e.Message
}

// isAccessDenied matches the human-readable markers Shopify emits when an
// app lacks protected customer data approval. There is no stable machine
// code for this condition, so substring matching is the contract we have.
func isAccessDenied(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "not approved") ||
		strings.Contains(lower, "protected") ||
		strings.Contains(message, "Order")
}
