package model

import (
	"time"
)

// FinancialStatus mirrors Shopify's displayFinancialStatus enum values.
type FinancialStatus string

const (
	FinancialStatusPending           FinancialStatus = "PENDING"
	FinancialStatusAuthorized        FinancialStatus = "AUTHORIZED"
	FinancialStatusPaid              FinancialStatus = "PAID"
	FinancialStatusPartiallyPaid     FinancialStatus = "PARTIALLY_PAID"
	FinancialStatusPartiallyRefunded FinancialStatus = "PARTIALLY_REFUNDED"
	FinancialStatusRefunded          FinancialStatus = "REFUNDED"
	FinancialStatusVoided            FinancialStatus = "VOIDED"
)

// Attribute is one key/value custom attribute attached to an order.
type Attribute struct {
	Key   string
	Value string
}

// Order is one record fetched from the Admin API. Immutable once fetched;
// held only for the duration of a single aggregation call.
type Order struct {
	ID               string
	CustomerID       string // empty when the order has no attached customer
	Tags             []string
	Note             string
	CustomAttributes []Attribute
	FinancialStatus  FinancialStatus
	CancelledAt      *time.Time
	TotalDiscounts   string // decimal string as returned by the API
	CreatedAt        time.Time
}
