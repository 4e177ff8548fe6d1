package model

// DataPoint is one dated entry of a metric time series.
type DataPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MetricResult is returned to clients for distinct-actor and plain-count
// metrics. Count is always the authoritative total over the full resolved
// range; DataPoints cover sub-windows and must not be summed to derive it.
type MetricResult struct {
	Count      int         `json:"count"`
	DataPoints []DataPoint `json:"dataPoints,omitempty"`
}

// OrderBehaviorResult groups orders in range by payment behavior.
type OrderBehaviorResult struct {
	CODOrders       int `json:"codOrders"`
	PrepaidOrders   int `json:"prepaidOrders"`
	CancelledOrders int `json:"cancelledOrders"`
}
