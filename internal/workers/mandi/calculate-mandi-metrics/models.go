// internal/workers/mandi/calculate-mandi-metrics/models.go
package calculatemandimetrics

import "mandi-workers/internal/mandi"

type Input struct {
	QualifiedMandis  []mandi.QualifiedMarket `json:"qualifiedMandis"`
	RequiredQuantity float64                 `json:"requiredQuantity"`
	ResalePrice      float64                 `json:"resalePrice"`
	Requester        mandi.GeoPoint          `json:"requester"`
}

type Output struct {
	MandiMetrics []mandi.MarketMetrics `json:"mandiMetrics"`
	Summary      Summary               `json:"metricsSummary"`
}

// Summary gives the spread of the computed metrics, mainly for dashboards.
type Summary struct {
	Count       int     `json:"count"`
	MinDistance float64 `json:"minDistance"`
	MaxDistance float64 `json:"maxDistance"`
	MinPrice    float64 `json:"minPrice"`
	MaxProfit   float64 `json:"maxProfit"`
}
