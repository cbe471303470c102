// internal/mandi/metrics.go
package mandi

// ComputeMetrics derives distance and purchase economics for one qualified
// market. A zero total cost yields a zero margin.
func ComputeMetrics(qm QualifiedMarket, requesterLat, requesterLon, requiredQuantity, resalePrice float64) MarketMetrics {
	price := qm.MatchedProduct.PricePerKg
	totalCost := price * requiredQuantity
	revenue := resalePrice * requiredQuantity
	profit := revenue - totalCost

	margin := 0.0
	if totalCost != 0 {
		margin = roundTo1(profit / totalCost * 100)
	}

	return MarketMetrics{
		QualifiedMarket: qm,
		Distance:        Distance(GeoPoint{Latitude: requesterLat, Longitude: requesterLon}, qm.Point()),
		PricePerKg:      price,
		ShelfLife:       qm.MatchedProduct.ShelfLifeDays,
		TotalCost:       totalCost,
		ExpectedRevenue: revenue,
		Profit:          profit,
		ProfitMargin:    margin,
	}
}

// ComputeAll applies ComputeMetrics to every qualified market of req.
func ComputeAll(qualified []QualifiedMarket, req PurchaseRequest) []MarketMetrics {
	out := make([]MarketMetrics, 0, len(qualified))
	for _, qm := range qualified {
		out = append(out, ComputeMetrics(qm, req.Requester.Latitude, req.Requester.Longitude, req.RequiredQuantity, req.ResalePrice))
	}
	return out
}
