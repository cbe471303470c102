// internal/mandi/testhelpers_test.go
package mandi

// ==========================
// Test Helper Functions
// ==========================

// origin is the requester location used by the hand-computed cases.
var origin = GeoPoint{Latitude: 0, Longitude: 0}

func tomatoMarket(id string, lat, lon, qty, price float64, shelf int) Market {
	return Market{
		ID:        id,
		Name:      "Market " + id,
		Location:  id + ", Test City",
		Latitude:  lat,
		Longitude: lon,
		Products: []ProductListing{
			{ProductName: "Onions", AvailableQuantity: 1000, PricePerKg: 20, ShelfLifeDays: 10},
			{ProductName: "Tomatoes", AvailableQuantity: qty, PricePerKg: price, ShelfLifeDays: shelf, LastUpdated: "1 hour ago"},
		},
	}
}

// twoMarkets is A at the requester (price 30, shelf 5) and B about 10 km
// north (price 20, shelf 2), both holding 500 kg.
func twoMarkets() []Market {
	return []Market{
		tomatoMarket("A", 0, 0, 500, 30, 5),
		tomatoMarket("B", 0.09, 0, 500, 20, 2),
	}
}

func tomatoRequest(qty float64, mode RankMode) PurchaseRequest {
	return PurchaseRequest{
		ProductName:      "Tomatoes",
		RequiredQuantity: qty,
		ResalePrice:      45,
		Requester:        origin,
		Mode:             mode,
	}
}

func metricsFor(markets []Market, req PurchaseRequest) []MarketMetrics {
	return ComputeAll(Qualify(markets, req.ProductName, req.RequiredQuantity), req)
}

func ids(ranked []RankedMarket) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.ID
	}
	return out
}
