// internal/mandi/models.go
package mandi

// ProductListing is one product offered by a market.
type ProductListing struct {
	ProductName       string  `json:"productName" yaml:"product_name"`
	AvailableQuantity float64 `json:"availableQuantity" yaml:"available_quantity"`
	PricePerKg        float64 `json:"pricePerKg" yaml:"price_per_kg"`
	ShelfLifeDays     int     `json:"shelfLifeDays" yaml:"shelf_life_days"`
	LastUpdated       string  `json:"lastUpdated,omitempty" yaml:"last_updated"`
}

// Market is a wholesale market (mandi) and its current listings.
type Market struct {
	ID        string           `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	Location  string           `json:"location" yaml:"location"`
	Latitude  float64          `json:"latitude" yaml:"latitude"`
	Longitude float64          `json:"longitude" yaml:"longitude"`
	Products  []ProductListing `json:"products" yaml:"products"`
}

// Point returns the market coordinates.
func (m Market) Point() GeoPoint {
	return GeoPoint{Latitude: m.Latitude, Longitude: m.Longitude}
}

// PurchaseRequest describes what a retailer wants to buy and where it sits.
type PurchaseRequest struct {
	ProductName      string   `json:"productName"`
	RequiredQuantity float64  `json:"requiredQuantity"`
	ResalePrice      float64  `json:"resalePrice"`
	Requester        GeoPoint `json:"requester"`
	Mode             RankMode `json:"mode,omitempty"`
}

// QualifiedMarket is a market holding enough stock of the requested product.
type QualifiedMarket struct {
	Market
	MatchedProduct ProductListing `json:"matchedProduct"`
}

// MarketMetrics carries the economics of buying from one qualified market.
type MarketMetrics struct {
	QualifiedMarket
	Distance        float64 `json:"distance"`
	PricePerKg      float64 `json:"pricePerKg"`
	ShelfLife       int     `json:"shelfLife"`
	TotalCost       float64 `json:"totalCost"`
	ExpectedRevenue float64 `json:"expectedRevenue"`
	Profit          float64 `json:"profit"`
	ProfitMargin    float64 `json:"profitMargin"`
}

// ComponentScores are the rounded 0-100 sub-scores behind a balanced score.
type ComponentScores struct {
	Distance  int `json:"distanceScore"`
	Price     int `json:"priceScore"`
	ShelfLife int `json:"shelfLifeScore"`
	Profit    int `json:"profitScore"`
}

// RankedMarket is MarketMetrics with the balanced score attached. Score and
// Scores are nil for every mode other than balanced.
type RankedMarket struct {
	MarketMetrics
	Score  *int             `json:"score,omitempty"`
	Scores *ComponentScores `json:"scores,omitempty"`
}
