// internal/workers/data-access/search-mandi-listings/models.go
package searchmandilistings

import "mandi-workers/internal/mandi"

type Input struct {
	ProductName string          `json:"productName"`
	Requester   *mandi.GeoPoint `json:"requester,omitempty"`
	// RadiusKm overrides the configured radius; 0 keeps the default and a
	// negative value disables the geo filter.
	RadiusKm float64 `json:"radiusKm,omitempty"`
}

type Output struct {
	Mandis    []mandi.Market `json:"mandis"`
	TotalHits int64          `json:"totalHits"`
	MaxScore  float64        `json:"maxScore"`
	Took      int64          `json:"took"`
	Source    string         `json:"source"`
}
