// internal/workers/data-access/search-mandi-listings/queries/builders.go
package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"mandi-workers/internal/mandi"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrMissingIndex   = errors.New("index name is required")
	ErrMissingProduct = errors.New("product name is required")
)

const (
	defaultSize = 200
	maxSize     = 1000
)

// ListingQuery describes a product search over the listings index.
type ListingQuery struct {
	Index       string
	ProductName string
	Center      *mandi.GeoPoint
	RadiusKm    float64
	Size        int
}

func BuildQuery(lq ListingQuery) (*esapi.SearchRequest, error) {
	if lq.Index == "" {
		return nil, ErrMissingIndex
	}
	if lq.ProductName == "" {
		return nil, ErrMissingProduct
	}

	size := lq.Size
	if size < 1 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}

	body, err := json.Marshal(buildListingSearchQuery(lq))
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	return &esapi.SearchRequest{
		Index: []string{lq.Index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}, nil
}

func buildListingSearchQuery(lq ListingQuery) map[string]interface{} {
	must := []interface{}{
		map[string]interface{}{
			"match": map[string]interface{}{
				"product_name": map[string]interface{}{
					"query":     lq.ProductName,
					"fuzziness": "AUTO",
					"operator":  "and",
				},
			},
		},
	}

	boolQuery := map[string]interface{}{"must": must}
	if lq.Center != nil && lq.RadiusKm > 0 {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{
				"geo_distance": map[string]interface{}{
					"distance": fmt.Sprintf("%gkm", lq.RadiusKm),
					"location": map[string]interface{}{
						"lat": lq.Center.Latitude,
						"lon": lq.Center.Longitude,
					},
				},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"mandi_id": "asc"},
		},
	}
}
