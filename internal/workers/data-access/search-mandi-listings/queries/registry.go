// internal/workers/data-access/search-mandi-listings/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"mandi-workers/internal/mandi"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

var (
	ErrIndexNotFound = errors.New("index not found")
	ErrUnreachable   = errors.New("elasticsearch unreachable")
)

// ListingDoc is one document of the listings index: a single product at a
// single mandi.
type ListingDoc struct {
	MandiID           string   `json:"mandi_id"`
	MandiName         string   `json:"mandi_name"`
	MandiLocation     string   `json:"mandi_location"`
	Location          GeoPoint `json:"location"`
	ProductName       string   `json:"product_name"`
	AvailableQuantity float64  `json:"available_quantity"`
	PricePerKg        float64  `json:"price_per_kg"`
	ShelfLifeDays     int      `json:"shelf_life_days"`
	LastUpdated       string   `json:"last_updated,omitempty"`
}

// GeoPoint is the elasticsearch geo_point object form.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type QueryResult struct {
	Docs      []ListingDoc
	TotalHits int64
	MaxScore  float64
	Took      int64
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			Source ListingDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Execute runs lq against esClient. A missing index yields ErrIndexNotFound.
func Execute(ctx context.Context, esClient *elasticsearch.Client, lq ListingQuery) (*QueryResult, error) {
	req, err := BuildQuery(lq)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, lq.Index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &QueryResult{
		Docs:      make([]ListingDoc, 0, len(r.Hits.Hits)),
		TotalHits: r.Hits.Total.Value,
		Took:      time.Since(start).Milliseconds(),
	}
	if r.Hits.MaxScore != nil {
		result.MaxScore = *r.Hits.MaxScore
	}
	for _, hit := range r.Hits.Hits {
		result.Docs = append(result.Docs, hit.Source)
	}
	return result, nil
}

// GroupByMandi folds listing documents into markets, in order of first
// appearance. Only the matched listings are carried.
func GroupByMandi(docs []ListingDoc) []mandi.Market {
	markets := make([]mandi.Market, 0)
	index := make(map[string]int)
	for _, d := range docs {
		i, ok := index[d.MandiID]
		if !ok {
			i = len(markets)
			index[d.MandiID] = i
			markets = append(markets, mandi.Market{
				ID:        d.MandiID,
				Name:      d.MandiName,
				Location:  d.MandiLocation,
				Latitude:  d.Location.Lat,
				Longitude: d.Location.Lon,
			})
		}
		markets[i].Products = append(markets[i].Products, mandi.ProductListing{
			ProductName:       d.ProductName,
			AvailableQuantity: d.AvailableQuantity,
			PricePerKg:        d.PricePerKg,
			ShelfLifeDays:     d.ShelfLifeDays,
			LastUpdated:       d.LastUpdated,
		})
	}
	return markets
}

// ListingDocs flattens markets into one document per product.
func ListingDocs(markets []mandi.Market) []ListingDoc {
	var docs []ListingDoc
	for _, m := range markets {
		for _, p := range m.Products {
			docs = append(docs, ListingDoc{
				MandiID:           m.ID,
				MandiName:         m.Name,
				MandiLocation:     m.Location,
				Location:          GeoPoint{Lat: m.Latitude, Lon: m.Longitude},
				ProductName:       p.ProductName,
				AvailableQuantity: p.AvailableQuantity,
				PricePerKg:        p.PricePerKg,
				ShelfLifeDays:     p.ShelfLifeDays,
				LastUpdated:       p.LastUpdated,
			})
		}
	}
	return docs
}

// DocumentID is stable per mandi and product so reindexing overwrites.
func DocumentID(d ListingDoc) string {
	return d.MandiID + ":" + strings.ToLower(d.ProductName)
}

// IndexMarkets bulk-indexes every listing of markets into index and returns
// the number of documents written.
func IndexMarkets(ctx context.Context, esClient *elasticsearch.Client, index string, markets []mandi.Market) (int, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     esClient,
		Index:      index,
		NumWorkers: 2,
		Refresh:    "true",
	})
	if err != nil {
		return 0, fmt.Errorf("create bulk indexer: %w", err)
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	for _, doc := range ListingDocs(markets) {
		data, err := json.Marshal(doc)
		if err != nil {
			return 0, err
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: DocumentID(doc),
			Body:       strings.NewReader(string(data)),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				mu.Lock()
				defer mu.Unlock()
				if firstErr != nil {
					return
				}
				if err != nil {
					firstErr = err
					return
				}
				firstErr = fmt.Errorf("index %s: %s", item.DocumentID, res.Error.Reason)
			},
		})
		if err != nil {
			return 0, fmt.Errorf("queue document: %w", err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return 0, fmt.Errorf("flush bulk indexer: %w", err)
	}
	stats := bi.Stats()
	if stats.NumFailed > 0 {
		return int(stats.NumIndexed), fmt.Errorf("%d documents failed: %v", stats.NumFailed, firstErr)
	}
	return int(stats.NumIndexed), nil
}
