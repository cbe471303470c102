// internal/workers/data-access/load-mandi-snapshot/store.go
package loadmandisnapshot

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"mandi-workers/internal/mandi"
)

const snapshotQuery = `
	SELECT m.id, m.name, m.location, m.latitude, m.longitude,
	       l.product_name, l.available_quantity, l.price_per_kg, l.shelf_life_days, l.updated_at
	FROM mandis m
	JOIN mandi_listings l ON l.mandi_id = m.id
	WHERE m.id IN (SELECT mandi_id FROM mandi_listings WHERE LOWER(product_name) = $1)
	ORDER BY m.id, l.id`

// Store reads and writes market snapshots in postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CacheKey is the redis key holding the snapshot for product.
func CacheKey(product string) string {
	return "mandi:snapshot:" + normalizeProduct(product)
}

func normalizeProduct(product string) string {
	return strings.ToLower(strings.TrimSpace(product))
}

// MarketsByProduct returns every market listing product, each with all of
// its listings.
func (s *Store) MarketsByProduct(ctx context.Context, product string) ([]mandi.Market, error) {
	rows, err := s.db.QueryContext(ctx, snapshotQuery, normalizeProduct(product))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	markets := make([]mandi.Market, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			m         mandi.Market
			p         mandi.ProductListing
			updatedAt time.Time
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Location, &m.Latitude, &m.Longitude,
			&p.ProductName, &p.AvailableQuantity, &p.PricePerKg, &p.ShelfLifeDays, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		p.LastUpdated = updatedAt.UTC().Format(time.RFC3339)

		i, ok := index[m.ID]
		if !ok {
			i = len(markets)
			index[m.ID] = i
			markets = append(markets, m)
		}
		markets[i].Products = append(markets[i].Products, p)
	}
	return markets, rows.Err()
}

// UpsertMarkets replaces the stored listings of each market.
func (s *Store) UpsertMarkets(ctx context.Context, markets []mandi.Market) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range markets {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO mandis (id, name, location, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, location = EXCLUDED.location,
			    latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude`,
			m.ID, m.Name, m.Location, m.Latitude, m.Longitude); err != nil {
			return fmt.Errorf("upsert mandi %s: %w", m.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM mandi_listings WHERE mandi_id = $1`, m.ID); err != nil {
			return fmt.Errorf("clear listings of %s: %w", m.ID, err)
		}
		for _, p := range m.Products {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO mandi_listings (mandi_id, product_name, available_quantity, price_per_kg, shelf_life_days, updated_at)
				VALUES ($1, $2, $3, $4, $5, NOW())`,
				m.ID, p.ProductName, p.AvailableQuantity, p.PricePerKg, p.ShelfLifeDays); err != nil {
				return fmt.Errorf("insert listing %s/%s: %w", m.ID, p.ProductName, err)
			}
		}
	}
	return tx.Commit()
}
