// internal/mandi/scenario.go
package mandi

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrScenarioNotFound = errors.New("scenario not found")

// RetailerProfile is the buyer location and the prices it resells at.
type RetailerProfile struct {
	Name         string             `json:"name" yaml:"name"`
	Latitude     float64            `json:"latitude" yaml:"latitude"`
	Longitude    float64            `json:"longitude" yaml:"longitude"`
	ResalePrices map[string]float64 `json:"resalePrices" yaml:"resale_prices"`
}

// Point returns the retailer coordinates.
func (r RetailerProfile) Point() GeoPoint {
	return GeoPoint{Latitude: r.Latitude, Longitude: r.Longitude}
}

// ResalePrice looks product up ignoring case.
func (r RetailerProfile) ResalePrice(product string) (float64, bool) {
	if p, ok := r.ResalePrices[product]; ok {
		return p, true
	}
	for name, p := range r.ResalePrices {
		if strings.EqualFold(name, product) {
			return p, true
		}
	}
	return 0, false
}

// Scenario is a named market snapshot.
type Scenario struct {
	Key         string   `json:"key" yaml:"-"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Markets     []Market `json:"mandis" yaml:"mandis"`
}

// Catalog is the seed data: one retailer and a set of scenarios.
type Catalog struct {
	Retailer  RetailerProfile     `json:"retailer" yaml:"retailer"`
	Scenarios map[string]Scenario `json:"scenarios" yaml:"scenarios"`
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Scenarios) == 0 {
		return nil, errors.New("catalog defines no scenarios")
	}
	for key, s := range c.Scenarios {
		s.Key = key
		c.Scenarios[key] = s
	}
	return &c, nil
}

// ScenarioKeys returns the scenario keys in sorted order.
func (c *Catalog) ScenarioKeys() []string {
	keys := make([]string, 0, len(c.Scenarios))
	for k := range c.Scenarios {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Scenario returns the scenario stored under key.
func (c *Catalog) Scenario(key string) (Scenario, error) {
	s, ok := c.Scenarios[key]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %s", ErrScenarioNotFound, key)
	}
	return s, nil
}

// AllMarkets returns every market once, keyed by id. Scenarios are visited in
// key order and the first occurrence of an id wins.
func (c *Catalog) AllMarkets() []Market {
	seen := make(map[string]bool)
	var out []Market
	for _, key := range c.ScenarioKeys() {
		for _, m := range c.Scenarios[key].Markets {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			out = append(out, m)
		}
	}
	return out
}
