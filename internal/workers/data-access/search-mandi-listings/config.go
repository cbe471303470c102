// internal/workers/data-access/search-mandi-listings/config.go
package searchmandilistings

import (
	"time"

	"mandi-workers/internal/common/config"
)

type Config struct {
	Index          string
	SearchRadiusKm float64
	MaxHits        int
	Timeout        time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Index:          appCfg.Mandi.ListingsIndex,
		SearchRadiusKm: float64(appCfg.Mandi.SearchRadiusKm),
		MaxHits:        200,
		Timeout:        config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
	}
}
