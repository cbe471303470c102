// internal/workers/mandi/rank-mandis/config.go
package rankmandis

import (
	"time"

	"mandi-workers/internal/common/config"
	"mandi-workers/internal/mandi"
)

type Config struct {
	MaxItems    int
	DefaultMode mandi.RankMode
	Weights     mandi.Weights
	Timeout     time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(appCfg, TaskType)
	return &Config{
		MaxItems:    appCfg.Mandi.MaxItems,
		DefaultMode: mandi.RankMode(appCfg.Mandi.DefaultMode),
		Weights:     weightsFrom(appCfg.Mandi.Weights),
		Timeout:     config.GetDuration(wcfg.Timeout),
	}
}

// weightsFrom maps configured weights, falling back to the defaults when
// none are set.
func weightsFrom(w config.WeightsConfig) mandi.Weights {
	if w.IsZero() {
		return mandi.DefaultWeights()
	}
	return mandi.Weights{
		Distance:  w.Distance,
		Price:     w.Price,
		ShelfLife: w.ShelfLife,
		Profit:    w.Profit,
	}
}
