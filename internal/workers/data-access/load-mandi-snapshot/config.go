// internal/workers/data-access/load-mandi-snapshot/config.go
package loadmandisnapshot

import (
	"time"

	"mandi-workers/internal/common/config"
	"mandi-workers/internal/mandi"
)

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
	Catalog  *mandi.Catalog
}

func LoadConfig(appCfg *config.Config, catalog *mandi.Catalog) *Config {
	return &Config{
		CacheTTL: appCfg.Mandi.GetSnapshotCacheTTL(),
		Timeout:  config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
		Catalog:  catalog,
	}
}
