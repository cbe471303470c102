// internal/workers/order/create-mandi-order/config.go
package createmandiorder

import (
	"time"

	"mandi-workers/internal/common/config"
)

const defaultDeliveryHours = 24

type Config struct {
	DefaultDeliveryHours int
	Timeout              time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(appCfg, TaskType)
	return &Config{
		DefaultDeliveryHours: defaultDeliveryHours,
		Timeout:              config.GetDuration(wcfg.Timeout),
	}
}
