// internal/workers/mandi/validate-purchase-request/config.go
package validatepurchaserequest

import (
	"fmt"
	"time"

	"mandi-workers/internal/common/config"
	"mandi-workers/internal/common/validation"
	"mandi-workers/internal/mandi"
	"mandi-workers/pkg/registry"
)

type Config struct {
	Timeout     time.Duration
	DefaultMode mandi.RankMode
	Retailer    mandi.RetailerProfile
	InputSchema *validation.Schema
}

// LoadConfig compiles the input schema registered for this task type. The
// retailer profile supplies the default location and resale prices.
func LoadConfig(appCfg *config.Config, reg *registry.ActivityRegistry, retailer mandi.RetailerProfile) (*Config, error) {
	activity, err := reg.FindByTaskType(TaskType)
	if err != nil {
		return nil, err
	}
	schema, err := validation.Compile(activity.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("%s input schema: %w", TaskType, err)
	}
	return &Config{
		Timeout:     config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
		DefaultMode: mandi.RankMode(appCfg.Mandi.DefaultMode),
		Retailer:    retailer,
		InputSchema: schema,
	}, nil
}
