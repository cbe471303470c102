// internal/workers/order/manage-mandi-notifications/config.go
package managemandinotifications

import (
	"fmt"
	"time"

	"mandi-workers/internal/common/config"
	"mandi-workers/internal/common/validation"
	"mandi-workers/pkg/registry"
)

const defaultListLimit = 100

type Config struct {
	ListLimit   int
	Timeout     time.Duration
	InputSchema *validation.Schema // nil skips schema validation
}

func LoadConfig(appCfg *config.Config, reg *registry.ActivityRegistry) (*Config, error) {
	activity, err := reg.FindByTaskType(TaskType)
	if err != nil {
		return nil, err
	}
	schema, err := validation.Compile(activity.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("%s input schema: %w", TaskType, err)
	}
	return &Config{
		ListLimit:   defaultListLimit,
		Timeout:     config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
		InputSchema: schema,
	}, nil
}
