// internal/workers/order/send-order-notification/config.go
package sendordernotification

import (
	"time"

	"mandi-workers/internal/common/config"
)

type Config struct {
	EmailEnabled      bool
	SMSEnabled        bool
	UrgentWithinHours int
	Timeout           time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(appCfg, TaskType)
	n := appCfg.Notifications
	return &Config{
		EmailEnabled:      n.Email.Enabled && appCfg.Integrations.AWS.SES.Enabled,
		SMSEnabled:        n.SMS.Enabled && appCfg.Integrations.AWS.SNS.Enabled,
		UrgentWithinHours: n.SMS.UrgentWithinHours,
		Timeout:           config.GetDuration(wcfg.Timeout),
	}
}
