// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers" validate:"dive"`
	Integrations  IntegrationConfig       `mapstructure:"integrations"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Mandi         MandiConfig             `mapstructure:"mandi"`
	Server        ServerConfig            `mapstructure:"server"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address" validate:"required"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active" validate:"min=1"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Database       string `mapstructure:"database" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections" validate:"min=1"`
	MaxIdle        int    `mapstructure:"max_idle" validate:"min=0"`
	SSLMode        string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url" validate:"required_without=Addresses"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// GetAddresses returns Addresses, or URL alone when no list is configured.
func (e ElasticsearchConfig) GetAddresses() []string {
	if len(e.Addresses) > 0 {
		return e.Addresses
	}
	if e.URL != "" {
		return []string{e.URL}
	}
	return nil
}

type RedisConfig struct {
	Address  string `mapstructure:"address" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active" validate:"min=1"`
	Timeout       int  `mapstructure:"timeout" validate:"min=1"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries" validate:"min=0"`
}

// IntegrationConfig holds settings for the AWS messaging services.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email" validate:"omitempty,email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// NotificationConfig holds settings for the send-order-notification worker.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled bool `mapstructure:"enabled"`
		// Orders due within this many hours also go out by SMS.
		UrgentWithinHours int `mapstructure:"urgent_within_hours" validate:"min=0"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output" validate:"required"`
}

// MandiConfig holds the ranking engine and data-source settings.
type MandiConfig struct {
	CatalogPath      string        `mapstructure:"catalog_path" validate:"required"`
	RegistryPath     string        `mapstructure:"registry_path" validate:"required"`
	DefaultMode      string        `mapstructure:"default_mode" validate:"oneof=balanced distance price profit shelfLife"`
	MaxItems         int           `mapstructure:"max_items" validate:"min=1"`
	SnapshotCacheTTL int           `mapstructure:"snapshot_cache_ttl"` // seconds
	ListingsIndex    string        `mapstructure:"listings_index" validate:"required"`
	SearchRadiusKm   int           `mapstructure:"search_radius_km" validate:"min=0"`
	ProcessID        string        `mapstructure:"process_id"`
	Weights          WeightsConfig `mapstructure:"weights"`
}

// WeightsConfig holds the balanced-mode factor weights.
type WeightsConfig struct {
	Distance  float64 `mapstructure:"distance" validate:"min=0"`
	Price     float64 `mapstructure:"price" validate:"min=0"`
	ShelfLife float64 `mapstructure:"shelf_life" validate:"min=0"`
	Profit    float64 `mapstructure:"profit" validate:"min=0"`
}

// IsZero reports whether no weight was configured.
func (w WeightsConfig) IsZero() bool {
	return w == WeightsConfig{}
}

// GetSnapshotCacheTTL returns the snapshot cache lifetime.
func (m MandiConfig) GetSnapshotCacheTTL() time.Duration {
	return time.Duration(m.SnapshotCacheTTL) * time.Second
}

// ServerConfig holds the ops and preview HTTP server settings.
type ServerConfig struct {
	Address        string   `mapstructure:"address" validate:"required"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps" validate:"min=0"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst" validate:"min=0"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
}

// ObservabilityConfig holds tracing and error reporting settings.
type ObservabilityConfig struct {
	ServiceName    string  `mapstructure:"service_name"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint" validate:"omitempty,url"`
	SentryDSN      string  `mapstructure:"sentry_dsn"`
	SampleRate     float64 `mapstructure:"sample_rate" validate:"min=0,max=1"`
}
