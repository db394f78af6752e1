package models

import "time"

// Config represents application configuration
type Config struct {
	App         AppConfig
	Server      ServerConfig
	Redis       RedisConfig
	NATS        NATSConfig
	NewRelic    NewRelicConfig
	Logger      LoggerConfig
	Transaction TransactionConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int
	ShutdownTimeout int // in seconds
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	Enabled     bool
	LicenseKey  string
	AppName     string
	ForwardLogs bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}

// Store drivers
const (
	StoreDriverMemory = "memory"
	StoreDriverRedis  = "redis"
)

// TransactionConfig contains settlement engine configuration
type TransactionConfig struct {
	ThirdPartyAPIURL string
	WebhookURL       string
	ClientURL        string
	StoreDriver      string

	TimeOut      time.Duration // synchronous attempt deadline
	MaxWaitTime  time.Duration // poll ceiling
	Interval     time.Duration // poll period
	RetentionTTL time.Duration // 0 keeps resolved transactions forever
}
