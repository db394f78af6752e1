package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/piresc/settlement/internal/pkg/models"
)

// Defaults for the settlement engine, in milliseconds
const (
	DefaultTimeOutMs     = 5000
	DefaultMaxWaitTimeMs = 120000
	DefaultIntervalMs    = 5000
)

func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "transaction-service")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 8080)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "localhost")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 10)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "")

	// NewRelic config
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.ForwardLogs = GetEnvAsBool("NEW_RELIC_FORWARD_LOGS", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")

	// Transaction config
	configs.Transaction.ThirdPartyAPIURL = GetEnv("THIRD_PARTY_API_URL", "")
	configs.Transaction.WebhookURL = GetEnv("WEBHOOK_URL", "")
	configs.Transaction.ClientURL = GetEnv("CLIENT_URL", "")
	configs.Transaction.StoreDriver = GetEnv("STORE_DRIVER", models.StoreDriverMemory)
	configs.Transaction.TimeOut = GetEnvAsMillis("TIME_OUT", DefaultTimeOutMs)
	configs.Transaction.MaxWaitTime = GetEnvAsMillis("MAX_WAIT_TIME", DefaultMaxWaitTimeMs)
	configs.Transaction.Interval = GetEnvAsMillis("INTERVAL", DefaultIntervalMs)
	configs.Transaction.RetentionTTL = GetEnvAsMillis("RETENTION_TTL", 0)

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

// GetEnvAsMillis reads a non-negative millisecond count. Negative values fall
// back to the default.
func GetEnvAsMillis(key string, defaultMs int) time.Duration {
	ms := GetEnvAsInt(key, defaultMs)
	if ms < 0 {
		log.Printf("Warning: Negative duration for %s, using default: %dms", key, defaultMs)
		ms = defaultMs
	}
	return time.Duration(ms) * time.Millisecond
}
