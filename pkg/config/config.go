package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Redis    RedisConfig
	Overpass OverpassConfig
	Location LocationConfig
	Cache    CacheConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name            string
	Environment     string
	DefaultLanguage string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// OverpassConfig holds the external facility source configuration
type OverpassConfig struct {
	URL     string
	Timeout time.Duration
}

// LocationConfig holds geolocation behavior configuration
type LocationConfig struct {
	SingleShotTimeout    time.Duration
	HighAccuracyTimeout  time.Duration
	HighAccuracyAttempts int
	RetryDelay           time.Duration
	CacheFreshness       time.Duration
	RecentFixMaxAge      time.Duration
}

// CacheConfig holds clinic search cache configuration
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// Load loads configuration from environment variables. A .env file is applied
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "clinic-discovery"),
			Environment:     getEnv("APP_ENV", "development"),
			DefaultLanguage: getEnv("APP_DEFAULT_LANGUAGE", "en"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},
		Overpass: OverpassConfig{
			URL:     getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			Timeout: getEnvAsDuration("OVERPASS_TIMEOUT", 25*time.Second),
		},
		Location: LocationConfig{
			SingleShotTimeout:    getEnvAsDuration("LOCATION_TIMEOUT", 10*time.Second),
			HighAccuracyTimeout:  getEnvAsDuration("LOCATION_HIGH_ACCURACY_TIMEOUT", 60*time.Second),
			HighAccuracyAttempts: getEnvAsInt("LOCATION_HIGH_ACCURACY_ATTEMPTS", 3),
			RetryDelay:           getEnvAsDuration("LOCATION_RETRY_DELAY", 2*time.Second),
			CacheFreshness:       getEnvAsDuration("LOCATION_CACHE_FRESHNESS", 10*time.Minute),
			RecentFixMaxAge:      getEnvAsDuration("LOCATION_RECENT_FIX_MAX_AGE", 5*time.Minute),
		},
		Cache: CacheConfig{
			TTL:        getEnvAsDuration("SEARCH_CACHE_TTL", 10*time.Minute),
			MaxEntries: getEnvAsInt("SEARCH_CACHE_MAX_ENTRIES", 256),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
