package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"pickem/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL       string
	DatabaseName      string
	DBMaxConns        int
	DBMinConns        int
	DBMaxConnLifetime time.Duration

	// HTTP configuration
	HTTPAddr      string
	GatewayToken  string // Bearer token the API gateway presents on /s/ routes
	WebhookSecret string // HMAC key for payment provider callbacks

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), empty disables publishing

	// Redis configuration
	RedisAddr string // Feed cache, empty disables caching

	// Kafka configuration
	KafkaBrokers      []string
	KafkaContestTopic string

	// Sports feed configuration
	SportsFeedBaseURL    string
	SportsFeedRatePerSec float64
	SportsFeedTimeout    time.Duration

	// CanonicalTimezone defines the day boundaries for bonuses and settlement
	CanonicalTimezone string

	// Job intervals
	StatusInterval      time.Duration
	IngestionInterval   time.Duration
	SettlementInterval  time.Duration
	GhostInterval       time.Duration
	LeaderboardInterval time.Duration

	// Business policy
	PolicyFile string
	Policy     *Policy

	// OpenTelemetry
	OTelEnabled          bool
	OTelExporterType     string // console, otlp or none
	OTelOTLPEndpoint     string
	OTelServiceName      string
	OTelExportIntervalMs int

	// Environment
	Environment string // "development", "production" or "test"
	LogLevel    string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from the environment, reading .env first when present
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		DBMaxConns:        getIntWithDefault("DB_MAX_CONNS", 10),
		DBMinConns:        getIntWithDefault("DB_MIN_CONNS", 0),
		DBMaxConnLifetime: getDurationWithDefault("DB_MAX_CONN_LIFETIME", time.Hour),

		HTTPAddr:      getEnvWithDefault("HTTP_ADDR", ":8080"),
		GatewayToken:  os.Getenv("GATEWAY_TOKEN"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),

		NATSServers: os.Getenv("NATS_SERVERS"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaContestTopic: getEnvWithDefault("KAFKA_CONTEST_TOPIC", "pickem.contest-created"),

		SportsFeedBaseURL:    getEnvWithDefault("SPORTS_FEED_BASE_URL", "https://api-web.nhle.com/v1"),
		SportsFeedRatePerSec: getFloatWithDefault("SPORTS_FEED_RATE_PER_SEC", 5),
		SportsFeedTimeout:    getDurationWithDefault("SPORTS_FEED_TIMEOUT", 10*time.Second),

		CanonicalTimezone: getEnvWithDefault("CANONICAL_TIMEZONE", "America/New_York"),

		StatusInterval:      getDurationWithDefault("STATUS_INTERVAL", time.Minute),
		IngestionInterval:   getDurationWithDefault("INGESTION_INTERVAL", 2*time.Minute),
		SettlementInterval:  getDurationWithDefault("SETTLEMENT_INTERVAL", 15*time.Minute),
		GhostInterval:       getDurationWithDefault("GHOST_INTERVAL", 5*time.Minute),
		LeaderboardInterval: getDurationWithDefault("LEADERBOARD_INTERVAL", time.Hour),

		PolicyFile: os.Getenv("POLICY_FILE"),

		OTelEnabled:          getEnvWithDefault("OTEL_ENABLED", "true") == "true",
		OTelExporterType:     getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:     getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelServiceName:      getEnvWithDefault("OTEL_SERVICE_NAME", "pickem"),
		OTelExportIntervalMs: getIntWithDefault("OTEL_EXPORT_INTERVAL_MS", 60000),

		Environment: os.Getenv("ENVIRONMENT"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	policy, err := LoadPolicy(config.PolicyFile)
	if err != nil {
		return nil, err
	}
	config.Policy = policy

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

// splitList parses a comma-separated list, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:          "test",
		DBMaxConns:           4,
		HTTPAddr:             ":0",
		GatewayToken:         "test-gateway-token",
		WebhookSecret:        "test-webhook-secret",
		KafkaContestTopic:    "pickem.contest-created",
		SportsFeedRatePerSec: 100,
		SportsFeedTimeout:    time.Second,
		CanonicalTimezone:    "America/New_York",
		StatusInterval:       time.Minute,
		IngestionInterval:    time.Minute,
		SettlementInterval:   time.Minute,
		GhostInterval:        time.Minute,
		LeaderboardInterval:  time.Minute,
		Policy:               DefaultPolicy(),
		OTelExporterType:     "none",
		OTelServiceName:      "pickem-test",
		LogLevel:             "debug",
	}
}
