package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	Env        string
	Server     ServerConfig
	Store      StoreConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
	Payment    PaymentConfig
	Ticket     TicketConfig
	Dispatcher DispatcherConfig
	Kafka      KafkaConfig
	Admin      AdminConfig
	Log        LogConfig
}

type ServerConfig struct {
	HTTPPort     int
	GRpcPort     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

type StoreConfig struct {
	Driver string
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
}

type PostgresConfig struct {
	URL      string
	MaxConns int
}

// PaymentConfig holds the gateway credentials. KeySecret signs client
// confirmations, WebhookSecret signs gateway notifications.
type PaymentConfig struct {
	KeyID           string
	KeySecret       string
	WebhookSecret   string
	BaseURL         string
	Timeout         time.Duration
	DefaultCurrency string
}

type TicketConfig struct {
	NodeID int64
}

type DispatcherConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

type KafkaConfig struct {
	Brokers              []string
	ProducerRetryMax     int
	ProducerRequiredAcks int
	Enabled              bool
	ConsumerGroupID      string
	RelayEnabled         bool
}

type AdminConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	JWTExpiry    time.Duration
}

type LogConfig struct {
	Level    string
	Mode     string
	Encoding string
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("ENV", "development"),
		Server: ServerConfig{
			HTTPPort:     getEnvAsInt("SERVER_HTTP_PORT", 5000),
			GRpcPort:     getEnvAsInt("SERVER_GRPC_PORT", 50057),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			CORSOrigins:  getEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:8080"}),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", StoreDriverRedis),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		Postgres: PostgresConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvAsInt("DATABASE_MAX_CONNS", 10),
		},
		Payment: PaymentConfig{
			KeyID:           getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret:       getEnv("RAZORPAY_KEY_SECRET", ""),
			WebhookSecret:   getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
			BaseURL:         getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
			Timeout:         getEnvAsDuration("RAZORPAY_TIMEOUT", 10*time.Second),
			DefaultCurrency: getEnv("DEFAULT_CURRENCY", "INR"),
		},
		Ticket: TicketConfig{
			NodeID: int64(getEnvAsInt("TICKET_NODE_ID", 1)),
		},
		Dispatcher: DispatcherConfig{
			Workers:   getEnvAsInt("DISPATCH_WORKERS", 4),
			QueueSize: getEnvAsInt("DISPATCH_QUEUE_SIZE", 256),
			Timeout:   getEnvAsDuration("DISPATCH_TIMEOUT", 15*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:              getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			ProducerRetryMax:     getEnvAsInt("KAFKA_PRODUCER_RETRY_MAX", 3),
			ProducerRequiredAcks: getEnvAsInt("KAFKA_PRODUCER_REQUIRED_ACKS", 1),
			Enabled:              getEnvAsBool("KAFKA_ENABLED", true),
			ConsumerGroupID:      getEnv("KAFKA_CONSUMER_GROUP_ID", "ticketing-service"),
			RelayEnabled:         getEnvAsBool("KAFKA_RELAY_ENABLED", false),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("JWT_SECRET", "jwt-secret"),
			JWTExpiry:    getEnvAsDuration("JWT_EXPIRY", time.Hour),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Mode:     getEnv("LOG_MODE", "development"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.Server.HTTPPort)
	}

	if c.Server.GRpcPort <= 0 || c.Server.GRpcPort > 65535 {
		return fmt.Errorf("invalid grpc port: %d", c.Server.GRpcPort)
	}

	switch c.Store.Driver {
	case StoreDriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required")
		}
	case StoreDriverPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("database url is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}

	if c.Payment.KeySecret != "" && c.Payment.KeySecret == c.Payment.WebhookSecret {
		return fmt.Errorf("payment key secret and webhook secret must differ")
	}

	if c.Ticket.NodeID < 0 || c.Ticket.NodeID > 1023 {
		return fmt.Errorf("invalid ticket node id: %d", c.Ticket.NodeID)
	}

	if c.Dispatcher.Workers <= 0 || c.Dispatcher.QueueSize <= 0 {
		return fmt.Errorf("dispatcher workers and queue size must be positive")
	}

	if c.Env == "production" {
		if c.Payment.KeySecret == "" || c.Payment.WebhookSecret == "" {
			return fmt.Errorf("payment secrets must be set in production")
		}
		if c.Admin.JWTSecret == "" || c.Admin.JWTSecret == "jwt-secret" {
			return fmt.Errorf("JWT secret must be set in production")
		}
		if c.Admin.PasswordHash == "" {
			return fmt.Errorf("admin password hash must be set in production")
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
