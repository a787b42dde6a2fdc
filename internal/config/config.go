package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the key/value connection string used by the GORM postgres driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres:// form used by golang-migrate.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// KafkaConfig holds the booking event producer settings. Empty Brokers disables publishing.
type KafkaConfig struct {
	Brokers []string
}

// RedisConfig holds the user cache settings. Empty Addr disables caching.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	UserCacheTTL time.Duration
}

// ServiceConfig holds all configuration for the backend server.
type ServiceConfig struct {
	Port   string
	AppEnv string
	DB     DatabaseConfig
	Kafka  KafkaConfig
	Redis  RedisConfig
}

// GatewayConfig holds all configuration for the gateway.
type GatewayConfig struct {
	Port      string
	AppEnv    string
	ServerURL string
	RateRPS   float64
	RateBurst int
}

// newViper loads an optional .env file and binds SHAREIT_* environment variables.
func newViper() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SHAREIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_PORT", "9090")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "shareit")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "shareit")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("USER_CACHE_TTL", "5m")
	v.SetDefault("GATEWAY_PORT", "8080")
	v.SetDefault("GATEWAY_SERVER_URL", "http://localhost:9090")
	v.SetDefault("GATEWAY_RATE_RPS", 20.0)
	v.SetDefault("GATEWAY_RATE_BURST", 40)
	return v
}

// Load reads the backend configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v := newViper()

	ttl, err := time.ParseDuration(v.GetString("USER_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHAREIT_USER_CACHE_TTL: %w", err)
	}

	return &ServiceConfig{
		Port:   port(v.GetString("SERVICE_PORT")),
		AppEnv: v.GetString("APP_ENV"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
		},
		Redis: RedisConfig{
			Addr:         v.GetString("REDIS_ADDR"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			UserCacheTTL: ttl,
		},
	}, nil
}

// LoadGateway reads the gateway configuration from environment variables.
func LoadGateway() (*GatewayConfig, error) {
	v := newViper()

	cfg := &GatewayConfig{
		Port:      port(v.GetString("GATEWAY_PORT")),
		AppEnv:    v.GetString("APP_ENV"),
		ServerURL: strings.TrimRight(v.GetString("GATEWAY_SERVER_URL"), "/"),
		RateRPS:   v.GetFloat64("GATEWAY_RATE_RPS"),
		RateBurst: v.GetInt("GATEWAY_RATE_BURST"),
	}
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("SHAREIT_GATEWAY_SERVER_URL is required")
	}
	return cfg, nil
}

// port normalizes "8080" and ":8080" to a listen address.
func port(p string) string {
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
