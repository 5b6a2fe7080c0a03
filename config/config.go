package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the adapter. Values come from the
// environment, with defaults matching the docker-compose setup.
type Config struct {
	Env  string
	Addr string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	DatabaseDSN      string

	RedisAddr string

	KeeperBaseURL string
	KeeperAuthURL string
	GatewayURL    string
	ExternalHost  string

	// Default currency code sent with rkeeper payment capture calls when a
	// tenant has none configured.
	RubleCurrencyCode string

	DefaultTimeout time.Duration

	JWTSecret string

	CronSyncShops    string
	CronSyncMenu     string
	CronSyncStatuses string
}

// Load reads .env (if present) and assembles the Config. Missing optional
// values fall back to defaults; the DSN is built from parts unless
// DATABASE_DSN overrides it.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	cfg := &Config{
		Env:  getEnv("ENV", "local"),
		Addr: getEnv("SERVER_ADDR", ":8080"),

		PostgresHost:     getEnv("POSTGRES_HOST", "db"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnv("POSTGRES_DB", "postgres"),

		RedisAddr: getEnv("REDIS_ADDR", "redis:6379"),

		KeeperBaseURL: getEnv("KEEPER_BASE_URL", "https://delivery.ucs.ru/orders/api/v1/"),
		KeeperAuthURL: getEnv("KEEPER_AUTH_URL", "https://auth-delivery.ucs.ru/connect/token"),
		GatewayURL:    getEnv("POS_GATEWAY_URL", "https://pos-gateway.starterapp.ru/api/"),
		ExternalHost:  getEnv("EXTERNAL_HOST", ""),

		RubleCurrencyCode: getEnv("RUBLE_CURRENCY_CODE", "F18FCABA-446C-4F90-9B0D-DCCFAD623C48"),

		DefaultTimeout: time.Duration(getEnvInt("DEFAULT_TIMEOUT", 20)) * time.Second,

		JWTSecret: getEnv("JWT_SECRET", ""),

		CronSyncShops:    getEnv("CRON_SYNC_SHOPS", "*/20 * * * *"),
		CronSyncMenu:     getEnv("CRON_SYNC_MENU", "*/5 * * * *"),
		CronSyncStatuses: getEnv("CRON_SYNC_STATUSES", "* * * * *"),
	}

	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "")
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB,
		)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid integer for %s: %v", key, err)
		return fallback
	}
	return n
}
