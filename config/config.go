package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/comanda-app/comanda/utils"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver        string
	DBDSN           string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnLifetime  time.Duration
	Port            string
	GinMode         string
	JWTSecret       string
	AMQPURL         string
	PollInterval    time.Duration
	StoreTimeout    time.Duration
	DefaultTenant   string
	CORSOrigin      string
	LogLevel        string
	Timezone        string
	RateLimit       int
	RateLimitWindow time.Duration
}

// Load membaca .env (kalau ada) lalu environment. File yang tidak ada bukan error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		DBDriver:        strings.ToLower(GetEnv("DB_DRIVER", "sqlite")),
		DBDSN:           GetEnv("DB_DSN", "comanda.db"),
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  getInt("DB_MAX_IDLE_CONNS", 5),
		DBConnLifetime:  getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		Port:            GetEnv("PORT", "8080"),
		GinMode:         GetEnv("GIN_MODE", "debug"),
		JWTSecret:       GetEnv("JWT_SECRET", ""),
		AMQPURL:         GetEnv("AMQP_URL", ""),
		PollInterval:    getDuration("CHANGE_POLL_INTERVAL", time.Second),
		StoreTimeout:    getDuration("STORE_TIMEOUT", 5*time.Second),
		DefaultTenant:   GetEnv("DEFAULT_TENANT", ""),
		CORSOrigin:      GetEnv("CORS_ORIGIN", "*"),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		Timezone:        GetEnv("APP_TIMEZONE", "America/Sao_Paulo"),
		RateLimit:       getInt("RATE_LIMIT", 100),
		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.PollInterval <= 0 || c.StoreTimeout <= 0 {
		return fmt.Errorf("CHANGE_POLL_INTERVAL and STORE_TIMEOUT must be positive")
	}
	return nil
}

// Location -> zona waktu jam buka dan laporan; UTC kalau tidak dikenal
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		utils.InfoLogger.WithField("timezone", c.Timezone).Warn("unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

// GetEnv retrieves an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, def int) int {
	if v := GetEnv(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// durations accept "5s" style values or plain seconds
func getDuration(key string, def time.Duration) time.Duration {
	v := GetEnv(key, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
