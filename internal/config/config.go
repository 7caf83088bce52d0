package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverPQ       = "pq"
	DriverSQLite   = "sqlite"
)

// Config is the process configuration, read once at startup.
type Config struct {
	AppEnv string
	Port   string

	DBDriver        string
	DatabaseURL     string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	DBTimeZone      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	JWTSecret   string
	JWTTTL      time.Duration
	TxTimeout   time.Duration
	MaxPageSize int

	LogFile     string
	LogLevel    string
	CORSOrigins []string

	SuperAdminEmail    string
	SuperAdminPassword string
	SuperAdminName     string
}

// Load reads .env when present and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// No .env file: rely on the process environment.
		logrus.Debug("config: no .env file found")
	}

	var errs []error
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", DriverPostgres),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "password"),
		DBName:      getEnv("DB_NAME", "route_dispatch"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		DBTimeZone:  getEnv("DB_TIMEZONE", "UTC"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogFile:     getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		SuperAdminEmail:    os.Getenv("SUPERADMIN_EMAIL"),
		SuperAdminPassword: os.Getenv("SUPERADMIN_PASSWORD"),
		SuperAdminName:     getEnv("SUPERADMIN_NAME", "Super Admin"),
	}
	cfg.MaxOpenConns = getInt("DB_MAX_OPEN_CONNS", 25, &errs)
	cfg.MaxIdleConns = getInt("DB_MAX_IDLE_CONNS", 5, &errs)
	cfg.MaxPageSize = getInt("MAX_PAGE_SIZE", 100, &errs)
	cfg.ConnMaxLifetime = getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute, &errs)
	cfg.JWTTTL = getDuration("JWT_TTL", 24*time.Hour, &errs)
	cfg.TxTimeout = getDuration("TX_TIMEOUT", 5*time.Second, &errs)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			missing = append(missing, "JWT_SECRET")
		} else {
			logrus.Warn("config: JWT_SECRET not set, using an insecure development secret")
			c.JWTSecret = "development-secret"
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}
	switch c.DBDriver {
	case DriverPostgres, DriverPQ, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER %q is not one of postgres, pq, sqlite", c.DBDriver)
	}
	if c.MaxPageSize < 1 {
		return fmt.Errorf("MAX_PAGE_SIZE must be positive, got %d", c.MaxPageSize)
	}
	if c.JWTTTL <= 0 || c.TxTimeout <= 0 {
		return errors.New("JWT_TTL and TX_TIMEOUT must be positive")
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise a DSN built from the DB_*
// settings. For sqlite DB_NAME is the file path.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBDriver == DriverSQLite {
		return c.DBName + "?_foreign_keys=on"
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimeZone,
	)
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists && v != "" {
		return v
	}
	return defaultValue
}

func getInt(key string, defaultValue int, errs *[]error) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
