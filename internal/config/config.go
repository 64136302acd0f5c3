// Package config loads process-wide settings from the environment.
//
// WHERE VALUES COME FROM (lowest to highest priority):
//  1. Defaults defined in this file
//  2. A .env file in the working directory, if one exists (godotenv)
//  3. Real environment variables
//
// godotenv.Load never overrides a variable that is already set, which is what
// gives real environment variables the final word.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const minSecretLength = 16

// Config holds every runtime setting of the server.
type Config struct {
	Port int

	DBDriver    string // "sqlite" or "postgres"
	DBPath      string // sqlite file, ":memory:" allowed
	DatabaseURL string // postgres DSN

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	LogLevel  string
	LogFormat string
	LogFile   string // optional; empty means stdout only
}

// Defaults returns a Config with development defaults. JWTSecret is left
// empty on purpose: it has no safe default and Load rejects it when unset.
func Defaults() Config {
	return Config{
		Port:       8080,
		DBDriver:   DriverSQLite,
		DBPath:     "data/skillhub.db",
		TokenTTL:   time.Hour,
		BcryptCost: 10,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads the optional env files (".env" when none are given) and then
// parses the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}
	return Parse(os.Getenv)
}

// Parse builds a Config from getenv. Every invalid value is reported, not
// just the first one, so a broken deployment can be fixed in one pass.
func Parse(getenv func(string) string) (*Config, error) {
	cfg := Defaults()
	var errs []error

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			errs = append(errs, fmt.Errorf("PORT: invalid value %q", v))
		} else {
			cfg.Port = port
		}
	}

	if v := getenv("DB_DRIVER"); v != "" {
		cfg.DBDriver = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	cfg.DatabaseURL = strings.TrimSpace(getenv("DATABASE_URL"))

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL: required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver))
	}

	cfg.JWTSecret = getenv("JWT_SECRET")
	if len(cfg.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET: must be at least %d characters", minSecretLength))
	}

	if v := getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			errs = append(errs, fmt.Errorf("TOKEN_TTL: invalid duration %q", v))
		} else {
			cfg.TokenTTL = ttl
		}
	}

	if v := getenv("BCRYPT_COST"); v != "" {
		// bcrypt.MinCost and bcrypt.MaxCost
		cost, err := strconv.Atoi(v)
		if err != nil || cost < 4 || cost > 31 {
			errs = append(errs, fmt.Errorf("BCRYPT_COST: must be an integer between 4 and 31, got %q", v))
		} else {
			cfg.BcryptCost = cost
		}
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL: unknown level %q", cfg.LogLevel))
	}

	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: must be text or json, got %q", cfg.LogFormat))
	}
	cfg.LogFile = getenv("LOG_FILE")

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Addr is the listen address for net/http.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
