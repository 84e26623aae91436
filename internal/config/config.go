package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time parses the pool lifetime duration
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Broker and cache settings live in their own
// loaders (redis.go, cache.go, ratelimit.go) because those subsystems
// degrade gracefully when unset, while everything here is required or has
// a serviceable default.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	// Connection pool tuning. The roster is a small internal API; the
	// defaults are sized for it and only need overriding under load tests.
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:    must("APP_ENV"),
		Port:   must("APP_PORT"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		DBMaxOpenConns:    atoi(getenv("DB_MAX_OPEN_CONNS", "25")),
		DBMaxIdleConns:    atoi(getenv("DB_MAX_IDLE_CONNS", "25")),
		DBConnMaxLifetime: parseDur(getenv("DB_CONN_MAX_LIFETIME", "30m")),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
