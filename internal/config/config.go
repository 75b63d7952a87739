// Package config reads the configuration of the backend from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/currency"
)

// Config is the configuration of the backend.
type Config struct {
	APIURL *url.URL // External URL of the API, used for links
	Port   string

	DBPath string // SQLite database file, used when DB_HOST is not set
	DBHost string
	DBUser string
	DBPass string
	DBName string

	JWTSecret []byte
	Currency  currency.Unit

	// Interval of the rollover worker. Zero disables the worker.
	RolloverInterval time.Duration

	CORSAllowOrigins []string
	EnablePprof      bool
}

// Load reads the configuration from the environment and validates it.
//
// If a .env file exists in the working directory, its variables are
// loaded first. Variables that are already set take precedence.
func Load() (Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("could not read .env file: %w", err)
	} else if err == nil {
		log.Debug().Msg("loaded .env file")
	}

	var problems []error

	c := Config{
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "data/coincraft.db"),
		DBHost:           os.Getenv("DB_HOST"),
		DBUser:           os.Getenv("DB_USER"),
		DBPass:           os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		JWTSecret:        []byte(os.Getenv("JWT_SECRET")),
		CORSAllowOrigins: strings.Fields(os.Getenv("CORS_ALLOW_ORIGINS")),
		EnablePprof:      os.Getenv("ENABLE_PPROF") == "true",
	}

	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		problems = append(problems, errors.New("environment variable API_URL must be set"))
	} else {
		c.APIURL, err = url.Parse(strings.TrimSuffix(apiURL, "/"))
		if err != nil {
			problems = append(problems, fmt.Errorf("environment variable API_URL must be a valid URL: %w", err))
		}
	}

	c.Currency, err = currency.ParseISO(getEnv("CURRENCY", "PHP"))
	if err != nil {
		problems = append(problems, fmt.Errorf("environment variable CURRENCY must be an ISO 4217 currency code: %w", err))
	}

	c.RolloverInterval, err = time.ParseDuration(getEnv("ROLLOVER_INTERVAL", "1h"))
	if err != nil {
		problems = append(problems, fmt.Errorf("environment variable ROLLOVER_INTERVAL must be a duration: %w", err))
	}

	if err := errors.Join(problems...); err != nil {
		return Config{}, err
	}

	return c, c.Validate()
}

// Validate checks the configuration and reports all problems at once.
func (c Config) Validate() error {
	var problems []error

	if c.APIURL == nil || !c.APIURL.IsAbs() {
		problems = append(problems, errors.New("the API URL must be an absolute URL"))
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Errorf("invalid port '%s': must be a number between 1 and 65535", c.Port))
	}

	if len(c.JWTSecret) == 0 {
		problems = append(problems, errors.New("environment variable JWT_SECRET must be set"))
	}

	if c.DBHost == "" && c.DBPath == "" {
		problems = append(problems, errors.New("the SQLite database path must not be empty"))
	}

	if c.DBHost != "" && c.DBName == "" {
		problems = append(problems, errors.New("environment variable DB_NAME must be set when DB_HOST is set"))
	}

	if c.RolloverInterval < 0 {
		problems = append(problems, errors.New("the rollover interval must not be negative"))
	}

	return errors.Join(problems...)
}

// Postgres reports whether PostgreSQL is used instead of SQLite.
func (c Config) Postgres() bool {
	return c.DBHost != ""
}

// PostgresDSN returns the connection string for PostgreSQL.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s", c.DBHost, c.DBUser, c.DBPass, c.DBName)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}
