package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	LogLevel       string
	HTTPAddr       string
	DBType         string
	DBDSN          string
	DataDir        string
	JWTSecret      string
	JWTTTL         time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	MetricsEnabled bool
}

const devJWTSecret = "dev-only-insecure-secret"

// LoadDotEnv merges a .env file from the working directory into the
// environment. Variables already set are left alone.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// FromEnv builds and validates a Config from the current environment.
func FromEnv() (*Config, error) {
	c := &Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8088"),
		DBType:         getEnv("STORAGE_BACKEND", "file"),
		DBDSN:          getEnv("POSTGRES_DSN", ""),
		DataDir:        getEnv("DATA_DIR", "data"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		RateLimitBurst: 30,
		RateLimitRPS:   5,
		JWTTTL:         30 * 24 * time.Hour,
		MetricsEnabled: true,
	}

	var err error
	if v := os.Getenv("JWT_TTL"); v != "" {
		if c.JWTTTL, err = time.ParseDuration(v); err != nil {
			return nil, errors.New("JWT_TTL must be a Go duration, e.g. 720h")
		}
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if c.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, errors.New("RATE_LIMIT_RPS must be a number")
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if c.RateLimitBurst, err = strconv.Atoi(v); err != nil {
			return nil, errors.New("RATE_LIMIT_BURST must be an integer")
		}
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		if c.MetricsEnabled, err = strconv.ParseBool(v); err != nil {
			return nil, errors.New("METRICS_ENABLED must be a boolean")
		}
	}
	if c.JWTSecret == "" && c.Env == "development" {
		c.JWTSecret = devJWTSecret
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.DBType != "file" && c.DBType != "postgres" {
		return errors.New("STORAGE_BACKEND must be one of: file, postgres")
	}
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && c.DataDir == "" {
		return errors.New("File storage requires DATA_DIR to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && (c.JWTSecret == "" || c.JWTSecret == devJWTSecret) {
		return errors.New("JWT_SECRET is required outside development")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
