// Package config loads ERIN's runtime configuration from environment
// variables: an env-var-driven Config struct, getEnv/getEnvAsInt/
// getEnvAsDuration helpers, and validateConfig returning wrapped errors
// for the simulation limits and I/O paths.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for an erin run.
type Config struct {
	Server     ServerConfig
	Redis      RedisConfig
	Simulation SimulationConfig
}

// ServerConfig configures the optional httpstatus progress server.
type ServerConfig struct {
	Port        int
	Environment string
	Host        string
}

// RedisConfig configures the optional occurrence-result cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SimulationConfig holds the ceilings and paths the scenario driver and
// CLI consult: the maximum model size and occurrence count a run will
// accept, the sweep-iteration cap, and where the distribution-profile
// library and output files live.
type SimulationConfig struct {
	MaxComponents       int
	MaxOccurrencesPerRun int
	MaxSweepRounds       int
	DefaultTimeout       time.Duration
	ProfilesPath         string
	OutputDir            string
}

// Load loads configuration from environment variables with defaults,
// first loading a ".env" file into the process environment if present
// (a no-op, not an error, when the file is absent).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("ERIN_SERVER_PORT", 9100),
			Environment: getEnv("ERIN_ENVIRONMENT", "development"),
			Host:        getEnv("ERIN_SERVER_HOST", "127.0.0.1"),
		},
		Redis: RedisConfig{
			Host:     getEnv("ERIN_REDIS_HOST", ""),
			Port:     getEnvAsInt("ERIN_REDIS_PORT", 6379),
			Password: getEnv("ERIN_REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("ERIN_REDIS_DB", 0),
		},
		Simulation: SimulationConfig{
			MaxComponents:        getEnvAsInt("ERIN_MAX_COMPONENTS", 5000),
			MaxOccurrencesPerRun: getEnvAsInt("ERIN_MAX_OCCURRENCES", 10000),
			MaxSweepRounds:       getEnvAsInt("ERIN_MAX_SWEEP_ROUNDS", 1000),
			DefaultTimeout:       getEnvAsDuration("ERIN_DEFAULT_TIMEOUT", 5*time.Minute),
			ProfilesPath:         getEnv("ERIN_PROFILES_PATH", "./profiles"),
			OutputDir:            getEnv("ERIN_OUTPUT_DIR", "."),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// validateConfig validates the loaded configuration.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Redis.Host != "" && (cfg.Redis.Port <= 0 || cfg.Redis.Port > 65535) {
		return fmt.Errorf("invalid Redis port: %d", cfg.Redis.Port)
	}
	if cfg.Simulation.MaxComponents <= 0 {
		return fmt.Errorf("max components must be positive")
	}
	if cfg.Simulation.MaxOccurrencesPerRun <= 0 {
		return fmt.Errorf("max occurrences per run must be positive")
	}
	if cfg.Simulation.MaxSweepRounds <= 0 {
		return fmt.Errorf("max sweep rounds must be positive")
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
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// RedisConfigured reports whether a Redis host was configured, i.e.
// whether the occurrence-result cache should be backed by Redis instead
// of the in-memory no-op cache.
func (c *Config) RedisConfigured() bool {
	return c.Redis.Host != ""
}

// Addr returns the Redis connection address.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Addr returns the HTTP progress server's listen address.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
