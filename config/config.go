package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config application configuration
type Config struct {
	Server    ServerConfig
	Probe     ProbeConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	TrustedProxies  []string // IPs or CIDRs allowed to set X-Forwarded-For; empty trusts none
}

// ProbeConfig readiness probe configuration
type ProbeConfig struct {
	ServerNameKey  string        // env key holding the running server's name
	ExpectedServer string        // server name that counts as the default server
	ResourceName   string        // readiness check name prefix
	CheckTimeout   time.Duration // deadline for one health request
}

// LoggerConfig logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// AuthConfig bearer token authentication
type AuthConfig struct {
	Enabled bool
	APIKeys []string
}

// RateLimitConfig per-client rate limiting
type RateLimitConfig struct {
	Enabled         bool
	RequestsPerSec  float64
	Burst           int
	Strategy        string // "ip" or "api_key"
	CleanupInterval time.Duration
}

// Defaults used when the environment does not override them.
const (
	DefaultPort           = "9080"
	DefaultServerNameKey  = "SERVER_NAME"
	DefaultExpectedServer = "defaultServer"
	DefaultResourceName   = "SystemResource"
)

// Load builds the configuration from the process environment.
// Call LoadEnvFiles first to pull in .env files.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", DefaultPort),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
			TrustedProxies:  getListEnv("TRUSTED_PROXIES"),
		},
		Probe: ProbeConfig{
			ServerNameKey:  getEnv("SERVER_NAME_KEY", DefaultServerNameKey),
			ExpectedServer: getEnv("EXPECTED_SERVER_NAME", DefaultExpectedServer),
			ResourceName:   getEnv("RESOURCE_NAME", DefaultResourceName),
			CheckTimeout:   getDurationEnv("CHECK_TIMEOUT", 5*time.Second),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getBoolEnv("LOG_DEVELOPMENT", false),
		},
		Auth: AuthConfig{
			Enabled: getBoolEnv("AUTH_ENABLED", false),
			APIKeys: getListEnv("API_KEYS"),
		},
		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			RequestsPerSec:  getFloatEnv("RATE_LIMIT_RPS", 10),
			Burst:           getIntEnv("RATE_LIMIT_BURST", 20),
			Strategy:        strings.ToLower(getEnv("RATE_LIMIT_STRATEGY", "ip")),
			CleanupInterval: getDurationEnv("RATE_LIMIT_CLEANUP_INTERVAL", 10*time.Minute),
		},
	}
}

// getEnv returns the env value or defaultValue when unset or empty
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv accepts plain seconds ("30") or Go durations ("30s", "5m")
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		value = strings.ToLower(strings.TrimSpace(value))
		return value == "true" || value == "1" || value == "yes" || value == "on"
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated value, dropping blanks
func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
