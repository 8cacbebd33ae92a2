package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("server port %q: must be a number between 1 and 65535", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	for _, proxy := range c.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(proxy); err != nil && net.ParseIP(proxy) == nil {
			errs = append(errs, fmt.Errorf("trusted proxy %q: not an IP or CIDR", proxy))
		}
	}

	if c.Probe.ServerNameKey == "" {
		errs = append(errs, errors.New("server name key must not be empty"))
	}
	if c.Probe.CheckTimeout <= 0 {
		errs = append(errs, errors.New("check timeout must be positive"))
	}

	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		errs = append(errs, errors.New("auth enabled but API_KEYS is empty"))
	}

	if c.RateLimit.Enabled {
		switch c.RateLimit.Strategy {
		case "ip", "api_key":
		default:
			errs = append(errs, fmt.Errorf("rate limit strategy %q: must be ip or api_key", c.RateLimit.Strategy))
		}
		if c.RateLimit.RequestsPerSec <= 0 || c.RateLimit.Burst <= 0 {
			errs = append(errs, errors.New("rate limit rps and burst must be positive"))
		}
		if c.RateLimit.CleanupInterval <= 0 {
			errs = append(errs, errors.New("rate limit cleanup interval must be positive"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
