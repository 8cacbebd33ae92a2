package health

import (
	"context"

	"readyprobe/logger"
)

// Provider reads process-wide configuration values.
// ok is false when the key is unset.
type Provider interface {
	Get(key string) (value string, ok bool)
}

const (
	// DefaultServerName is the name the default server instance runs under.
	DefaultServerName = "defaultServer"
	// DefaultResourceName prefixes the readiness check name.
	DefaultResourceName = "SystemResource"

	dataKeyDefaultServer = "default server"
	dataKeyReason        = "reason"
	availableValue       = "available"
	notAvailableValue    = "not available"
)

// ServerReadiness reports UP when this instance runs as the default server.
type ServerReadiness struct {
	provider Provider
	key      string
	expected string
	name     string
}

// ReadinessOption customizes a ServerReadiness.
type ReadinessOption func(*ServerReadiness)

// WithExpectedServer overrides the server name treated as the default.
func WithExpectedServer(name string) ReadinessOption {
	return func(s *ServerReadiness) {
		if name != "" {
			s.expected = name
		}
	}
}

// WithResourceName overrides the check name prefix.
func WithResourceName(resource string) ReadinessOption {
	return func(s *ServerReadiness) {
		if resource != "" {
			s.name = resource + "Readiness"
		}
	}
}

// NewServerReadiness builds the check reading the server name from key.
func NewServerReadiness(provider Provider, key string, opts ...ReadinessOption) *ServerReadiness {
	s := &ServerReadiness{
		provider: provider,
		key:      key,
		expected: DefaultServerName,
		name:     DefaultResourceName + "Readiness",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the stable check name, e.g. "SystemResourceReadiness".
func (s *ServerReadiness) Name() string {
	return s.name
}

// Call compares the configured server name with the expected one.
// The comparison is exact; an unset or blank name is reported DOWN with a reason.
func (s *ServerReadiness) Call(_ context.Context) Response {
	b := Named(s.name)

	server, ok := s.provider.Get(s.key)
	if !ok {
		logger.Debug("Server name not configured | key=%s check=%s", s.key, s.name)
		return b.Down().
			WithData(dataKeyDefaultServer, notAvailableValue).
			WithData(dataKeyReason, s.key+" is not set").
			Build()
	}

	if server != s.expected {
		logger.Debug("Not the default server | server=%s expected=%s", server, s.expected)
		return b.Down().WithData(dataKeyDefaultServer, notAvailableValue).Build()
	}
	return b.Up().WithData(dataKeyDefaultServer, availableValue).Build()
}
