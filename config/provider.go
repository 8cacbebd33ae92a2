package config

import (
	"os"
	"strings"
)

// EnvProvider reads values from the process environment.
// Blank values are reported as unset; other values are returned verbatim.
type EnvProvider struct{}

// Get returns the value of key and whether it is set.
func (EnvProvider) Get(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	return value, ok && strings.TrimSpace(value) != ""
}

// MapProvider serves values from a fixed map.
type MapProvider map[string]string

// Get returns the value of key and whether it is set.
func (m MapProvider) Get(key string) (string, bool) {
	value := m[key]
	return value, strings.TrimSpace(value) != ""
}
