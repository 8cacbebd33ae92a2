package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFiles loads .env files into the process environment.
// Priority: ENV_FILE (only that file), then .env.local, then .env.
// Missing files are not an error. Variables already set are never overridden.
func LoadEnvFiles() error {
	return loadEnvFiles(false)
}

// ReloadEnvFiles re-reads the same files as LoadEnvFiles with the same
// priority, but overrides variables that are already set. Used on SIGHUP.
func ReloadEnvFiles() error {
	return loadEnvFiles(true)
}

func loadEnvFiles(override bool) error {
	load, files := godotenv.Load, []string{".env.local", ".env"}
	if override {
		// Overload lets the last file win, so apply the lower priority file first.
		load, files = godotenv.Overload, []string{".env", ".env.local"}
	}

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		files = []string{envFile}
	}
	for _, f := range files {
		if err := load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}
