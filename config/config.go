// Package config loads service configuration from the environment, with an
// optional YAML table for the analytics signature list.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pageaudit/backend/audit"
)

// Config holds all runtime settings for the audit backend.
type Config struct {
	Port                string
	GinMode             string
	DataDir             string
	LogLevel            string
	RenderTimeout       time.Duration
	ProbeTimeout        time.Duration
	AnalyticsSignatures []string
}

// signatureFile is the YAML shape of an analytics signature override table.
type signatureFile struct {
	Signatures []string `yaml:"signatures"`
}

// Load reads configuration, trying .env.development first for local work
// and falling back to .env, then to plain environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}

	cfg := &Config{
		Port:                envOr("PORT", "8082"),
		GinMode:             os.Getenv("GIN_MODE"),
		DataDir:             envOr("DATA_DIR", "data"),
		LogLevel:            envOr("LOG_LEVEL", "info"),
		RenderTimeout:       durationOr("RENDER_TIMEOUT", 30*time.Second),
		ProbeTimeout:        durationOr("PROBE_TIMEOUT", 5*time.Second),
		AnalyticsSignatures: audit.DefaultAnalyticsSignatures,
	}

	if path := os.Getenv("ANALYTICS_SIGNATURES_FILE"); path != "" {
		signatures, err := loadSignatures(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load analytics signatures: %w", err)
		}
		cfg.AnalyticsSignatures = signatures
	}

	return cfg, nil
}

// loadSignatures reads a signature override table. An empty table is an
// error: it would silently disable analytics detection.
func loadSignatures(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file signatureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	if len(file.Signatures) == 0 {
		return nil, fmt.Errorf("%s contains no signatures", path)
	}

	return file.Signatures, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s value %q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
