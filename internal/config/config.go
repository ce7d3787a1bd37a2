// Package config handles loading and validation of service configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"supplier-gateway/internal/registry"
)

// Settings backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const (
	defaultPort      = "8080"
	defaultSecretsID = "supplier-gateway"
	defaultTimeout   = 30 * time.Second
)

// Config holds all service configuration.
// Environment determines whether secrets load from env vars (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	SecretsID  string

	Settings SettingsConfig

	// CatalogFile optionally replaces the built-in supplier catalog.
	CatalogFile string

	// Outbound transport
	UpstreamTimeout time.Duration
	ChromeTLS       bool

	// Supplier credentials. Missing values are not a load failure; the
	// registry reports them when the supplier is first resolved.
	Secrets registry.Secrets
}

// SettingsConfig selects where environment routing is persisted.
type SettingsConfig struct {
	Backend       string `json:"backend"`
	Dir           string `json:"dir"`
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager.
func Load(ctx context.Context) (*Config, error) {
	// If CONFIG_FILE is set, load everything from the JSON file
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	timeout, err := durationEnv("UPSTREAM_TIMEOUT", defaultTimeout)
	if err != nil {
		return nil, err
	}
	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        envOrDefault("PORT", defaultPort),
		Environment: envOrDefault("ENVIRONMENT", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		GCPProject:  os.Getenv("GCP_PROJECT"),
		SecretsID:   envOrDefault("SECRETS_ID", defaultSecretsID),
		Settings: SettingsConfig{
			Backend:       envOrDefault("SETTINGS_BACKEND", BackendFile),
			Dir:           envOrDefault("SETTINGS_DIR", "."),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
		},
		CatalogFile:     os.Getenv("SUPPLIER_CATALOG_FILE"),
		UpstreamTimeout: timeout,
		ChromeTLS:       os.Getenv("CHROME_TLS") == "true",
	}

	// Load supplier secrets based on environment
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading supplier secrets: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Use a struct that matches the JSON structure
	var fileConfig struct {
		Port            string           `json:"port"`
		Environment     string           `json:"environment"`
		LogLevel        string           `json:"log_level"`
		Settings        SettingsConfig   `json:"settings"`
		CatalogFile     string           `json:"catalog_file"`
		UpstreamTimeout string           `json:"upstream_timeout"`
		ChromeTLS       bool             `json:"chrome_tls"`
		Secrets         registry.Secrets `json:"secrets"`
	}

	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	timeout := defaultTimeout
	if fileConfig.UpstreamTimeout != "" {
		timeout, err = time.ParseDuration(fileConfig.UpstreamTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid upstream_timeout: %w", err)
		}
	}

	cfg := &Config{
		Port:            withDefault(fileConfig.Port, defaultPort),
		Environment:     withDefault(fileConfig.Environment, "development"),
		LogLevel:        withDefault(fileConfig.LogLevel, "info"),
		Settings:        fileConfig.Settings,
		CatalogFile:     fileConfig.CatalogFile,
		UpstreamTimeout: timeout,
		ChromeTLS:       fileConfig.ChromeTLS,
		Secrets:         fileConfig.Secrets,
	}
	cfg.Settings.Backend = withDefault(cfg.Settings.Backend, BackendFile)
	cfg.Settings.Dir = withDefault(cfg.Settings.Dir, ".")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager fetches supplier secrets from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{secrets_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.SecretsID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Secrets); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}

	return nil
}

// loadFromEnv reads supplier secrets from individual environment variables.
// Used in development mode for local testing.
func (c *Config) loadFromEnv() {
	c.Secrets = registry.Secrets{
		ABCClientID:     os.Getenv("ABC_CLIENT_ID"),
		ABCClientSecret: os.Getenv("ABC_CLIENT_SECRET"),
		SRSClientID:     os.Getenv("SRS_CLIENT_ID"),
		SRSClientSecret: os.Getenv("SRS_CLIENT_SECRET"),
		BeaconUsername:  os.Getenv("BEACON_USERNAME"),
		BeaconPassword:  os.Getenv("BEACON_PASSWORD"),
		BeaconAPISiteID: os.Getenv("BEACON_API_SITE_ID"),
	}
}

// validate checks that the configuration is usable.
func (c *Config) validate() error {
	switch c.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("environment must be development or production, got %q", c.Environment)
	}

	switch c.Settings.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.Settings.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required for the redis settings backend")
		}
	default:
		return fmt.Errorf("settings backend must be file, memory or redis, got %q", c.Settings.Backend)
	}

	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}

	return nil
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func durationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
