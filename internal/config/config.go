package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64
	MaxBatchSize       int
	AnalysisWorkers    int
	AllowedHosts       []string
	AzureAccountName   string
	AzureAccountKey    string
	LogLevel           string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// BlobStorageEnabled reports whether Azure credentials were supplied
func (c *Config) BlobStorageEnabled() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

// LoadFromEnv reads the configuration from the environment. When ENV_FILE is
// set, that file is loaded first; variables already present in the
// environment take precedence over it.
func LoadFromEnv() (*Config, error) {
	if path := strings.TrimSpace(os.Getenv("ENV_FILE")); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load env file %q: %w", path, err)
		}
	}

	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:    parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		MaxBatchSize:       int(parseIntOrDefault("MAX_BATCH_SIZE", 16)),
		AnalysisWorkers:    int(parseIntOrDefault("ANALYSIS_WORKERS", 0)),
		AllowedHosts:       parseListOrDefault("ALLOWED_HOSTS"),
		AzureAccountName:   strings.TrimSpace(os.Getenv("AZURE_STORAGE_ACCOUNT")),
		AzureAccountKey:    strings.TrimSpace(os.Getenv("AZURE_STORAGE_KEY")),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.MaxBatchSize <= 0 {
		return nil, fmt.Errorf("MAX_BATCH_SIZE must be > 0 (got %d)", cfg.MaxBatchSize)
	}
	if cfg.AnalysisWorkers < 0 {
		return nil, fmt.Errorf("ANALYSIS_WORKERS must be >= 0 (got %d)", cfg.AnalysisWorkers)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 || cfg.AnalysisTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout, cfg.AnalysisTimeout)
	}
	if (cfg.AzureAccountName == "") != (cfg.AzureAccountKey == "") {
		return nil, fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseListOrDefault(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			items = append(items, item)
		}
	}
	return items
}
