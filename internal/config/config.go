package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	ChronografURL     = "CHRONOGRAF_URL"
	ChronografToken   = "CHRONOGRAF_TOKEN"
	LogLevel          = "LOG_LEVEL"
	DeploymentMode    = "DEPLOYMENT_MODE"
	Port              = "PORT"
	ChronografRPS     = "CHRONOGRAF_RPS"
	TimeRangesFile    = "CHRONOGRAF_TIME_RANGES_FILE"
	OTLPEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
	SegmentWriteKey   = "SEGMENT_WRITE_KEY"
	ClientCacheSize   = "CLIENT_CACHE_SIZE"
	ModeLocal         = "local"
	ModeCloud         = "cloud"
	defaultPort       = "8000"
	defaultRPS        = 10.0
	defaultCacheSize  = 64
	defaultLogLevel   = "info"
	defaultDeployMode = ModeLocal
)

type Config struct {
	URL             string
	Token           string
	LogLevel        string
	DeploymentMode  string
	Port            string
	RPS             float64
	TimeRangesFile  string
	OTLPEndpoint    string
	SegmentWriteKey string
	ClientCacheSize int
}

func LoadConfig() (*Config, error) {
	url := os.Getenv(ChronografURL)
	if url == "" {
		return nil, fmt.Errorf("environment variable `%s` not set", ChronografURL)
	}

	cfg := &Config{
		URL:             url,
		Token:           os.Getenv(ChronografToken),
		LogLevel:        getEnv(LogLevel, defaultLogLevel),
		DeploymentMode:  getEnv(DeploymentMode, defaultDeployMode),
		Port:            getEnv(Port, defaultPort),
		RPS:             defaultRPS,
		TimeRangesFile:  os.Getenv(TimeRangesFile),
		OTLPEndpoint:    os.Getenv(OTLPEndpoint),
		SegmentWriteKey: os.Getenv(SegmentWriteKey),
		ClientCacheSize: defaultCacheSize,
	}

	if v := os.Getenv(ChronografRPS); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("environment variable `%s` must be a number: %w", ChronografRPS, err)
		}
		cfg.RPS = rps
	}

	if v := os.Getenv(ClientCacheSize); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("environment variable `%s` must be an integer: %w", ClientCacheSize, err)
		}
		cfg.ClientCacheSize = size
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("chronograf url is required")
	}
	if c.DeploymentMode != ModeLocal && c.DeploymentMode != ModeCloud {
		return fmt.Errorf("invalid deployment mode %q: use %q or %q", c.DeploymentMode, ModeLocal, ModeCloud)
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.RPS < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RPS)
	}
	if c.ClientCacheSize < 1 {
		return fmt.Errorf("client cache size must be positive, got %d", c.ClientCacheSize)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
