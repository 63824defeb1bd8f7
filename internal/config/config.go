package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Worker   WorkerConfig
	Sources  SourcesConfig
	Upstream UpstreamConfig
	Model    ModelConfig
	OpenAI   OpenAIConfig
	DB       DatabaseConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	RateLimitRPS int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

// SourcesConfig holds the disaster feeds polled into the disaster store.
type SourcesConfig struct {
	FEMAEnabled       bool
	FEMAURL           string
	FEMAPollInterval  time.Duration
	FEMALimit         int
	GDACSEnabled      bool
	GDACSURL          string
	GDACSPollInterval time.Duration
	USGSEnabled       bool
	USGSURL           string
	USGSPollInterval  time.Duration
}

// UpstreamConfig holds the per-request lookups made while scoring.
type UpstreamConfig struct {
	WQPURL           string
	WQPRadiusMiles   float64
	OverpassURL      string
	WaterSourceLimit int
	CacheTTL         time.Duration
	Timeout          time.Duration
}

type ModelConfig struct {
	MinTrainingSamples int
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

// Enabled reports whether an API key is configured.
func (o OpenAIConfig) Enabled() bool {
	return o.APIKey != ""
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 10),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 50),
		},
		Sources: SourcesConfig{
			FEMAEnabled:       getEnvBool("FEMA_ENABLED", true),
			FEMAURL:           getEnv("FEMA_URL", "https://www.fema.gov/api/open/v2/DisasterDeclarationsSummaries"),
			FEMAPollInterval:  getEnvDuration("FEMA_POLL_INTERVAL", 30*time.Minute),
			FEMALimit:         getEnvInt("FEMA_LIMIT", 200),
			GDACSEnabled:      getEnvBool("GDACS_ENABLED", true),
			GDACSURL:          getEnv("GDACS_URL", "https://www.gdacs.org/xml/rss.xml"),
			GDACSPollInterval: getEnvDuration("GDACS_POLL_INTERVAL", 10*time.Minute),
			USGSEnabled:       getEnvBool("USGS_ENABLED", false),
			USGSURL:           getEnv("USGS_URL", "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/4.5_week.geojson"),
			USGSPollInterval:  getEnvDuration("USGS_POLL_INTERVAL", 15*time.Minute),
		},
		Upstream: UpstreamConfig{
			WQPURL:           getEnv("WQP_URL", "https://www.waterqualitydata.us/wqx3"),
			WQPRadiusMiles:   getEnvFloat("WQP_RADIUS_MILES", 15),
			OverpassURL:      getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			WaterSourceLimit: getEnvInt("WATER_SOURCE_LIMIT", 10),
			CacheTTL:         getEnvDuration("CACHE_TTL", 24*time.Hour),
			Timeout:          getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		},
		Model: ModelConfig{
			MinTrainingSamples: getEnvInt("MIN_TRAINING_SAMPLES", 10),
		},
		OpenAI: OpenAIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		DB: DatabaseConfig{
			Path: os.Getenv("DB_PATH"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per second")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}

	if c.Sources.FEMAPollInterval < time.Minute {
		return fmt.Errorf("FEMA poll interval must be at least 1 minute")
	}
	if c.Sources.GDACSPollInterval < time.Minute {
		return fmt.Errorf("GDACS poll interval must be at least 1 minute")
	}
	if c.Sources.USGSPollInterval < time.Minute {
		return fmt.Errorf("USGS poll interval must be at least 1 minute")
	}
	if c.Sources.FEMALimit < 1 || c.Sources.FEMALimit > 1000 {
		return fmt.Errorf("FEMA limit must be between 1 and 1000")
	}

	if c.Upstream.WQPRadiusMiles <= 0 {
		return fmt.Errorf("WQP radius must be positive")
	}
	if c.Upstream.WaterSourceLimit < 1 {
		return fmt.Errorf("water source limit must be at least 1")
	}
	if c.Upstream.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive")
	}

	if c.Model.MinTrainingSamples < 3 {
		return fmt.Errorf("at least 3 training samples are required, got %d", c.Model.MinTrainingSamples)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
