package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

type Config struct {
	Port            int    `yaml:"port"`
	DataDir         string `yaml:"data_dir"`
	MaxUploadSizeMB int    `yaml:"max_upload_size_mb"`
	Storage         string `yaml:"storage"`
	Workers         int    `yaml:"workers"`
	LogLevel        string `yaml:"log_level"`
	BehindProxy     bool   `yaml:"behind_proxy"`
	APITokenHash    string `yaml:"api_token_hash"`

	STT       STTConfig       `yaml:"stt"`
	Chunk     ChunkConfig     `yaml:"chunk"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type STTConfig struct {
	APIKey        string        `yaml:"api_key"`
	BaseURL       string        `yaml:"base_url"`
	Model         string        `yaml:"model"`
	AnalysisModel string        `yaml:"analysis_model"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
}

type ChunkConfig struct {
	DurationSec float64 `yaml:"duration_sec"`
	OverlapSec  float64 `yaml:"overlap_sec"`
}

type RateLimitConfig struct {
	STTMax        int           `yaml:"stt_max"`
	STTWindow     time.Duration `yaml:"stt_window"`
	AnalyzeMax    int           `yaml:"analyze_max"`
	AnalyzeWindow time.Duration `yaml:"analyze_window"`
}

// Default returns the configuration used when neither a file nor the
// environment sets a value.
func Default() *Config {
	return &Config{
		Port:            7890,
		DataDir:         "/data",
		MaxUploadSizeMB: 3072,
		Storage:         StorageJSON,
		Workers:         2,
		LogLevel:        "info",
		STT: STTConfig{
			BaseURL:       "https://api.groq.com/openai/v1",
			Model:         "whisper-large-v3",
			AnalysisModel: "openai/gpt-oss-120b",
			Timeout:       10 * time.Minute,
		},
		Chunk: ChunkConfig{
			DurationSec: 480,
			OverlapSec:  10,
		},
		RateLimit: RateLimitConfig{
			STTMax:        20,
			STTWindow:     time.Minute,
			AnalyzeMax:    10,
			AnalyzeWindow: time.Hour,
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE if set, then environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error

	if c.Port, err = envInt("PORT", c.Port); err != nil {
		return err
	}
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	if c.MaxUploadSizeMB, err = envInt("MAX_UPLOAD_SIZE_MB", c.MaxUploadSizeMB); err != nil {
		return err
	}
	c.Storage = strings.ToLower(getEnv("STORAGE", c.Storage))
	if c.Workers, err = envInt("WORKERS", c.Workers); err != nil {
		return err
	}
	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	if c.BehindProxy, err = envBool("BEHIND_PROXY", c.BehindProxy); err != nil {
		return err
	}
	c.APITokenHash = getEnv("API_TOKEN_HASH", c.APITokenHash)

	// GROQ_API_KEY is accepted for deployments configured for the hosted
	// Groq endpoint; STT_API_KEY wins when both are set.
	c.STT.APIKey = getEnv("STT_API_KEY", getEnv("GROQ_API_KEY", c.STT.APIKey))
	c.STT.BaseURL = getEnv("STT_BASE_URL", c.STT.BaseURL)
	c.STT.Model = getEnv("STT_MODEL", c.STT.Model)
	c.STT.AnalysisModel = getEnv("ANALYSIS_MODEL", c.STT.AnalysisModel)
	if c.STT.Timeout, err = envDuration("STT_TIMEOUT", c.STT.Timeout); err != nil {
		return err
	}
	if c.STT.MaxRetries, err = envInt("STT_MAX_RETRIES", c.STT.MaxRetries); err != nil {
		return err
	}

	if c.Chunk.DurationSec, err = envFloat("CHUNK_DURATION_SEC", c.Chunk.DurationSec); err != nil {
		return err
	}
	if c.Chunk.OverlapSec, err = envFloat("CHUNK_OVERLAP_SEC", c.Chunk.OverlapSec); err != nil {
		return err
	}

	if c.RateLimit.STTMax, err = envInt("STT_RATE_LIMIT_MAX", c.RateLimit.STTMax); err != nil {
		return err
	}
	if c.RateLimit.STTWindow, err = envDuration("STT_RATE_LIMIT_WINDOW", c.RateLimit.STTWindow); err != nil {
		return err
	}
	if c.RateLimit.AnalyzeMax, err = envInt("ANALYZE_RATE_LIMIT_MAX", c.RateLimit.AnalyzeMax); err != nil {
		return err
	}
	if c.RateLimit.AnalyzeWindow, err = envDuration("ANALYZE_RATE_LIMIT_WINDOW", c.RateLimit.AnalyzeWindow); err != nil {
		return err
	}
	return nil
}

// Validate checks the config for invalid values. Chunk settings are not
// checked here; the planner falls back to its defaults for unusable ones.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("max_upload_size_mb must be > 0")
	}
	switch c.Storage {
	case StorageJSON, StorageSQLite:
	default:
		return fmt.Errorf("storage must be %q or %q, got %q", StorageJSON, StorageSQLite, c.Storage)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}
	if c.STT.MaxRetries < 0 {
		return fmt.Errorf("stt.max_retries must be >= 0")
	}
	if c.RateLimit.STTMax <= 0 || c.RateLimit.STTWindow <= 0 {
		return fmt.Errorf("stt rate limit must allow at least one request per positive window")
	}
	if c.RateLimit.AnalyzeMax <= 0 || c.RateLimit.AnalyzeWindow <= 0 {
		return fmt.Errorf("analyze rate limit must allow at least one request per positive window")
	}
	return nil
}

// MaxUploadSize returns the upload limit in bytes.
func (c *Config) MaxUploadSize() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, defaultValue float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func envBool(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
