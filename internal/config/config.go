package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP. Enable it only behind a proxy that overwrites those headers,
	// otherwise clients can pick their own rate limit key.
	TrustProxyHeaders bool

	// Artifacts
	ArtifactDir  string
	ModelFile    string
	EncoderFile  string
	ColumnsFile  string
	DatasetFile  string
	TargetColumn string

	// Optional warehouse source for the reference dataset
	DatasetPostgresURL string
	DatasetTable       string

	// Rate limiting (enabled when RedisURL is set)
	RedisURL           string
	RateLimitPerSecond int

	// Prediction
	BatchConcurrency int

	// Timeouts
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// Logging
	LogLevel string
	LogFile  string
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Load loads configuration from environment variables.
// It returns an error if a set value cannot be used safely.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),

		ArtifactDir:  getEnv("ARTIFACT_DIR", executableDir()),
		ModelFile:    getEnv("MODEL_FILE", "ra_model.json"),
		EncoderFile:  getEnv("ENCODER_FILE", "encoder.json"),
		ColumnsFile:  getEnv("COLUMNS_FILE", "model_columns.json"),
		DatasetFile:  getEnv("DATASET_FILE", "real_cric2.csv"),
		TargetColumn: getEnv("TARGET_COLUMN", "team1_win"),

		DatasetPostgresURL: getEnv("DATASET_POSTGRES_URL", ""),
		DatasetTable:       getEnv("DATASET_TABLE", ""),

		RedisURL:           getEnv("REDIS_URL", ""),
		RateLimitPerSecond: getEnvInt("RATE_LIMIT_PER_SECOND", 20),

		BatchConcurrency: getEnvInt("BATCH_CONCURRENCY", 4),

		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 1
	}

	if cfg.DatasetPostgresURL != "" {
		if cfg.DatasetTable == "" {
			return nil, fmt.Errorf("DATASET_TABLE is required when DATASET_POSTGRES_URL is set")
		}
		if !identifierRe.MatchString(cfg.DatasetTable) {
			return nil, fmt.Errorf("invalid DATASET_TABLE %q", cfg.DatasetTable)
		}
	}

	return cfg, nil
}

// Path resolves an artifact file name against ArtifactDir.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.ArtifactDir, name)
}

// IsProduction reports whether ENV selects production logging.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
