package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole application configuration,
// populated from environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	QC       QCConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

// QCConfig drives the review policy: approval threshold, the retry budget
// for conflicting submissions, and the required checklist items per asset
// category. Checklists are configuration, never hardcoded per asset.
type QCConfig struct {
	ApprovalThreshold int
	MinScore          int
	MaxScore          int
	SubmitMaxRetries  int
	Checklists        map[string][]string
}

// defaultChecklists is the built-in category -> required items mapping.
// Override with QC_CHECKLISTS (JSON object of category to item array).
var defaultChecklists = map[string][]string{
	"article": {"headline", "body_copy", "seo_meta", "brand_tone"},
	"image":   {"resolution", "brand_colors", "licensing"},
	"video":   {"duration", "captions", "licensing", "brand_intro"},
	"banner":  {"dimensions", "copy_length", "cta_present"},
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Marketing Asset API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "marketing_assets"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		QC: QCConfig{
			ApprovalThreshold: getEnvInt("QC_APPROVAL_THRESHOLD", 70),
			MinScore:          0,
			MaxScore:          100,
			SubmitMaxRetries:  getEnvInt("QC_SUBMIT_MAX_RETRIES", 3),
			Checklists:        defaultChecklists,
		},
	}

	if raw := os.Getenv("QC_CHECKLISTS"); raw != "" {
		checklists := map[string][]string{}
		if err := json.Unmarshal([]byte(raw), &checklists); err != nil {
			return nil, fmt.Errorf("invalid QC_CHECKLISTS: %w", err)
		}
		cfg.QC.Checklists = checklists
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for values that would misbehave at runtime.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	if c.QC.ApprovalThreshold < c.QC.MinScore || c.QC.ApprovalThreshold > c.QC.MaxScore {
		return fmt.Errorf("QC_APPROVAL_THRESHOLD must be within [%d,%d]", c.QC.MinScore, c.QC.MaxScore)
	}

	if len(c.QC.Checklists) == 0 {
		return fmt.Errorf("QC checklists must define at least one category")
	}
	for category, items := range c.QC.Checklists {
		if len(items) == 0 {
			return fmt.Errorf("QC checklist for category %q is empty", category)
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
