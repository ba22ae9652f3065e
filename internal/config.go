package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/jrmart12/nayos/internal/delivery"
	"github.com/jrmart12/nayos/internal/storage"
)

// Config is the process configuration, sourced from the environment with an
// optional .env file for development.
type Config struct {
	Env      string
	LogLevel string
	Port     uint16

	// DatabaseURL enables the Postgres snapshot store. Empty means the
	// file-backed store at SnapshotPath is used instead.
	DatabaseURL  string
	SnapshotPath string

	// CatalogPath is the JSON menu export served by the catalog.
	CatalogPath string

	// SettingsPath is the optional merchant settings file (phone, banks,
	// navigation). Missing file means built-in defaults.
	SettingsPath string

	// ClearCartOnHandoff empties the cart after the order handoff link is
	// produced. Off by default so a customer can resend a lost order.
	ClearCartOnHandoff bool

	Delivery delivery.PriceConfig
	Storage  storage.Config
}

// NewConfig loads configuration from the environment. A .env file in the
// working directory or up to two parents is loaded first when present.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:          getEnv("ENV", "dev"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnvInt("PORT", 3000),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "./data/snapshots"),
		CatalogPath:  getEnv("CATALOG_PATH", "./data/menu.json"),
		SettingsPath: getEnv("SETTINGS_PATH", "./data/settings.yaml"),

		ClearCartOnHandoff: getEnvBool("CLEAR_CART_ON_HANDOFF", false),

		Delivery: delivery.PriceConfig{
			InsideCents:  getEnvInt64("DELIVERY_INSIDE_CENTS", delivery.DefaultPrices.InsideCents),
			OutsideCents: getEnvInt64("DELIVERY_OUTSIDE_CENTS", delivery.DefaultPrices.OutsideCents),
			ManualCents:  getEnvInt64("DELIVERY_MANUAL_CENTS", delivery.DefaultPrices.ManualCents),
		},
		Storage: storage.Config{
			Provider:      getEnv("STORAGE_PROVIDER", "local"),
			LocalPath:     getEnv("LOCAL_STORAGE_PATH", "./data/uploads"),
			LocalURL:      getEnv("LOCAL_STORAGE_URL", "/uploads"),
			R2AccountID:   getEnv("R2_ACCOUNT_ID", ""),
			R2AccessKeyID: getEnv("R2_ACCESS_KEY_ID", ""),
			R2SecretKey:   getEnv("R2_SECRET_ACCESS_KEY", ""),
			R2BucketName:  getEnv("R2_BUCKET_NAME", ""),
			R2PublicURL:   getEnv("R2_PUBLIC_URL", ""),
		},
	}

	if cfg.Env != "dev" && cfg.Env != "prod" {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Env == "prod" && cfg.Storage.Provider == "r2" {
		if cfg.Storage.R2AccountID == "" {
			return nil, fmt.Errorf("R2_ACCOUNT_ID required when using R2 storage in production")
		}
		if cfg.Storage.R2AccessKeyID == "" || cfg.Storage.R2SecretKey == "" {
			return nil, fmt.Errorf("R2 credentials required when using R2 storage in production")
		}
		if cfg.Storage.R2BucketName == "" {
			return nil, fmt.Errorf("R2_BUCKET_NAME required when using R2 storage in production")
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
		slog.Default().Warn("Invalid integer value. Using default", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		var intValue int64
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
		slog.Default().Warn("Invalid integer value. Using default", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch getEnv(key, "") {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultValue
}
