package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	BDL      BDLConfig
}

// AppConfig holds pipeline-level configuration.
type AppConfig struct {
	Env     string
	DataDir string
	// Workers bounds how many partition batches are loaded concurrently.
	Workers int
	// FetchOnStart pulls fresh pages from the BDL API before loading.
	FetchOnStart bool
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// BDLConfig holds upstream BDL OGC-API client configuration.
type BDLConfig struct {
	BaseURL   string
	PageLimit int
}

// Load reads configuration from environment variables. An optional .env
// file is merged in first; missing files are not an error. Viper provides
// sensible defaults for development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", "./api_data")
	v.SetDefault("WORKERS", 4)
	v.SetDefault("FETCH_ON_START", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "postgres")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("BDL_BASE_URL", "https://ogcapi.bdl.lasy.gov.pl/collections/")
	v.SetDefault("BDL_PAGE_LIMIT", 1000)

	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env:          v.GetString("ENV"),
			DataDir:      v.GetString("DATA_DIR"),
			Workers:      v.GetInt("WORKERS"),
			FetchOnStart: v.GetBool("FETCH_ON_START"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		BDL: BDLConfig{
			BaseURL:   v.GetString("BDL_BASE_URL"),
			PageLimit: v.GetInt("BDL_PAGE_LIMIT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.App.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.App.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	if c.BDL.BaseURL == "" {
		return fmt.Errorf("BDL_BASE_URL is required")
	}
	if c.BDL.PageLimit < 1 {
		return fmt.Errorf("BDL_PAGE_LIMIT must be at least 1")
	}

	return nil
}
