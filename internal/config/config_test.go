package config

import (
	"os"
	"testing"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars()

	// Set only required env var (password has no default)
	os.Setenv("DB_PASSWORD", "testpass")
	defer os.Unsetenv("DB_PASSWORD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.App.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.App.Env)
	}
	if cfg.App.DataDir != "./api_data" {
		t.Errorf("Expected data dir ./api_data, got %s", cfg.App.DataDir)
	}
	if cfg.App.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.App.Workers)
	}
	if cfg.App.FetchOnStart {
		t.Error("Expected fetch on start disabled by default")
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected host localhost, got %s", cfg.Database.Host)
	}
	if cfg.Database.Port != "5432" {
		t.Errorf("Expected port 5432, got %s", cfg.Database.Port)
	}
	if cfg.Database.PoolMin != 2 {
		t.Errorf("Expected pool min 2, got %d", cfg.Database.PoolMin)
	}
	if cfg.Database.PoolMax != 10 {
		t.Errorf("Expected pool max 10, got %d", cfg.Database.PoolMax)
	}
	if cfg.BDL.BaseURL != "https://ogcapi.bdl.lasy.gov.pl/collections/" {
		t.Errorf("Unexpected BDL base URL: %s", cfg.BDL.BaseURL)
	}
	if cfg.BDL.PageLimit != 1000 {
		t.Errorf("Expected page limit 1000, got %d", cfg.BDL.PageLimit)
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()

	os.Setenv("ENV", "production")
	os.Setenv("DATA_DIR", "/srv/rdlp/data")
	os.Setenv("WORKERS", "8")
	os.Setenv("FETCH_ON_START", "true")
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PORT", "5433")
	os.Setenv("DB_NAME", "rdlp")
	os.Setenv("DB_USER", "ingest")
	os.Setenv("DB_PASSWORD", "secret")
	os.Setenv("DB_POOL_MIN", "5")
	os.Setenv("DB_POOL_MAX", "20")
	os.Setenv("BDL_PAGE_LIMIT", "500")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.App.Env)
	}
	if cfg.App.DataDir != "/srv/rdlp/data" {
		t.Errorf("Expected data dir /srv/rdlp/data, got %s", cfg.App.DataDir)
	}
	if cfg.App.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", cfg.App.Workers)
	}
	if !cfg.App.FetchOnStart {
		t.Error("Expected fetch on start enabled")
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Expected host db.internal, got %s", cfg.Database.Host)
	}
	if cfg.Database.PoolMax != 20 {
		t.Errorf("Expected pool max 20, got %d", cfg.Database.PoolMax)
	}
	if cfg.BDL.PageLimit != 500 {
		t.Errorf("Expected page limit 500, got %d", cfg.BDL.PageLimit)
	}
}

func TestLoad_MissingPassword(t *testing.T) {
	clearConfigEnvVars()

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error when DB_PASSWORD is missing")
	}
}

func TestValidate_PoolBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Database.PoolMin = 10
	cfg.Database.PoolMax = 5

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error when pool min exceeds pool max")
	}
}

func TestValidate_Workers(t *testing.T) {
	cfg := validConfig()
	cfg.App.Workers = 0

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error when workers is zero")
	}
}

func TestValidate_PageLimit(t *testing.T) {
	cfg := validConfig()
	cfg.BDL.PageLimit = 0

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error when page limit is zero")
	}
}

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Env:     "test",
			DataDir: "./api_data",
			Workers: 4,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			Name:     "postgres",
			User:     "postgres",
			Password: "postgres",
			PoolMin:  2,
			PoolMax:  10,
		},
		BDL: BDLConfig{
			BaseURL:   "https://ogcapi.bdl.lasy.gov.pl/collections/",
			PageLimit: 1000,
		},
	}
}

func clearConfigEnvVars() {
	vars := []string{
		"ENV", "DATA_DIR", "WORKERS", "FETCH_ON_START",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_POOL_MIN", "DB_POOL_MAX",
		"BDL_BASE_URL", "BDL_PAGE_LIMIT",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}
