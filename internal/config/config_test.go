package config

import (
	"os"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			DSN: "postgres://localhost:5432/products",
		},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDSN(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database dsn")
	}
}

func TestValidate_MissingModel(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			DSN: "postgres://localhost:5432/products",
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing embedding model")
	}
}

func TestValidate_NegativeDimensions(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			DSN: "postgres://localhost:5432/products",
		},
		Embedding: EmbeddingConfig{Model: "text-embedding-3-small", Dimensions: -1},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for negative dimensions")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Database.MaxOpenConns != 10 {
		t.Errorf("expected MaxOpenConns=10, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Search.TextLimit != 100 {
		t.Errorf("expected TextLimit=100, got %d", cfg.Search.TextLimit)
	}
	if cfg.Search.VectorLimit != 100 {
		t.Errorf("expected VectorLimit=100, got %d", cfg.Search.VectorLimit)
	}
	if cfg.Backfill.BatchSize != 100 {
		t.Errorf("expected BatchSize=100, got %d", cfg.Backfill.BatchSize)
	}
	if cfg.Index.HNSWM != 32 {
		t.Errorf("expected HNSWM=32, got %d", cfg.Index.HNSWM)
	}
	if cfg.Index.HNSWEFConstruct != 400 {
		t.Errorf("expected HNSWEFConstruct=400, got %d", cfg.Index.HNSWEFConstruct)
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("expected Provider='openai', got %q", cfg.Embedding.Provider)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15, MaxOpenConns: 50},
		Search:   SearchConfig{TextLimit: 10, VectorLimit: 20},
		Backfill: BackfillConfig{BatchSize: 500},
		Index:    IndexConfig{HNSWM: 16, HNSWEFConstruct: 200},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Search.TextLimit != 10 {
		t.Errorf("expected TextLimit=10, got %d", cfg.Search.TextLimit)
	}
	if cfg.Backfill.BatchSize != 500 {
		t.Errorf("expected BatchSize=500, got %d", cfg.Backfill.BatchSize)
	}
	if cfg.Index.HNSWM != 16 {
		t.Errorf("expected HNSWM=16, got %d", cfg.Index.HNSWM)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PRODSEARCH_TEST_DSN", "postgres://db:5432/products")
	os.Unsetenv("PRODSEARCH_TEST_UNSET")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "dsn: ${PRODSEARCH_TEST_DSN}", "dsn: postgres://db:5432/products"},
		{"unset variable", "key: ${PRODSEARCH_TEST_UNSET}", "key: "},
		{"unset with default", "port: ${PRODSEARCH_TEST_UNSET:-8080}", "port: 8080"},
		{"set ignores default", "dsn: ${PRODSEARCH_TEST_DSN:-fallback}", "dsn: postgres://db:5432/products"},
		{"no variables", "plain: value", "plain: value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(expandEnvVars([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
