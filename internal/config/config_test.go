package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("KITLOG_API_KEY", "test-key")
	t.Setenv("KITLOG_BASE_URL", "https://eval.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Evaluation.APIKey != "test-key" {
		t.Fatalf("APIKey = %q", cfg.Evaluation.APIKey)
	}
	if cfg.Evaluation.BaseURL != "https://eval.example.com" {
		t.Fatalf("BaseURL = %q", cfg.Evaluation.BaseURL)
	}
	if cfg.Optimizer.PurchaseHorizonHours != 72 {
		t.Fatalf("expected default purchase horizon, got %d", cfg.Optimizer.PurchaseHorizonHours)
	}
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected ConfigError when no API key is set")
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	t.Setenv("KITLOG_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := []byte("evaluation:\n  base_url: https://eval.example.com\n  api_key: from-file\n")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Evaluation.APIKey != "from-file" {
		t.Fatalf("APIKey = %q", cfg.Evaluation.APIKey)
	}
}

func TestCatalogKitMetaUsesDefaults(t *testing.T) {
	cfg := Default()
	meta, err := cfg.Catalog.KitMeta()
	if err != nil {
		t.Fatalf("KitMeta: %v", err)
	}
	if meta[0].Cost != 500 || meta[0].WeightKG != 4 || meta[0].LeadTimeHours != 48 {
		t.Fatalf("unexpected FIRST class meta: %+v", meta[0])
	}
	if meta[3].Cost != 50 || meta[3].LeadTimeHours != 6 {
		t.Fatalf("unexpected ECONOMY class meta: %+v", meta[3])
	}
}

func TestCatalogKitMetaRejectsNonPositiveFields(t *testing.T) {
	cfg := Default()
	cfg.Catalog.KitClasses[0].Cost = 0
	if _, err := cfg.Catalog.KitMeta(); err == nil {
		t.Fatalf("expected ConfigError for non-positive kit class cost")
	}
}

func TestValidateRejectsInvertedHorizons(t *testing.T) {
	cfg := Default()
	cfg.Evaluation.APIKey = "k"
	cfg.Evaluation.BaseURL = "https://x"
	cfg.Optimizer.LoadHorizonHours = 100
	cfg.Optimizer.PurchaseHorizonHours = 10
	if err := cfg.validate(); err == nil {
		t.Fatalf("expected validation error for inverted horizons")
	}
}
