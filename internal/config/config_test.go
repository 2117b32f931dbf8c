package config

import (
	"os"
	"path/filepath"
	"testing"

	"notegrader/internal/codes"
)

func TestLoad_MissingDefaultPathUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_MissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	raw := `
provider: gemini
model: gemini-2.0-flash
temperature: 0.0
parallelism: 8
asset_similarity_threshold: 0.9
expected_path: data/expected.yaml
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Provider != ProviderGemini || cfg.Parallelism != 8 || cfg.AssetSimilarityThreshold != 0.9 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.DowntimeToleranceHours != Default().DowntimeToleranceHours {
		t.Fatalf("default lost: %+v", cfg)
	}
}

func TestValidate_Rejects(t *testing.T) {
	bad := []Config{
		func() Config { c := Default(); c.Provider = "openai"; return c }(),
		func() Config { c := Default(); c.Temperature = 1.5; return c }(),
		func() Config { c := Default(); c.Parallelism = 0; return c }(),
		func() Config { c := Default(); c.AssetSimilarityThreshold = 1.2; return c }(),
		func() Config { c := Default(); c.DowntimeToleranceHours = -1; return c }(),
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); !codes.Is(err, codes.ErrConfigInvalid) {
			t.Fatalf("config %d: expected %s, got: %v", i, codes.ErrConfigInvalid, err)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestAPIKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CLAUDE_API_KEY", "sk-test")
	key, err := APIKey(ProviderClaude)
	if err != nil {
		t.Fatalf("apikey: %v", err)
	}
	if key != "sk-test" {
		t.Fatalf("unexpected key %q", key)
	}

	t.Setenv("GEMINI_API_KEY", "")
	if _, err := APIKey(ProviderGemini); !codes.Is(err, codes.ErrConfigInvalid) {
		t.Fatalf("expected %s, got: %v", codes.ErrConfigInvalid, err)
	}
	if _, err := APIKey("openai"); !codes.Is(err, codes.ErrConfigInvalid) {
		t.Fatalf("expected %s, got: %v", codes.ErrConfigInvalid, err)
	}
}
