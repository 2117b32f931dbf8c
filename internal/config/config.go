// Package config loads the run configuration. Scoring knobs live here and
// are handed to the matcher/comparator constructors explicitly, never read
// from ambient state, so side-by-side runs with different thresholds stay
// reproducible.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"notegrader/internal/codes"
)

const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"

	DefaultConfigPath = "notegrader.yaml"
)

type Config struct {
	// AI settings, used by the generate command only.
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`

	// Evaluation settings.
	Parallelism              int     `yaml:"parallelism"`
	AssetSimilarityThreshold float64 `yaml:"asset_similarity_threshold"`
	DowntimeToleranceHours   float64 `yaml:"downtime_tolerance_hours"`

	// Paths.
	ExpectedPath  string `yaml:"expected_path"`
	GeneratedPath string `yaml:"generated_path"`
	CatalogPath   string `yaml:"catalog_path"`
	OutRoot       string `yaml:"out_root"`
}

func Default() Config {
	return Config{
		Provider:                 ProviderClaude,
		Temperature:              0.2,
		Parallelism:              4,
		AssetSimilarityThreshold: 0.8,
		DowntimeToleranceHours:   0.01,
		OutRoot:                  ".notegrader",
	}
}

// Load reads a YAML config file over the defaults. A missing file is fine
// when path is the default location; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != "" && path != DefaultConfigPath
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, codes.Newf(codes.ErrConfigInvalid, "invalid config yaml %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Provider != "" && c.Provider != ProviderClaude && c.Provider != ProviderGemini {
		return codes.Newf(codes.ErrConfigInvalid, "provider must be %q or %q, got %q", ProviderClaude, ProviderGemini, c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return codes.Newf(codes.ErrConfigInvalid, "temperature must be in [0,1], got %v", c.Temperature)
	}
	if c.Parallelism < 1 {
		return codes.Newf(codes.ErrConfigInvalid, "parallelism must be >= 1, got %d", c.Parallelism)
	}
	if c.AssetSimilarityThreshold <= 0 || c.AssetSimilarityThreshold > 1 {
		return codes.Newf(codes.ErrConfigInvalid, "asset_similarity_threshold must be in (0,1], got %v", c.AssetSimilarityThreshold)
	}
	if c.DowntimeToleranceHours < 0 {
		return codes.Newf(codes.ErrConfigInvalid, "downtime_tolerance_hours must be >= 0, got %v", c.DowntimeToleranceHours)
	}
	return nil
}

// APIKey resolves the provider API key from the environment, loading a
// local .env first when present.
func APIKey(provider string) (string, error) {
	_ = godotenv.Load()

	var envVar string
	switch provider {
	case ProviderClaude:
		envVar = "CLAUDE_API_KEY"
	case ProviderGemini:
		envVar = "GEMINI_API_KEY"
	default:
		return "", codes.Newf(codes.ErrConfigInvalid, "unsupported provider %q", provider)
	}

	key := strings.TrimSpace(os.Getenv(envVar))
	if key == "" {
		return "", codes.Newf(codes.ErrConfigInvalid, "%s not set", envVar)
	}
	return key, nil
}
