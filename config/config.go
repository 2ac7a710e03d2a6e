package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the refine tool.
type Config struct {
	Decay     DecayConfig     `yaml:"decay"`
	Diversity DiversityConfig `yaml:"diversity"`
	Index     IndexConfig     `yaml:"index"`
	// BaseDir resolves relative result paths during mod-time lookups.
	// Empty means the directory the tool runs against.
	BaseDir string `yaml:"base_dir"`
}

// DecayConfig controls the temporal decay stage.
type DecayConfig struct {
	Enabled      bool    `yaml:"enabled"`
	HalfLifeDays float64 `yaml:"half_life_days"`
}

// DiversityConfig controls the MMR diversity reranking stage.
type DiversityConfig struct {
	Enabled bool    `yaml:"enabled"`
	Lambda  float64 `yaml:"lambda"`
}

// IndexConfig controls which files the mod-time index covers.
type IndexConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// DefaultConfig returns the default configuration. Both stages are off by
// default so the pipeline degrades to returning results unchanged.
func DefaultConfig() *Config {
	return &Config{
		Decay: DecayConfig{
			Enabled:      false,
			HalfLifeDays: 30,
		},
		Diversity: DiversityConfig{
			Enabled: false,
			Lambda:  0.7,
		},
		Index: IndexConfig{
			Includes: []string{"**/*"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/.refine/**"},
		},
	}
}

// Load loads configuration from a YAML file, merged over defaults.
// Unrecognized keys are ignored.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for refine.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "refine.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".refine", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MTimeIndexPath returns the path to the mod-time index database.
func MTimeIndexPath(dir string) string {
	return filepath.Join(dir, ".refine", "mtimes.db")
}

// EnsureRefineDir ensures the .refine directory exists.
func EnsureRefineDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".refine"), 0755)
}
