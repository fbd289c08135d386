// Package catalog holds the manifest configuration and the loaded
// provider/model view of a catalog repository.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StubConfig describes the minimal entry written for models that exist in
// pricing but not in general.
type StubConfig struct {
	MaxTokens    int      `yaml:"maxTokens"`
	Primary      string   `yaml:"primary"`
	Supported    []string `yaml:"supported"`
	RemoveParams []string `yaml:"removeParams"`
}

type Config struct {
	PricingDir string              `yaml:"pricingDir"`
	GeneralDir string              `yaml:"generalDir"`
	Reserved   []string            `yaml:"reserved"`
	Aliases    map[string][]string `yaml:"aliases"`
	Stub       StubConfig          `yaml:"stub"`
	Listen     string              `yaml:"listen"`
}

// DefaultConfig matches the behavior of the tool when no manifest is given:
// pricing/ and general/ side by side, the three reserved keys, and the
// openai pricing file fanning out to both spellings of its general file.
func DefaultConfig() Config {
	return Config{
		PricingDir: "pricing",
		GeneralDir: "general",
		Reserved:   []string{"name", "description", "default"},
		Aliases: map[string][]string{
			"openai": {"openai.json", "open-ai.json"},
		},
		Stub: StubConfig{
			MaxTokens:    64000,
			Primary:      "chat",
			Supported:    []string{"image", "pdf", "doc", "tools"},
			RemoveParams: []string{"top_p"},
		},
		Listen: ":8080",
	}
}

// LoadConfig reads a YAML manifest and overlays it on the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Config{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return mergeConfig(DefaultConfig(), overlay), nil
}

func mergeConfig(base, overlay Config) Config {
	merged := base

	merged.PricingDir = firstNonEmpty(overlay.PricingDir, base.PricingDir)
	merged.GeneralDir = firstNonEmpty(overlay.GeneralDir, base.GeneralDir)
	merged.Listen = firstNonEmpty(overlay.Listen, base.Listen)

	if len(overlay.Reserved) > 0 {
		merged.Reserved = overlay.Reserved
	}
	if len(overlay.Aliases) > 0 {
		merged.Aliases = overlay.Aliases
	}

	merged.Stub = mergeStub(base.Stub, overlay.Stub)

	return merged
}

func mergeStub(base, overlay StubConfig) StubConfig {
	merged := base
	if overlay.MaxTokens > 0 {
		merged.MaxTokens = overlay.MaxTokens
	}
	merged.Primary = firstNonEmpty(overlay.Primary, base.Primary)
	if len(overlay.Supported) > 0 {
		merged.Supported = overlay.Supported
	}
	if len(overlay.RemoveParams) > 0 {
		merged.RemoveParams = overlay.RemoveParams
	}
	return merged
}

// ReservedSet returns the reserved keys as a lookup set.
func (c Config) ReservedSet() map[string]bool {
	reserved := make(map[string]bool, len(c.Reserved))
	for _, key := range c.Reserved {
		reserved[key] = true
	}
	return reserved
}

func firstNonEmpty(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}
