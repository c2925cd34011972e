package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProviderEntry describes one configured provider instance in a
// provider-set file, the YAML analogue of a single factory.Create call.
type ProviderEntry struct {
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	Model       string   `yaml:"model"`
	BaseURL     string   `yaml:"base_url,omitempty"`
	APIKeyEnv   string   `yaml:"api_key_env,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// ProviderSet is a named collection of provider instances, letting an
// operator stand up several provider/model combinations from one file
// instead of repeating factory.Create calls in code.
type ProviderSet struct {
	Providers []ProviderEntry `yaml:"providers"`
}

// LoadProviderSet reads and parses a provider-set YAML file.
func LoadProviderSet(path string) (*ProviderSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading provider set %s: %w", path, err)
	}

	var set ProviderSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("config: parsing provider set %s: %w", path, err)
	}
	for i, p := range set.Providers {
		if p.Name == "" {
			return nil, fmt.Errorf("config: provider set %s: entry %d has no name", path, i)
		}
		if p.Kind == "" {
			return nil, fmt.Errorf("config: provider set %s: entry %q has no kind", path, p.Name)
		}
	}
	return &set, nil
}

// Lookup returns the entry with the given name, if present.
func (s *ProviderSet) Lookup(name string) (ProviderEntry, bool) {
	for _, p := range s.Providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderEntry{}, false
}
