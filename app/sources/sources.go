// Package sources holds the feed registry: the static list of syndication
// endpoints the harvester polls, each tagged with a category.
package sources

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var defaultRegistry []byte

type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

type registry struct {
	Sources []Source `yaml:"sources"`
}

// Load returns the feed registry. With an empty path the built-in registry is
// used; otherwise the YAML file at path replaces it entirely.
func Load(path string) ([]Source, error) {
	data := defaultRegistry
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read sources file: %w", err)
		}
		data = fileData
	}

	var reg registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse sources YAML: %w", err)
	}

	if len(reg.Sources) == 0 {
		return nil, fmt.Errorf("no feed sources defined")
	}

	for i, src := range reg.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("source at index %d has no name", i)
		}
		if src.URL == "" {
			return nil, fmt.Errorf("source %q has no url", src.Name)
		}
		if src.Category == "" {
			return nil, fmt.Errorf("source %q has no category", src.Name)
		}
	}

	return reg.Sources, nil
}
