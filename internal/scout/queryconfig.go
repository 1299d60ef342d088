package scout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QueryConfig is an optional YAML file describing discovery query sets, for
// runs that should not derive everything from the preference profile.
//
//	languages: [Go, Rust]
//	topics: [cli, networking]
//	min_stars: 100
//	max_results: 15
type QueryConfig struct {
	Languages  []string `yaml:"languages"`
	Topics     []string `yaml:"topics"`
	MinStars   int      `yaml:"min_stars"`
	MaxResults int      `yaml:"max_results"`
}

// LoadQueryConfig reads a QueryConfig from path.
func LoadQueryConfig(path string) (*QueryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading discovery config: %w", err)
	}
	var cfg QueryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing discovery config: %w", err)
	}
	return &cfg, nil
}

// Options converts the config into discovery options.
func (c *QueryConfig) Options() Options {
	return Options{
		Languages:  c.Languages,
		Topics:     c.Topics,
		MinStars:   c.MinStars,
		MaxResults: c.MaxResults,
	}
}
