package mock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/moviecli/internal/types"
)

const (
	DefaultPort     = 5011
	DefaultHost     = "localhost"
	DefaultBasePath = "/api/movies"
)

// DefaultConfig returns a logging server on the default address with an empty collection
func DefaultConfig() *Config {
	return &Config{
		Port:     DefaultPort,
		Host:     DefaultHost,
		BasePath: DefaultBasePath,
		IDStyle:  IDStyleInt,
		Logging:  true,
	}
}

// LoadConfig loads a mock configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// validateConfig validates the mock configuration
func validateConfig(config *Config) error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}
	if config.BasePath != "" && !strings.HasPrefix(config.BasePath, "/") {
		return fmt.Errorf("basePath must start with '/'")
	}
	if config.IDStyle != "" && config.IDStyle != IDStyleInt && config.IDStyle != IDStyleUUID {
		return fmt.Errorf("idStyle must be '%s' or '%s'", IDStyleInt, IDStyleUUID)
	}
	if config.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}

	seen := make(map[types.MovieID]bool)
	for i, m := range config.Movies {
		if m.ID == "" {
			return fmt.Errorf("movie %d: id is required", i)
		}
		if seen[m.ID] {
			return fmt.Errorf("movie %d: duplicate id %s", i, m.ID)
		}
		seen[m.ID] = true
		if err := types.DraftFromMovie(m).Validate(); err != nil {
			return fmt.Errorf("movie %d: %w", i, err)
		}
	}

	return nil
}

// SaveConfig saves a mock configuration to a file
func SaveConfig(config *Config, path string) error {
	var data []byte
	var err error

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
