package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the user's keybinding configuration. Each section maps
// an action name to a comma-separated list of keys, e.g. "edit": "e,enter".
type Config struct {
	Version string            `json:"version"`
	Global  map[string]string `json:"global,omitempty"`
	Table   map[string]string `json:"table,omitempty"`
	Form    map[string]string `json:"form,omitempty"`
	Search  map[string]string `json:"search,omitempty"`
}

func (c *Config) sections() map[Context]map[string]string {
	return map[Context]map[string]string{
		ContextGlobal: c.Global,
		ContextTable:  c.Table,
		ContextForm:   c.Form,
		ContextSearch: c.Search,
	}
}

// LoadConfig loads keybinding configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", filepath.Base(path), err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// splitKeys parses "e, enter" into its keys
func splitKeys(list string) []string {
	var keys []string
	for _, k := range strings.Split(list, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// ApplyConfig applies user configuration to a registry. An action listed in
// a section loses its default keys in that context and gets the listed ones.
func ApplyConfig(registry *Registry, config *Config) error {
	for context, section := range config.sections() {
		for actionStr, keySpec := range section {
			action := Action(actionStr)
			if !IsKnownAction(action) {
				return fmt.Errorf("%s: unknown action %q", context, actionStr)
			}

			keys := splitKeys(keySpec)
			for _, key := range keys {
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("%s.%s: %w", context, actionStr, err)
				}
			}

			registry.Unbind(context, action)
			registry.RegisterMultiple(context, keys, action)
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybindings: %w", err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybindings: %w", err)
		}
	}

	return registry, nil
}

// ExportDefaults renders the default registry as a config, so users can see
// what can be customized
func ExportDefaults() *Config {
	registry := NewDefaultRegistry()
	config := &Config{Version: "1.0"}

	for context, target := range map[Context]*map[string]string{
		ContextGlobal: &config.Global,
		ContextTable:  &config.Table,
		ContextForm:   &config.Form,
		ContextSearch: &config.Search,
	} {
		section := make(map[string]string)
		for _, b := range registry.ListBindings(context) {
			if b.Context != context {
				continue
			}
			section[string(b.Action)] = strings.Join(registry.keysFor(context, b.Action), ",")
		}
		*target = section
	}

	return config
}
