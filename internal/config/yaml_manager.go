package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/penwyp/gac/internal/errors"
	"gopkg.in/yaml.v3"
)

// Format represents the configuration file format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const yamlHeader = `# gac configuration
# Files listed here are committed on every save while 'gac watch' runs.
# Edit freely; a running watcher reloads this file.

`

// yamlConfigManager supports both JSON and YAML configuration files
type yamlConfigManager struct {
	configPath string
	format     Format
	mu         sync.Mutex
}

// NewYAMLConfigManager creates a config manager that supports both JSON and YAML
func NewYAMLConfigManager(configPath string) (Manager, error) {
	if configPath == "" {
		return nil, errors.New(errors.ErrTypeConfig, "config path cannot be empty")
	}

	return &yamlConfigManager{
		configPath: configPath,
		format:     formatFor(configPath),
	}, nil
}

// formatFor determines format based on extension; YAML unless .json.
func formatFor(configPath string) Format {
	if strings.ToLower(filepath.Ext(configPath)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Load loads the configuration file in either JSON or YAML format
func (m *yamlConfigManager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *yamlConfigManager) load() (*Config, error) {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err // Return the raw error for IsNotExist checks
		}
		return nil, errors.Wrap(errors.ErrTypeConfig, "failed to read config file", err)
	}

	config, err := m.decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTypeConfig, "failed to parse config", err).
			WithSuggestion(fmt.Sprintf("Check the syntax of %s", m.configPath))
	}
	if config.Files == nil {
		config.Files = []FileConfig{}
	}
	return config, nil
}

// decode tries the declared format first and the other one as fallback.
func (m *yamlConfigManager) decode(data []byte) (*Config, error) {
	var config Config
	switch m.format {
	case FormatJSON:
		if err := json.Unmarshal(data, &config); err != nil {
			config = Config{}
			if yamlErr := yaml.Unmarshal(data, &config); yamlErr == nil {
				return &config, nil
			}
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			config = Config{}
			if jsonErr := json.Unmarshal(data, &config); jsonErr == nil {
				return &config, nil
			}
			return nil, err
		}
	}
	return &config, nil
}

// Save saves the configuration file in the appropriate format
func (m *yamlConfigManager) Save(config *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(config)
}

func (m *yamlConfigManager) save(config *Config) error {
	var data []byte
	var err error

	switch m.format {
	case FormatJSON:
		data, err = json.MarshalIndent(config, "", "  ")
	default:
		data, err = yaml.Marshal(config)
		data = append([]byte(yamlHeader), data...)
	}
	if err != nil {
		return errors.Wrap(errors.ErrTypeConfig, "failed to marshal config", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrTypeConfig, "failed to create config directory", err)
	}

	// Atomic write: write to temp file then rename
	tmpFile := m.configPath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return errors.Wrap(errors.ErrTypeConfig, "failed to write temp config file", err)
	}

	if err := os.Rename(tmpFile, m.configPath); err != nil {
		os.Remove(tmpFile)
		return errors.Wrap(errors.ErrTypeConfig, "failed to save config file", err)
	}

	return nil
}

// CreateDefaultConfig creates a default configuration file
func (m *yamlConfigManager) CreateDefaultConfig() error {
	return m.Save(defaultConfig())
}

// loadOrDefault must be called with mu held.
func (m *yamlConfigManager) loadOrDefault() (*Config, error) {
	config, err := m.load()
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	return config, nil
}

// UpdateFile adds or replaces the entry for file.Path
func (m *yamlConfigManager) UpdateFile(file FileConfig) error {
	if file.Path == "" {
		return errors.ErrMissingParameter
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	config, err := m.loadOrDefault()
	if err != nil {
		return err
	}
	config.upsertFile(file)
	return m.save(config)
}

// RemoveFile drops the entry for path
func (m *yamlConfigManager) RemoveFile(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	config, err := m.loadOrDefault()
	if err != nil {
		return false, err
	}
	if !config.removeFile(path) {
		return false, nil
	}
	return true, m.save(config)
}
