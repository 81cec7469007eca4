// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"datalayer-extract/internal/extractor"
	"datalayer-extract/internal/loader"
	"datalayer-extract/internal/messages"
	"datalayer-extract/internal/paths"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the tagging document the tool was first written for
const DefaultFile = "RMCKBT-Web DataLayer Event Şablonu Entegrasyonu-150525-113355.pdf"

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		File     string `yaml:"file"`
		Mode     string `yaml:"mode"`
		Language string `yaml:"language"`
		NoColor  bool   `yaml:"no_color"`
		Debug    bool   `yaml:"debug"`
	} `yaml:"defaults"`

	// PDF loading
	Loader struct {
		Validate  bool   `yaml:"validate"`
		Normalize bool   `yaml:"normalize"`
		Layout    string `yaml:"layout"`
	} `yaml:"loader"`

	// Message overrides per language, keyed by message name
	Messages map[string]map[string]string `yaml:"messages"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Messages: make(map[string]map[string]string),
	}

	config.Defaults.File = DefaultFile
	config.Defaults.Mode = string(extractor.DefaultMode)
	config.Defaults.Language = messages.DefaultLanguage
	config.Defaults.NoColor = false
	config.Defaults.Debug = false

	defaults := loader.DefaultOptions()
	config.Loader.Validate = defaults.Validate
	config.Loader.Normalize = defaults.Normalize
	config.Loader.Layout = string(defaults.Layout)

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	defaultNormalize := config.Loader.Normalize

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// A bool missing from the file would otherwise unmarshal to false
	if !containsField(data, "loader", "normalize") {
		config.Loader.Normalize = defaultNormalize
	}
	if config.Messages == nil {
		config.Messages = make(map[string]map[string]string)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in the current directory,
// then in the user configuration directory
func FindConfigFile() string {
	for _, name := range []string{"datalayer.yaml", "datalayer.yml", ".datalayer-extract.yaml", ".datalayer-extract.yml"} {
		if fileExists(name) {
			return name
		}
	}

	if standardConfig := paths.GetConfigFile(); standardConfig != "" && fileExists(standardConfig) {
		return standardConfig
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// ValidateConfig checks every enumerated setting and the message table
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if _, err := extractor.ParseMode(config.Defaults.Mode); err != nil {
		return err
	}
	if _, err := loader.ParseLayout(config.Loader.Layout); err != nil {
		return err
	}
	if err := paths.ValidatePath(config.Defaults.File); err != nil {
		return fmt.Errorf("invalid default file: %w", err)
	}

	// Every language with overrides must resolve to a complete catalog
	if _, err := config.Catalog(config.Defaults.Language); err != nil {
		return err
	}
	for lang := range config.Messages {
		if _, err := config.Catalog(lang); err != nil {
			return err
		}
	}

	return nil
}

// Catalog builds the message catalog for lang, applying this config's overrides
func (c *Config) Catalog(lang string) (*messages.Catalog, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = messages.DefaultLanguage
	}
	return messages.New(lang, c.Messages[lang])
}

// LoaderOptions converts the loader block into loader.Options
func (c *Config) LoaderOptions() (loader.Options, error) {
	layout, err := loader.ParseLayout(c.Loader.Layout)
	if err != nil {
		return loader.Options{}, err
	}
	return loader.Options{
		Validate:  c.Loader.Validate,
		Normalize: c.Loader.Normalize,
		Layout:    layout,
	}, nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches
// standard locations when configFile is empty). If loading fails, it returns
// the default configuration together with the error so callers can warn.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
		return cfg, err
	}
	return cfg, nil
}
