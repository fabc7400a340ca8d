package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
)

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := LoadInto(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads the YAML file at path over cfg. Keys absent from the file
// keep their current value.
func LoadInto(cfg *Config, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	if err := Parse(cfg, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Parse decodes YAML data over cfg and records the keys it sets.
func Parse(cfg *Config, data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if len(doc.Content) == 0 {
		return ErrEmptyFile
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: top level must be a mapping", ErrInvalidYAML)
	}
	if err := root.Decode(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	keys := make(map[string]bool)
	collectKeys(root, "", keys)
	for key := range keys {
		cfg.SetSource(key, OriginFile)
	}

	if cfg.LegacyAuthentication != nil && !keys["xmla.authentication"] {
		cfg.XMLA.Authentication = *cfg.LegacyAuthentication
		cfg.SetSource("xmla.authentication", OriginFile)
	}
	return nil
}

// collectKeys records the dotted path of every scalar or sequence below node.
func collectKeys(node *yaml.Node, prefix string, keys map[string]bool) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if prefix != "" {
			key = prefix + "." + key
		}
		value := node.Content[i+1]
		if value.Kind == yaml.MappingNode {
			collectKeys(value, key, keys)
			continue
		}
		keys[key] = true
	}
}

// Resolve finds the configuration file to use: path when given, else
// <dataDir>/olapy-config.yml when it exists. It returns "" when there is
// none.
func Resolve(path, dataDir string) string {
	if path != "" {
		return path
	}
	candidate := filepath.Join(ExpandHome(dataDir), FileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ExpandPaths expands ~ in every path of cfg.
func (c *Config) ExpandPaths() {
	c.Log.File = ExpandHome(c.Log.File)
	c.Source.DataDir = ExpandHome(c.Source.DataDir)
}
