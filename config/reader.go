package config

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go.viam.com/pickplace/logging"
)

// Read reads a config from the given file. Environment variables in the file are expanded.
func Read(filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies where, if applicable, the file
// the reader originated from. Files ending in .yaml or .yml are read as YAML, anything else as
// JSON.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(originalPath)) {
	case ".yaml", ".yml":
		if data, err = yamlToJSON(data); err != nil {
			return nil, errors.Wrap(err, "failed to decode Config from yaml")
		}
	}

	cfg := Config{ConfigFilePath: originalPath}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode Config from json")
	}
	if err := processConfig(&cfg, logger); err != nil {
		return nil, errors.Wrap(err, "failed to process Config")
	}
	return &cfg, nil
}

// yamlToJSON re-encodes a YAML document as JSON so the json tags stay the single source of
// field names.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return json.Marshal(doc)
}

func processConfig(cfg *Config, logger logging.Logger) error {
	if cfg.ConfigFilePath != "" {
		dir := filepath.Dir(cfg.ConfigFilePath)
		for i := range cfg.Environment.Manipulators {
			m := &cfg.Environment.Manipulators[i]
			if m.ModelFile != "" && !filepath.IsAbs(m.ModelFile) {
				m.ModelFile = filepath.Join(dir, m.ModelFile)
			}
		}
	}
	if err := cfg.Ensure(); err != nil {
		return err
	}
	logger.Debugw("read config",
		"path", cfg.ConfigFilePath,
		"manipulators", len(cfg.Environment.Manipulators),
		"pick", cfg.Pick != nil,
		"place", cfg.Place != nil)
	return nil
}
