package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the optional .docsync.yml project configuration. Flags win over
// config values; config values win over built-in defaults.
type Config struct {
	Harvest struct {
		Root    string            `yaml:"root"`
		Out     string            `yaml:"out"`
		Aliases map[string]string `yaml:"aliases"`
	} `yaml:"harvest"`
	Apply struct {
		Store string `yaml:"store"`
		Root  string `yaml:"root"`
		Lang  string `yaml:"lang"`
	} `yaml:"apply"`
}

const defaultConfigFile = ".docsync.yml"

// loadConfig reads path, or the default config file when path is empty. A
// missing default file is not an error; a missing explicit file is.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
