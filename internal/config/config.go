// Package config reads mistest's optional .mistest/config.yaml, supplying
// defaults for job count, color mode, and JUnit output path that CLI
// flags always override.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the mistest configuration.
type Config struct {
	Jobs   int          `mapstructure:"jobs"`
	Output OutputConfig `mapstructure:"output"`
}

// OutputConfig contains the sink's default rendering settings.
type OutputConfig struct {
	Immediate bool   `mapstructure:"immediate"`
	NoColor   bool   `mapstructure:"no_color"`
	JunitXML  string `mapstructure:"junit_xml"`
}

// Load reads the config from workspaceDir/.mistest/config.yaml, falling
// back to DefaultConfig if no such file exists.
func Load(workspaceDir string) (*Config, error) {
	configPath := filepath.Join(workspaceDir, ".mistest", "config.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// DefaultConfig returns a config with mistest's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Jobs: 1,
		Output: OutputConfig{
			Immediate: true,
			NoColor:   false,
			JunitXML:  "",
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Jobs == 0 {
		cfg.Jobs = defaults.Jobs
	}
}
