// Package config loads client configuration and builds the logger.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the client configuration.
type Config struct {
	BaseURL string `mapstructure:"base_url"`
	DataDir string `mapstructure:"data_dir"`
}

// StorePath returns the path of the local key-value database.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "athenaeum.db")
}

// Load reads configuration from file and environment variables.
// When configPath is empty, athenaeum.yaml is searched in the working
// directory, ./configs, and ~/.config/athenaeum.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("api.base_url", "http://localhost:7999")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("data.dir", defaultDataDir())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("athenaeum")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "athenaeum"))
		}
	}

	// Environment variable support: ATHENAEUM_API_BASE_URL=...
	v.SetEnvPrefix("ATHENAEUM")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("read config %q: %w", configPath, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file found; defaults and env apply.
	}

	return v, nil
}

// Client extracts the client Config from a loaded Viper instance.
func Client(v *viper.Viper) *Config {
	return &Config{
		BaseURL: v.GetString("api.base_url"),
		DataDir: v.GetString("data.dir"),
	}
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "athenaeum")
	}
	return "."
}
