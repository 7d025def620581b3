package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys
const EnvPrefix = "APPLESINGLE"

// Config holds the tool's configuration
type Config struct {
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	Mode         string `mapstructure:"mode" yaml:"mode"`
	Digest       bool   `mapstructure:"digest" yaml:"digest"`
	Concurrency  int    `mapstructure:"concurrency" yaml:"concurrency"`
	Compress     bool   `mapstructure:"compress" yaml:"compress"`
	Overwrite    bool   `mapstructure:"overwrite" yaml:"overwrite"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
}

// New returns a viper instance with defaults, the config file search path and
// environment overrides set up. An explicit file replaces the search path.
func New(file string) *viper.Viper {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("applesingle")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.applesingle")
		v.AddConfigPath("/etc/applesingle")
	}

	// Set defaults
	v.SetDefault("output_format", "table")
	v.SetDefault("mode", "stream")
	v.SetDefault("digest", true)
	v.SetDefault("concurrency", runtime.NumCPU())
	v.SetDefault("compress", false)
	v.SetDefault("overwrite", false)
	v.SetDefault("log_level", "")

	// Allow environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	return v
}

// Load reads the configuration file, if any, and returns the merged configuration
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.Mode {
	case "stream", "seek":
	default:
		return fmt.Errorf("invalid mode %q, use stream or seek", c.Mode)
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	return nil
}
