package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CLIConfig holds everything the commands need to reach the API. Values come
// from the config file, ITGLUE_* environment variables, or defaults, in
// ascending precedence of environment over file.
type CLIConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Email    string        `mapstructure:"email"`
	Password string        `mapstructure:"password"`
	BaseURL  string        `mapstructure:"base_url"`
	PageSize int           `mapstructure:"page_size"`
	Redis    string        `mapstructure:"redis"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// LoadConfig reads the CLI configuration. With an empty path it looks for
// $HOME/.itglue.yaml and silently falls back to defaults when none exists; a
// path given explicitly must exist.
func LoadConfig(path string) (*CLIConfig, error) {
	v := viper.New()

	v.SetDefault("page_size", 1000)
	v.SetDefault("cache_ttl", 5*time.Minute)

	v.SetEnvPrefix("ITGLUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so bind every key
	// explicitly for the env-only case.
	for _, key := range []string{"api_key", "email", "password", "base_url", "page_size", "redis", "cache_ttl"} {
		v.BindEnv(key)
	}

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".itglue")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.APIKey == "" && cfg.Email == "" {
		return nil, fmt.Errorf("no credentials configured: set api_key or email/password (or ITGLUE_API_KEY)")
	}

	return &cfg, nil
}
