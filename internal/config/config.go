// Package config is used to load the configuration file
package config

import (
	"fmt"
	"os"

	"github.com/blacktop/match/pkg/environ"
	"github.com/caarlos0/env/v8"
	"github.com/spf13/viper"
)

// environment variables read for defaults
var envKeys = []string{"HOME", "MATCH_KEYCHAIN", "MATCH_P12_PASSWORD"}

// Config is the configuration struct
type Config struct {
	// Keychain is the default keychain reference for imports.
	Keychain string `mapstructure:"keychain" env:"MATCH_KEYCHAIN" envDefault:"login.keychain"`
	// Home is the directory ~/Library/Keychains is resolved against.
	Home string `mapstructure:"home" env:"HOME"`
	// Password decrypts .p12 files; exports are normally unprotected.
	Password string `mapstructure:"password" env:"MATCH_P12_PASSWORD"`
}

func (c *Config) verify() error {
	if c.Keychain == "" {
		return fmt.Errorf("config: keychain must not be empty")
	}
	if c.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("config: failed to get user home directory: %v", err)
		}
		c.Home = home
	}
	return nil
}

// LoadConfig loads defaults from e, then applies the settings known to viper
// (config file, MATCH_* variables and bound flags).
func LoadConfig(e environ.Environment) (*Config, error) {
	vars := make(map[string]string, len(envKeys))
	for _, k := range envKeys {
		if v, ok := e.Get(k); ok {
			vars[k] = v
		}
	}

	c := &Config{}
	if err := env.ParseWithOptions(c, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment: %v", err)
	}

	if err := viper.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return c, nil
}
