// Package config loads validator-wide settings via viper: search the
// working directory, a config/ subdirectory, and the usual per-user and
// system locations for an archvalidate-config file, let environment
// variables prefixed ARCHVALIDATE_ override it, and fall back to
// defaults for anything neither sets.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the options a caller can set to match how a given
// archive was serialized.
type Config struct {
	// StrictLayout mirrors the serializer's strict-alignment mode:
	// when true, node layouts are padded to their combined alignment.
	StrictLayout bool `mapstructure:"strict_layout"`

	// SharedPointers enables the shared-substructure extension so that
	// an address claimed once under a given type is accepted again on
	// subsequent sightings instead of re-validated.
	SharedPointers bool `mapstructure:"shared_pointers"`
}

// Load reads configuration from, in order of increasing precedence:
// built-in defaults, an archvalidate-config.{yaml,json} file, and
// ARCHVALIDATE_-prefixed environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("archvalidate-config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.archvalidate")
	v.AddConfigPath("/etc/archvalidate")

	v.SetDefault("strict_layout", false)
	v.SetDefault("shared_pointers", false)

	v.SetEnvPrefix("ARCHVALIDATE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
