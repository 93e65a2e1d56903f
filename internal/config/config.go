// Package config defines the auction CLI's configuration, loaded from
// an optional YAML file and overridable by command-line flags.
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the top-level configuration for one benchmark/replay run.
type Config struct {
	Name    string `mapstructure:"name"`
	Symbol  string `mapstructure:"symbol"`
	PClose  int32  `mapstructure:"pclose"`
	Count   uint32 `mapstructure:"count"`
	LogJSON bool   `mapstructure:"log_json"`
}

// Default returns the baseline configuration, matching the reference
// driver's hardcoded defaults (symbol cu1906, pclose 50000, count
// 2,000,000).
func Default() Config {
	return Config{
		Name:   "go-auction",
		Symbol: "cu1906",
		PClose: 50000,
		Count:  2_000_000,
	}
}

// Load reads path (if non-empty) as a YAML config file into v, falling
// back to Default() for any key neither the file nor a bound flag sets.
func Load(path string, v *viper.Viper) (Config, error) {
	cfg := Default()
	if path == "" {
		if err := v.Unmarshal(&cfg); err != nil {
			return cfg, errors.Wrap(err, "unmarshal default config")
		}
		return cfg, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, errors.Wrapf(err, "read config file %s", path)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "unmarshal config file")
	}
	return cfg, nil
}
