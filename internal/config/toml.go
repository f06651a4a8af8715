// Package config provides configuration helpers and TOML parsing.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Data      DataConfig      `toml:"data"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Ranking   RankingConfig   `toml:"ranking"`
	Log       LogConfig       `toml:"log"`
}

// DataConfig locates the static datasets.
type DataConfig struct {
	Dir     *string `toml:"dir"`
	Archive *string `toml:"archive"`
	Bundle  *string `toml:"bundle"`
}

// DashboardConfig maps view defaults.
type DashboardConfig struct {
	Mode        *string `toml:"mode"`
	Phase       *string `toml:"phase"`
	Top         *int    `toml:"top"`
	RecentSince *int    `toml:"recent-since"`
}

// RankingConfig overrides ranking directions per metric.
type RankingConfig struct {
	Polarity map[string]string `toml:"polarity"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, errors.New("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, errors.Wrap(err, "failed to stat config")
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, errors.Wrap(err, "failed to decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, errors.Newf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
