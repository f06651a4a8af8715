package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Data.Dir)
	assert.Nil(t, cfg.Dashboard.Top)
}

func TestLoadConfigSections(t *testing.T) {
	path := writeConfig(t, `
[data]
dir = "/srv/ipl"
bundle = "/srv/ipl/bundle.db"

[dashboard]
mode = "purple-cap"
top = 5
recent-since = 2022

[ranking.polarity]
dot_ball_pct = "ASC"

[log]
level = "debug"
`)
	file, err := LoadConfig(path)
	require.NoError(t, err)

	cfg := Defaults()
	Apply(&cfg, file)
	assert.Equal(t, "/srv/ipl", cfg.DataDir)
	assert.Equal(t, "/srv/ipl/bundle.db", cfg.Bundle)
	assert.Equal(t, "", cfg.Archive)
	assert.Equal(t, "purple-cap", cfg.Mode)
	assert.Equal(t, 5, cfg.Top)
	assert.Equal(t, 2022, cfg.RecentSince)
	assert.Equal(t, map[string]string{"dot_ball_pct": "asc"}, cfg.Polarity)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultLogPath(), cfg.LogFile)
	require.NoError(t, Validate(context.Background(), cfg))
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[dashboard]\ntopn = 3\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard.topn")
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestValidateReportsFields(t *testing.T) {
	cfg := Defaults()
	cfg.Top = 0
	cfg.Phase = "Slog"
	cfg.Polarity = map[string]string{"runs": "sideways"}
	err := Validate(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "dashboard.top must be >= 1")
	assert.Contains(t, err.Error(), "dashboard.phase must be one of")
	assert.Contains(t, err.Error(), "sideways")

	cfg = Defaults()
	cfg.DataDir = ""
	cfg.Archive = "data.tar"
	err = Validate(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.dir is required")
	assert.Contains(t, err.Error(), "data.archive must end with .zip")
}

func TestTemplateDecodes(t *testing.T) {
	var cfg FileConfig
	_, err := toml.Decode(Template(), &cfg)
	require.NoError(t, err)
	assert.Nil(t, cfg.Dashboard.Mode)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, filepath.Join("/cfg", "crease", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/data", "crease", "data"), DefaultDataDir())
	assert.Equal(t, filepath.Join("/state", "crease", "crease.log"), DefaultLogPath())
}
