package logging

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"":        LevelInfo,
		"DEBUG":   LevelDebug,
		"warning": LevelWarn,
		"error":   LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerWritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(LevelInfo, &buf).With("component", "dataset")
	log.Debug("hidden")
	log.Warn("archive missing", "path", "/tmp/ipl_phase_dataset.zip", "err", errors.New("not found"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"archive missing"`)
	assert.Contains(t, out, `"component":"dataset"`)
	assert.Contains(t, out, `"path":"/tmp/ipl_phase_dataset.zip"`)
	assert.Contains(t, out, `"err":"not found"`)
	assert.Contains(t, out, `"level":"WARN"`)
}

func TestZapFieldsOddArgs(t *testing.T) {
	fields := zapFields([]any{"a", 1, 2, "b", "dangling"})
	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "arg", fields[1].Key)
	assert.Equal(t, "dangling", fields[2].Key)
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := Default()
	SetDefault(NewJSON(LevelInfo, &buf))
	t.Cleanup(func() { SetDefault(prev) })

	var log *Logger
	log.Info("from nil")
	assert.Contains(t, buf.String(), "from nil")
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "crease", "crease.log")
	f, err := OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	log := New(LevelInfo, f)
	log.Info("started")
	require.NoError(t, log.Sync())
	assert.FileExists(t, path)
}

func TestNamedLogger(t *testing.T) {
	var buf bytes.Buffer
	New(LevelInfo, &buf).Named("dataset").Info("loaded")
	assert.Contains(t, buf.String(), "dataset")
	assert.Contains(t, buf.String(), "loaded")

	buf.Reset()
	NewJSON(LevelInfo, &buf).Named("dataset").Info("loaded")
	assert.Contains(t, buf.String(), `"logger":"dataset"`)

	var nilLog *Logger
	assert.NotNil(t, nilLog.Named("x"))
}
