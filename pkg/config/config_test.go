package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/reconciler/pkg/core"
	rerrors "github.com/go-drift/reconciler/pkg/errors"
	"github.com/go-drift/reconciler/pkg/logging"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
	return dir
}

func TestResolve_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	r, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, r.Root)
	assert.Equal(t, SchemaVersion, r.Version)
	assert.Equal(t, core.DefaultMaxFlushPasses, r.MaxFlushPasses)
	assert.Equal(t, slog.LevelInfo, r.LogLevel)
	assert.Equal(t, logging.FormatAuto, r.LogFormat)
	assert.False(t, r.Metrics)
}

func TestResolve_ReadsFile(t *testing.T) {
	dir := writeConfig(t, `
version: "1.0"
runtime:
  max_flush_passes: 8
  verbose_errors: true
logging:
  level: debug
  format: json
telemetry:
  metrics: true
`)

	r, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", r.Version)
	assert.Equal(t, 8, r.MaxFlushPasses)
	assert.True(t, r.VerboseErrors)
	assert.Equal(t, slog.LevelDebug, r.LogLevel)
	assert.Equal(t, logging.FormatJSON, r.LogFormat)
	assert.True(t, r.Metrics)

	h, ok := r.ErrorHandler(slog.Default()).(*rerrors.LogHandler)
	require.True(t, ok)
	assert.True(t, h.Verbose)
	assert.Len(t, r.RuntimeOptions(slog.Default()), 3)
}

func TestResolve_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "runtime: [", "failed to parse"},
		{"unknown field", "runtime:\n  max_passes: 3\n", "max_passes"},
		{"invalid version", "version: banana\n", "not a valid semantic version"},
		{"other major", "version: v2.0.0\n", "not supported"},
		{"newer minor", "version: v1.4.0\n", "newer than"},
		{"negative passes", "runtime:\n  max_flush_passes: -1\n", "must be positive"},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad format", "logging:\n  format: xml\n", "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestRuntimeOptions_ApplyToRuntime(t *testing.T) {
	cfg := &Config{Runtime: RuntimeConfig{MaxFlushPasses: 3}}
	r, err := cfg.Resolve()
	require.NoError(t, err)

	rt := core.NewRuntime(nil, r.RuntimeOptions(slog.Default())...)
	assert.NotNil(t, rt)
}
