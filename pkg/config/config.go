// Package config loads the optional reconciler.yaml file and resolves it
// into runtime options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/reconciler/pkg/core"
	rerrors "github.com/go-drift/reconciler/pkg/errors"
	"github.com/go-drift/reconciler/pkg/logging"
	"github.com/go-drift/reconciler/pkg/telemetry"
)

// FileName is the name of the configuration file looked up by LoadOptional.
const FileName = "reconciler.yaml"

// SchemaVersion is the newest configuration schema this package reads.
// Files declaring a different major version are rejected.
const SchemaVersion = "v1.0.0"

// Config represents the optional reconciler.yaml configuration.
type Config struct {
	Version   string          `yaml:"version,omitempty"`
	Runtime   RuntimeConfig   `yaml:"runtime"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RuntimeConfig contains runtime settings.
type RuntimeConfig struct {
	MaxFlushPasses int  `yaml:"max_flush_passes,omitempty"`
	VerboseErrors  bool `yaml:"verbose_errors,omitempty"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// TelemetryConfig contains metrics settings.
type TelemetryConfig struct {
	// Metrics enables recording on the global OpenTelemetry meter provider.
	Metrics bool `yaml:"metrics,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root           string
	Version        string
	MaxFlushPasses int
	VerboseErrors  bool
	LogLevel       slog.Level
	LogFormat      logging.Format
	Metrics        bool
}

// LoadOptional reads reconciler.yaml from dir if present. A missing file
// yields an empty Config.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return Parse(data)
}

// Parse decodes configuration bytes. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Resolve loads reconciler.yaml from dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	r.Root = dir
	return r, nil
}

// Resolve validates c and fills in defaults.
func (c *Config) Resolve() (*Resolved, error) {
	version, err := checkVersion(c.Version)
	if err != nil {
		return nil, err
	}

	passes := c.Runtime.MaxFlushPasses
	switch {
	case passes == 0:
		passes = core.DefaultMaxFlushPasses
	case passes < 0:
		return nil, fmt.Errorf("runtime.max_flush_passes must be positive, got %d", passes)
	}

	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	format, err := logging.ParseFormat(c.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("logging.format: %w", err)
	}

	return &Resolved{
		Version:        version,
		MaxFlushPasses: passes,
		VerboseErrors:  c.Runtime.VerboseErrors,
		LogLevel:       level,
		LogFormat:      format,
		Metrics:        c.Telemetry.Metrics,
	}, nil
}

// checkVersion canonicalizes the declared schema version and rejects
// versions with a different major than SchemaVersion. An empty version means
// SchemaVersion.
func checkVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return SchemaVersion, nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("version %q is not a valid semantic version", v)
	}
	if semver.Major(v) != semver.Major(SchemaVersion) {
		return "", fmt.Errorf("version %s is not supported (want %s.x)", v, semver.Major(SchemaVersion))
	}
	if semver.Compare(v, SchemaVersion) > 0 {
		return "", fmt.Errorf("version %s is newer than the supported %s", v, SchemaVersion)
	}
	return semver.Canonical(v), nil
}

// Logger builds the logger described by r, writing to stderr.
func (r *Resolved) Logger() *slog.Logger {
	return logging.New(logging.Config{Level: r.LogLevel, Format: r.LogFormat, Component: "reconciler"})
}

// RuntimeOptions converts r into runtime options using logger.
func (r *Resolved) RuntimeOptions(logger *slog.Logger) []core.Option {
	metrics := telemetry.Noop()
	if r.Metrics {
		metrics = telemetry.Default()
	}
	return []core.Option{
		core.WithMaxFlushPasses(r.MaxFlushPasses),
		core.WithLogger(logger),
		core.WithMetrics(metrics),
	}
}

// ErrorHandler returns the global error handler described by r.
func (r *Resolved) ErrorHandler(logger *slog.Logger) rerrors.ErrorHandler {
	return &rerrors.LogHandler{Logger: logger, Verbose: r.VerboseErrors}
}
