// Package config loads adminshell.json.
package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/adminshell/internal/errors"
	"github.com/vango-dev/adminshell/pkg/history"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "adminshell.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where Prometheus metrics are exposed.
	DefaultMetricsPath = "/metrics"

	// DefaultTracerName names the OpenTelemetry tracer.
	DefaultTracerName = "adminshell"

	// DefaultManifestKey is the object key of the published manifest.
	DefaultManifestKey = "routes.json"
)

// Config represents the complete adminshell.json configuration.
type Config struct {
	// Name is the application title shown in the shell.
	Name string `json:"name,omitempty"`

	Server  ServerConfig  `json:"server,omitempty"`
	History HistoryConfig `json:"history,omitempty"`
	Log     LogConfig     `json:"log,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty"`
	Tracing TracingConfig `json:"tracing,omitempty"`
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// Timeouts use Go duration syntax ("5s").
	ReadHeaderTimeout string `json:"readHeaderTimeout,omitempty"`
	ShutdownTimeout   string `json:"shutdownTimeout,omitempty"`
}

// HistoryConfig selects the history strategy.
type HistoryConfig struct {
	// Mode is "web", "hash" or "memory".
	Mode string `json:"mode,omitempty"`

	// Base is the path the application is mounted under.
	Base string `json:"base,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// PublishConfig contains manifest publication settings.
type PublishConfig struct {
	// Out is a local file to write the manifest to.
	Out string `json:"out,omitempty"`

	// Bucket, Key, Region and Endpoint address an S3 object.
	Bucket   string `json:"bucket,omitempty"`
	Key      string `json:"key,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "Admin Console",
		Server: ServerConfig{
			Host:              DefaultHost,
			Port:              DefaultPort,
			ReadHeaderTimeout: "5s",
			ShutdownTimeout:   "10s",
		},
		History: HistoryConfig{
			Mode: history.ModeWeb,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			Enabled:    true,
			TracerName: DefaultTracerName,
		},
		Publish: PublishConfig{
			Key: DefaultManifestKey,
		},
	}
}

// Load reads adminshell.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Create the file or run without --config to use defaults")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is set and otherwise returns defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return New(), nil
	}
	return LoadFile(path)
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()

	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ReadHeaderTimeout == "" {
		c.Server.ReadHeaderTimeout = d.Server.ReadHeaderTimeout
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.History.Mode == "" {
		c.History.Mode = d.History.Mode
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}
	if c.Publish.Key == "" {
		c.Publish.Key = d.Publish.Key
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("server.port is " + strconv.Itoa(c.Server.Port) + "; it must be between 0 and 65535")
	}
	if _, err := time.ParseDuration(c.Server.ReadHeaderTimeout); err != nil {
		return errors.New("E123").WithDetail("server.readHeaderTimeout: " + err.Error())
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.New("E123").WithDetail("server.shutdownTimeout: " + err.Error())
	}
	switch c.History.Mode {
	case history.ModeWeb, history.ModeHash, history.ModeMemory:
	default:
		return errors.New("E103").WithDetail("history.mode is " + strconv.Quote(c.History.Mode))
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E124").WithDetail("log.level is " + strconv.Quote(c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E124").WithDetail("log.format is " + strconv.Quote(c.Log.Format))
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E120").WithDetail("metrics.path must start with \"/\"")
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ReadHeaderTimeout returns the parsed header timeout.
func (c *Config) ReadHeaderTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadHeaderTimeout)
	return d
}

// ShutdownTimeout returns the parsed shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ShutdownTimeout)
	return d
}

// NewHistory builds the configured history strategy. initialURL may be empty.
func (c *Config) NewHistory(initialURL string) (history.Strategy, error) {
	h, err := history.ForMode(c.History.Mode, c.History.Base, history.WithInitialURL(initialURL))
	if err != nil {
		return nil, errors.New("E103").Wrap(err)
	}
	return h, nil
}

// Logger builds a slog.Logger writing to w per the log settings.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
