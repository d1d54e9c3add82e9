// Package config defines runtime configuration for hostinfo.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Defaults mirror the stock limits of a typical web runtime.
const (
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 8080
	DefaultPath              = "/"
	DefaultMaxExecution      = 30 * time.Second
	DefaultMaxUploadBytes    = 2 << 20
	DefaultMaxBodyBytes      = 8 << 20
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultLogLevel          = "info"
)

// Config holds all settings passed in via CLI flags, a config file or
// environment variables.
type Config struct {
	// Host is the network interface to bind the HTTP server to.
	Host string `env:"HOST"`

	// Port is the HTTP server port.
	Port int `env:"PORT"`

	// Path is the single endpoint the diagnostics page is served from.
	Path string `env:"PATH"`

	// MaxExecution bounds how long one request may run. Zero disables the limit.
	MaxExecution time.Duration `env:"MAX_EXECUTION"`

	// MaxUploadBytes is the largest single uploaded file the server advertises.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES"`

	// ReadHeaderTimeout guards against slow-loris clients.
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT"`

	// LogLevel is one of debug, info, error, fatal.
	LogLevel string `env:"LOG_LEVEL"`
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Host:              DefaultHost,
		Port:              DefaultPort,
		Path:              DefaultPath,
		MaxExecution:      DefaultMaxExecution,
		MaxUploadBytes:    DefaultMaxUploadBytes,
		MaxBodyBytes:      DefaultMaxBodyBytes,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		LogLevel:          DefaultLogLevel,
	}
}

// FromEnv overlays HOSTINFO_* environment variables onto cfg.
// Unset variables leave the current value untouched.
func FromEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "HOSTINFO_"}); err != nil {
		return errors.Wrap(err, "parse env")
	}
	return nil
}

// Validate reports the first setting that cannot be served.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port %d out of range", c.Port)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return errors.Errorf("path %q must start with /", c.Path)
	}
	// ServeMux reads the path as a pattern: spaces split off a method and
	// braces open a wildcard.
	if strings.ContainsAny(c.Path, " \t\r\n{}") {
		return errors.Errorf("path %q must not contain whitespace or braces", c.Path)
	}
	if u, err := url.Parse(c.Path); err != nil || u.Path != c.Path {
		return errors.Errorf("path %q must be a plain URL path", c.Path)
	}
	if c.MaxExecution < 0 {
		return errors.New("max execution must not be negative")
	}
	if c.MaxUploadBytes < 0 || c.MaxBodyBytes < 0 {
		return errors.New("size limits must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "error", "fatal":
	default:
		return errors.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// Limits is the subset of configuration reported on the diagnostics page.
type Limits struct {
	MaxExecution   time.Duration
	MaxUploadBytes int64
	MaxBodyBytes   int64
}

// Limits returns the request limits the server enforces or advertises.
func (c Config) Limits() Limits {
	return Limits{
		MaxExecution:   c.MaxExecution,
		MaxUploadBytes: c.MaxUploadBytes,
		MaxBodyBytes:   c.MaxBodyBytes,
	}
}
