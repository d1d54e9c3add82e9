package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// fileConfig is the on-disk shape. Pointers distinguish "absent" from zero
// so a file only overrides the keys it names. Durations are strings
// ("30s", "1m") since neither decoder handles time.Duration natively.
type fileConfig struct {
	Host              *string `toml:"host" yaml:"host"`
	Port              *int    `toml:"port" yaml:"port"`
	Path              *string `toml:"path" yaml:"path"`
	MaxExecution      *string `toml:"max_execution" yaml:"max_execution"`
	MaxUploadBytes    *int64  `toml:"max_upload_bytes" yaml:"max_upload_bytes"`
	MaxBodyBytes      *int64  `toml:"max_body_bytes" yaml:"max_body_bytes"`
	ReadHeaderTimeout *string `toml:"read_header_timeout" yaml:"read_header_timeout"`
	LogLevel          *string `toml:"log_level" yaml:"log_level"`
}

// Load reads a .toml, .yaml or .yml file and overlays the keys it sets onto cfg.
// An empty path is a no-op.
func Load(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.DecodeFile(path, &fc)
		if err != nil {
			return errors.Wrapf(err, "decode %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.Errorf("decode %s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}
		if err := yaml.UnmarshalStrict(data, &fc); err != nil {
			return errors.Wrapf(err, "decode %s", path)
		}
	default:
		return errors.Errorf("unsupported config file %q: want .toml, .yaml or .yml", path)
	}

	return fc.apply(cfg)
}

func (fc fileConfig) apply(cfg *Config) error {
	if fc.Host != nil {
		cfg.Host = *fc.Host
	}
	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.Path != nil {
		cfg.Path = *fc.Path
	}
	if fc.MaxExecution != nil {
		d, err := time.ParseDuration(*fc.MaxExecution)
		if err != nil {
			return errors.Wrap(err, "max_execution")
		}
		cfg.MaxExecution = d
	}
	if fc.MaxUploadBytes != nil {
		cfg.MaxUploadBytes = *fc.MaxUploadBytes
	}
	if fc.MaxBodyBytes != nil {
		cfg.MaxBodyBytes = *fc.MaxBodyBytes
	}
	if fc.ReadHeaderTimeout != nil {
		d, err := time.ParseDuration(*fc.ReadHeaderTimeout)
		if err != nil {
			return errors.Wrap(err, "read_header_timeout")
		}
		cfg.ReadHeaderTimeout = d
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	return nil
}
