// hostinfo: a diagnostics page for the machine it runs on
//
// Usage:
//
//	hostinfo serve
//	hostinfo serve --port 8080 --path /info --max-execution 30s
//	hostinfo render --uri /test/ --user-agent curl/8.0
package main

import (
	"fmt"
	"os"

	"code.cloudfoundry.org/lager"
	"github.com/hartyporpoise/hostinfo/internal/config"
	"github.com/hartyporpoise/hostinfo/internal/diag"
	"github.com/hartyporpoise/hostinfo/internal/host"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hostinfo",
		Short:         "hostinfo: server, request and runtime diagnostics page",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newRenderCommand())
	return root
}

// bindFlags registers the shared configuration flags on cmd.
func bindFlags(cmd *cobra.Command, cfg *config.Config, configPath *string) {
	*cfg = config.Default()

	f := cmd.Flags()
	f.StringVar(&cfg.Host, "host", cfg.Host, "Bind address")
	f.IntVarP(&cfg.Port, "port", "p", cfg.Port, "HTTP port")
	f.StringVar(&cfg.Path, "path", cfg.Path, "Path the diagnostics page is served from")
	f.DurationVar(&cfg.MaxExecution, "max-execution", cfg.MaxExecution,
		"Per-request execution limit (0 = unlimited)")
	f.Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "Advertised upload size limit in bytes")
	f.Int64Var(&cfg.MaxBodyBytes, "max-body", cfg.MaxBodyBytes, "Request body size limit in bytes (0 = unlimited)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, error, fatal")
	f.StringVar(configPath, "config", envOrDefault("HOSTINFO_CONFIG", ""), "Optional .toml or .yaml config file")
}

// resolve layers the configuration sources, lowest priority first:
// built-in defaults, HOSTINFO_* environment, config file, explicit flags.
func resolve(cmd *cobra.Command, flags *config.Config, configPath string) (config.Config, error) {
	cfg := config.Default()
	if err := config.FromEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := config.Load(configPath, &cfg); err != nil {
		return cfg, err
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		overrideFromFlag(&cfg, flags, f.Name)
	})
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// overrideFromFlag copies the setting behind flag name from src to dst.
func overrideFromFlag(dst, src *config.Config, name string) {
	switch name {
	case "host":
		dst.Host = src.Host
	case "port":
		dst.Port = src.Port
	case "path":
		dst.Path = src.Path
	case "max-execution":
		dst.MaxExecution = src.MaxExecution
	case "max-upload":
		dst.MaxUploadBytes = src.MaxUploadBytes
	case "max-body":
		dst.MaxBodyBytes = src.MaxBodyBytes
	case "log-level":
		dst.LogLevel = src.LogLevel
	}
}

// envOrDefault returns the value of an env var, or fallback if unset.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger(level string) lager.Logger {
	logger := lager.NewLogger("hostinfo")
	logger.RegisterSink(lager.NewWriterSink(os.Stdout, logLevel(level)))
	return logger
}

func logLevel(level string) lager.LogLevel {
	switch level {
	case "debug":
		return lager.DEBUG
	case "error":
		return lager.ERROR
	case "fatal":
		return lager.FATAL
	default:
		return lager.INFO
	}
}

func newCollector(cfg *config.Config) *diag.Collector {
	return diag.NewCollector(host.Detect(), cfg.Limits(), "hostinfo/"+version)
}
