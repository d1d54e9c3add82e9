package main

import (
	"fmt"

	"code.cloudfoundry.org/lager"
	"github.com/hartyporpoise/hostinfo/internal/api"
	"github.com/hartyporpoise/hostinfo/internal/config"
	"github.com/hartyporpoise/hostinfo/internal/diag"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var (
		flags      config.Config
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the diagnostics HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd, &flags, configPath)
			if err != nil {
				return err
			}
			return runServe(&cfg)
		},
	}
	bindFlags(cmd, &flags, &configPath)
	return cmd
}

func runServe(cfg *config.Config) error {
	logger := newLogger(cfg.LogLevel).Session("serve")

	collector := newCollector(cfg)
	logger.Info("host-detected", lager.Data{
		"hostname":   collector.Host.Hostname,
		"os":         collector.Host.OSName + " " + collector.Host.OSRelease,
		"arch":       collector.Host.Arch,
		"go-version": collector.Host.GoVersion,
	})

	renderer, err := diag.NewRenderer()
	if err != nil {
		return err
	}

	srv := api.NewServer(cfg, collector, renderer, logger)
	err = srv.Run(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	logger.Error("server-exited", err)
	return err
}
