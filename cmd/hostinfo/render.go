package main

import (
	"io"
	"net/http"

	"github.com/hartyporpoise/hostinfo/internal/config"
	"github.com/hartyporpoise/hostinfo/internal/diag"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// syntheticRequest describes the request the render command pretends to answer.
type syntheticRequest struct {
	Method     string
	URI        string
	UserAgent  string
	RemoteAddr string
	Host       string
}

func newRenderCommand() *cobra.Command {
	var (
		flags      config.Config
		configPath string
		req        syntheticRequest
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the diagnostics page for a synthetic request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(cmd, &flags, configPath)
			if err != nil {
				return err
			}
			return runRender(cmd.OutOrStdout(), newCollector(&cfg), req)
		},
	}
	bindFlags(cmd, &flags, &configPath)

	f := cmd.Flags()
	f.StringVar(&req.Method, "method", http.MethodGet, "Request method")
	f.StringVar(&req.URI, "uri", "/", "Request URI")
	f.StringVar(&req.UserAgent, "user-agent", "", "User-Agent header (empty = not sent)")
	f.StringVar(&req.RemoteAddr, "remote", "127.0.0.1", "Client address")
	f.StringVar(&req.Host, "server-name", "", "Host header (empty = machine host name)")
	return cmd
}

func runRender(w io.Writer, collector *diag.Collector, sr syntheticRequest) error {
	r, err := http.NewRequest(sr.Method, sr.URI, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	r.RequestURI = sr.URI
	r.RemoteAddr = sr.RemoteAddr
	r.Host = sr.Host
	if sr.UserAgent != "" {
		r.Header.Set("User-Agent", sr.UserAgent)
	}

	renderer, err := diag.NewRenderer()
	if err != nil {
		return err
	}
	return renderer.Render(w, collector.Collect(r))
}
