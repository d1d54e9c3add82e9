package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"code.cloudfoundry.org/lager"
	"github.com/hartyporpoise/hostinfo/internal/config"
	"github.com/hartyporpoise/hostinfo/internal/diag"
	"github.com/hartyporpoise/hostinfo/internal/host"
	"github.com/sclevine/spec"
	"github.com/spf13/cobra"

	. "github.com/onsi/gomega"
)

func testResolve(t *testing.T, context spec.G, it spec.S) {
	var (
		Expect = NewWithT(t).Expect

		dir string
	)

	it.Before(func() {
		var err error
		dir, err = os.MkdirTemp("", "hostinfo-cmd")
		Expect(err).NotTo(HaveOccurred())
	})

	it.After(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
		Expect(os.Unsetenv("HOSTINFO_PORT")).To(Succeed())
	})

	parse := func(args ...string) (config.Config, error) {
		var (
			flags      config.Config
			configPath string
		)
		cmd := &cobra.Command{Use: "test"}
		bindFlags(cmd, &flags, &configPath)
		Expect(cmd.ParseFlags(args)).To(Succeed())
		return resolve(cmd, &flags, configPath)
	}

	it("uses the defaults when nothing is set", func() {
		cfg, err := parse()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Default()))
	})

	it("layers env, file and flags in that order", func() {
		Expect(os.Setenv("HOSTINFO_PORT", "9000")).To(Succeed())

		path := filepath.Join(dir, "hostinfo.toml")
		Expect(os.WriteFile(path, []byte("port = 9100\npath = \"/info\"\n"), 0o644)).To(Succeed())

		cfg, err := parse("--path", "/diag", "--config", path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Port).To(Equal(9100))
		Expect(cfg.Path).To(Equal("/diag"))
		Expect(cfg.Host).To(Equal(config.DefaultHost))
	})

	it("lets the environment override the defaults", func() {
		Expect(os.Setenv("HOSTINFO_PORT", "9000")).To(Succeed())

		cfg, err := parse()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Port).To(Equal(9000))
	})

	it("rejects an invalid result", func() {
		_, err := parse("--port", "0")
		Expect(err).To(MatchError(ContainSubstring("invalid configuration")))
	})

	it("maps log levels", func() {
		Expect(logLevel("debug")).To(Equal(lager.DEBUG))
		Expect(logLevel("error")).To(Equal(lager.ERROR))
		Expect(logLevel("")).To(Equal(lager.INFO))
	})
}

func testRender(t *testing.T, context spec.G, it spec.S) {
	var (
		Expect = NewWithT(t).Expect

		collector *diag.Collector
	)

	it.Before(func() {
		collector = &diag.Collector{
			Host:     host.Facts{Hostname: "some-machine", OSName: "Linux", Arch: "x86_64"},
			Limits:   config.Default().Limits(),
			Software: "hostinfo/test",
			Now: func() time.Time {
				return time.Date(2024, time.March, 7, 9, 15, 30, 0, time.Local)
			},
		}
	})

	it("prints the page for the synthetic request", func() {
		buf := bytes.NewBuffer(nil)
		err := runRender(buf, collector, syntheticRequest{
			Method:     "GET",
			URI:        "/test/",
			UserAgent:  "UnitTest/1.0",
			RemoteAddr: "127.0.0.1",
		})
		Expect(err).NotTo(HaveOccurred())

		page := buf.String()
		Expect(page).To(ContainSubstring("<li><strong>Server Name:</strong> some-machine</li>"))
		Expect(page).To(ContainSubstring("<li><strong>Request URI:</strong> /test/</li>"))
		Expect(page).To(ContainSubstring("<li><strong>User Agent:</strong> UnitTest/1.0</li>"))
		Expect(page).To(ContainSubstring("<li><strong>Remote IP:</strong> 127.0.0.1</li>"))
		Expect(strings.Count(page, "<h3>")).To(Equal(4))
	})

	it("renders byte-identical pages with a fixed clock", func() {
		req := syntheticRequest{Method: "GET", URI: "/", RemoteAddr: "127.0.0.1"}

		first := bytes.NewBuffer(nil)
		second := bytes.NewBuffer(nil)
		Expect(runRender(first, collector, req)).To(Succeed())
		Expect(runRender(second, collector, req)).To(Succeed())
		Expect(first.String()).To(Equal(second.String()))
	})

	context("when the method is invalid", func() {
		it("returns an error", func() {
			err := runRender(bytes.NewBuffer(nil), collector, syntheticRequest{Method: "BAD METHOD", URI: "/"})
			Expect(err).To(MatchError(ContainSubstring("build request")))
		})
	})
}
