package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/hartyporpoise/hostinfo/internal/config"
	"github.com/sclevine/spec"

	. "github.com/onsi/gomega"
)

func testConfig(t *testing.T, context spec.G, it spec.S) {
	var (
		Expect = NewWithT(t).Expect

		cfg config.Config
	)

	it.Before(func() {
		cfg = config.Default()
	})

	it("ships defaults that validate", func() {
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Path).To(Equal("/"))
		Expect(cfg.Port).To(Equal(8080))
	})

	it("reports the request limits", func() {
		Expect(cfg.Limits()).To(Equal(config.Limits{
			MaxExecution:   30 * time.Second,
			MaxUploadBytes: 2 << 20,
			MaxBodyBytes:   8 << 20,
		}))
	})

	context("FromEnv", func() {
		it.Before(func() {
			Expect(os.Setenv("HOSTINFO_PORT", "9090")).To(Succeed())
			Expect(os.Setenv("HOSTINFO_MAX_EXECUTION", "45s")).To(Succeed())
		})

		it.After(func() {
			Expect(os.Unsetenv("HOSTINFO_PORT")).To(Succeed())
			Expect(os.Unsetenv("HOSTINFO_MAX_EXECUTION")).To(Succeed())
		})

		it("overlays the prefixed variables and keeps the rest", func() {
			Expect(config.FromEnv(&cfg)).To(Succeed())
			Expect(cfg.Port).To(Equal(9090))
			Expect(cfg.MaxExecution).To(Equal(45 * time.Second))
			Expect(cfg.Host).To(Equal("0.0.0.0"))
			Expect(cfg.Path).To(Equal("/"))
		})

		context("when a variable cannot be parsed", func() {
			it.Before(func() {
				Expect(os.Setenv("HOSTINFO_PORT", "not-a-port")).To(Succeed())
			})

			it("returns an error", func() {
				err := config.FromEnv(&cfg)
				Expect(err).To(MatchError(ContainSubstring("parse env")))
			})
		})
	})

	context("Validate", func() {
		it("rejects a port out of range", func() {
			cfg.Port = 70000
			Expect(cfg.Validate()).To(MatchError("port 70000 out of range"))
		})

		it("rejects a relative path", func() {
			cfg.Path = "info"
			Expect(cfg.Validate()).To(MatchError(`path "info" must start with /`))
		})

		it("rejects a path with whitespace", func() {
			cfg.Path = "/a b"
			Expect(cfg.Validate()).To(MatchError(`path "/a b" must not contain whitespace or braces`))
		})

		it("rejects a path with a wildcard", func() {
			cfg.Path = "/{x}"
			Expect(cfg.Validate()).To(MatchError(`path "/{x}" must not contain whitespace or braces`))
		})

		it("rejects a path with an end anchor", func() {
			cfg.Path = "/info/{$}"
			Expect(cfg.Validate()).To(MatchError(`path "/info/{$}" must not contain whitespace or braces`))
		})

		it("rejects a path carrying a query", func() {
			cfg.Path = "/info?x=1"
			Expect(cfg.Validate()).To(MatchError(`path "/info?x=1" must be a plain URL path`))
		})

		it("accepts a nested path", func() {
			cfg.Path = "/debug/info"
			Expect(cfg.Validate()).To(Succeed())
		})

		it("rejects negative limits", func() {
			cfg.MaxBodyBytes = -1
			Expect(cfg.Validate()).To(MatchError("size limits must not be negative"))
		})

		it("rejects a negative execution limit", func() {
			cfg.MaxExecution = -time.Second
			Expect(cfg.Validate()).To(MatchError("max execution must not be negative"))
		})

		it("rejects an unknown log level", func() {
			cfg.LogLevel = "loud"
			Expect(cfg.Validate()).To(MatchError(`unknown log level "loud"`))
		})

		it("accepts a zero execution limit", func() {
			cfg.MaxExecution = 0
			Expect(cfg.Validate()).To(Succeed())
		})
	})
}
