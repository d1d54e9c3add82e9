// Package diag builds and renders the diagnostics page: a summary of
// server, request and runtime facts for one HTTP request.
package diag

import (
	"math"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hartyporpoise/hostinfo/internal/config"
	"github.com/hartyporpoise/hostinfo/internal/host"
)

// TimeLayout is the format of every timestamp on the page.
const TimeLayout = "2006-01-02 15:04:05"

// View is the read-only set of facts rendered for one request.
// Every field is preformatted text; a fact that could not be read is "".
type View struct {
	// Server
	ServerName     string
	ServerSoftware string
	GoVersion      string
	ServerTime     string
	OSName         string
	OSRelease      string
	Arch           string

	// Request
	Method     string
	RequestURI string
	UserAgent  string
	RemoteIP   string

	// Runtime configuration
	MemoryLimit         string
	MaxExecutionSeconds int64
	UploadMaxSize       string
	PostMaxSize         string

	// Build
	Module        string
	ModuleVersion string
	VCSRevision   string

	GeneratedAt string
}

// Build is the module metadata stamped into the binary by the Go toolchain.
type Build struct {
	Module      string
	Version     string
	VCSRevision string
}

// ReadBuild returns the binary's build metadata, or a zero Build when the
// binary was built without module support.
func ReadBuild() Build {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Build{}
	}
	b := Build{
		Module:  info.Main.Path,
		Version: info.Main.Version,
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			b.VCSRevision = s.Value
		}
	}
	return b
}

// Collector turns an inbound request into a View. The host facts, limits
// and build metadata are read once at startup and shared read-only by all
// requests.
type Collector struct {
	Host     host.Facts
	Limits   config.Limits
	Build    Build
	Software string

	// MemoryLimit reports the process memory limit; false means unlimited.
	MemoryLimit func() (int64, bool)

	// Now is the clock; nil means time.Now. Tests pin it to get
	// reproducible output.
	Now func() time.Time
}

// NewCollector returns a Collector reading the live clock, memory limit and
// build metadata.
func NewCollector(facts host.Facts, limits config.Limits, software string) *Collector {
	return &Collector{
		Host:        facts,
		Limits:      limits,
		Build:       ReadBuild(),
		Software:    software,
		MemoryLimit: host.MemoryLimit,
		Now:         time.Now,
	}
}

// Collect reads the facts for r. It never fails: absent headers and
// unreadable values are left empty.
func (c *Collector) Collect(r *http.Request) View {
	clock := c.Now
	if clock == nil {
		clock = time.Now
	}
	now := clock().Format(TimeLayout)

	return View{
		ServerName:     c.serverName(r),
		ServerSoftware: c.Software,
		GoVersion:      c.Host.GoVersion,
		ServerTime:     now,
		OSName:         c.Host.OSName,
		OSRelease:      c.Host.OSRelease,
		Arch:           c.Host.Arch,

		Method:     r.Method,
		RequestURI: r.RequestURI,
		UserAgent:  r.UserAgent(),
		RemoteIP:   remoteIP(r.RemoteAddr),

		MemoryLimit:         c.memoryLimit(),
		MaxExecutionSeconds: wholeSeconds(c.Limits.MaxExecution),
		UploadMaxSize:       formatSize(c.Limits.MaxUploadBytes),
		PostMaxSize:         formatSize(c.Limits.MaxBodyBytes),

		Module:        c.Build.Module,
		ModuleVersion: c.Build.Version,
		VCSRevision:   c.Build.VCSRevision,

		GeneratedAt: now,
	}
}

// serverName is the virtual host the client asked for, falling back to
// the machine host name.
func (c *Collector) serverName(r *http.Request) string {
	if r.Host == "" {
		return c.Host.Hostname
	}
	if h, _, err := net.SplitHostPort(r.Host); err == nil {
		return h
	}
	return r.Host
}

func (c *Collector) memoryLimit() string {
	if c.MemoryLimit == nil {
		return ""
	}
	limit, ok := c.MemoryLimit()
	if !ok {
		return "unlimited"
	}
	return formatSize(limit)
}

// remoteIP strips the port from addr. Addresses without a port are
// returned unchanged.
func remoteIP(addr string) string {
	if h, _, err := net.SplitHostPort(addr); err == nil {
		return h
	}
	return addr
}

// wholeSeconds rounds d up so a sub-second limit never reads as 0,
// which means unlimited.
func wholeSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(math.Ceil(d.Seconds()))
}

// formatSize renders a byte count; zero or less means no limit.
func formatSize(n int64) string {
	if n <= 0 {
		return "unlimited"
	}
	return humanize.IBytes(uint64(n))
}
