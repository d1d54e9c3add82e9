// Package host detects the facts about the machine the server runs on.
// Detection is best-effort: anything that cannot be read is reported as an
// empty string so the diagnostics page always renders.
package host

import (
	"os"
	"runtime"
)

// Facts describes the current machine and Go runtime.
type Facts struct {
	// Hostname is the kernel host name (empty if unavailable).
	Hostname string

	// OSName is the operating system name as reported by uname (e.g. "Linux").
	OSName string

	// OSRelease is the kernel release (e.g. "6.8.0-45-generic").
	OSRelease string

	// Arch is the machine hardware name (e.g. "x86_64", "arm64").
	Arch string

	// GoVersion is the normalised Go runtime version (e.g. "1.22.1").
	GoVersion string
}

// Detect reads the host facts of the current machine. It never fails.
func Detect() Facts {
	f := Facts{
		OSName:    runtime.GOOS,
		Arch:      runtime.GOARCH,
		GoVersion: GoVersion(runtime.Version()),
	}
	if name, err := os.Hostname(); err == nil {
		f.Hostname = name
	}

	detectPlatformUname(&f)
	return f
}
