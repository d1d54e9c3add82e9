// Fallback OS identification for platforms without uname.

//go:build !linux && !darwin

package host

// detectPlatformUname is a no-op; OSName and Arch keep their GOOS/GOARCH
// defaults and OSRelease stays empty.
func detectPlatformUname(f *Facts) {}
