// uname(2) based OS identification.

//go:build linux || darwin

package host

import "golang.org/x/sys/unix"

// detectPlatformUname overrides the runtime defaults with the kernel's own
// view. On failure the GOOS/GOARCH values are kept.
func detectPlatformUname(f *Facts) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return
	}
	if s := unix.ByteSliceToString(u.Sysname[:]); s != "" {
		f.OSName = s
	}
	f.OSRelease = unix.ByteSliceToString(u.Release[:])
	if s := unix.ByteSliceToString(u.Machine[:]); s != "" {
		f.Arch = s
	}
}
