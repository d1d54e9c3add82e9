package host

import (
	"math"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
)

// cgroupRoot is where the cgroup filesystem is mounted.
var cgroupRoot = "/sys/fs/cgroup"

// cgroupV1Unlimited is the threshold above which a cgroup v1 limit is the
// kernel's "no limit" sentinel (a page-aligned math.MaxInt64).
const cgroupV1Unlimited = 1 << 60

// MemoryLimit returns the memory limit that applies to this process in bytes,
// and false when nothing limits it.
//
// Detection priority:
//  1. Go soft memory limit (GOMEMLIMIT or debug.SetMemoryLimit)
//  2. cgroup v2 memory.max (containerised Linux)
//  3. cgroup v1 memory.limit_in_bytes (older Docker / K8s)
func MemoryLimit() (int64, bool) {
	return memoryLimit(cgroupRoot, debug.SetMemoryLimit(-1))
}

func memoryLimit(root string, goLimit int64) (int64, bool) {
	if goLimit > 0 && goLimit != math.MaxInt64 {
		return goLimit, true
	}
	// cgroup v2
	if b, err := os.ReadFile(filepath.Join(root, "memory.max")); err == nil {
		s := strings.TrimSpace(string(b))
		if s != "max" {
			if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 {
				return v, true
			}
		}
	}
	// cgroup v1
	if b, err := os.ReadFile(filepath.Join(root, "memory", "memory.limit_in_bytes")); err == nil {
		if v, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64); err == nil && v > 0 && v < cgroupV1Unlimited {
			return v, true
		}
	}
	return 0, false
}
