package host

import (
	"strings"

	"github.com/Masterminds/semver"
)

// GoVersion converts a runtime.Version() string such as "go1.22.1" into
// "1.22.1" ("go1.22" becomes "1.22.0"). Anything semver cannot read, like
// release candidates ("go1.23rc1") or development builds, is returned as is.
func GoVersion(raw string) string {
	v, err := semver.NewVersion(strings.TrimPrefix(raw, "go"))
	if err != nil {
		return raw
	}
	return v.String()
}
