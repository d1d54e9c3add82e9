// Package web holds the HTML templates of the diagnostics page, compiled
// into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var pages embed.FS

// Templates exposes the page templates by file name, e.g. "diagnostics.html".
var Templates, _ = fs.Sub(pages, "templates")
