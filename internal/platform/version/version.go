// Package version exposes build metadata set through -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// These are set via ldflags at build time
	Version = "dev"
	Commit  = "unknown"
	Date    = ""
)

func Info() string {
	built := Date
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("blazectl %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, built, runtime.GOOS, runtime.GOARCH)
}
