// Command tabshell opens browser windows whose tabs are driven from a
// terminal tab strip.
package main

import (
	"runtime"

	"github.com/bnema/tabshell/internal/cli/cmd"
	"github.com/bnema/tabshell/internal/domain/build"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cmd.SetBuildInfo(build.Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	})
	cmd.Execute()
}
