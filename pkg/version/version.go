// Package version holds build metadata injected at link time.
package version

import (
	"fmt"
	"runtime/debug"
)

// Build metadata, set with -ldflags "-X github.com/Sumatoshi-tech/aliasguard/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const revisionLength = 12

// Resolve fills unset metadata from the module build info embedded by the
// go tool, so `go install` builds still report something useful.
func Resolve() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	resolveFrom(info)
}

func resolveFrom(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = setting.Value[:min(len(setting.Value), revisionLength)]
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = setting.Value
			}
		}
	}
}

// String formats the metadata for the version command.
func String() string {
	return fmt.Sprintf("aliasguard %s (commit: %s, built: %s)", Version, Commit, Date)
}
