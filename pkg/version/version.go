// Package version exposes build information stamped at link time.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/NERVsystems/footprintmcp/pkg/version.BuildVersion=..."
var (
	BuildVersion = "dev"
	Commit       = ""
	BuildDate    = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "" {
				Commit = s.Value
			}
		case "vcs.time":
			if BuildDate == "" {
				BuildDate = s.Value
			}
		}
	}
}

// Info returns the build information as labels.
func Info() map[string]string {
	return map[string]string{
		"version":    BuildVersion,
		"go_version": runtime.Version(),
		"commit":     Commit,
		"build_date": BuildDate,
	}
}

// String formats the build information for --version output.
func String() string {
	s := fmt.Sprintf("footprintmcp %s (%s)", BuildVersion, runtime.Version())
	if Commit != "" {
		s += " commit " + Commit
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
