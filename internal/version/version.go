// Package version reports build information for the API and CLI.
package version

import "runtime/debug"

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// Version returns the version string.
// Priority: ldflags > debug.ReadBuildInfo > "(devel)"
func Version() string {
	if version != "" {
		return version
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		if buildInfo.Main.Version != "" {
			return buildInfo.Main.Version
		}
	}
	return "(devel)"
}

// Commit returns the short commit hash.
// Priority: ldflags > debug.ReadBuildInfo > "unknown"
func Commit() string {
	if commit != "" {
		return commit
	}
	if v, ok := buildSetting("vcs.revision"); ok {
		if len(v) > 7 {
			return v[:7]
		}
		return v
	}
	return "unknown"
}

// Date returns the build date.
// Priority: ldflags > debug.ReadBuildInfo > "unknown"
func Date() string {
	if date != "" {
		return date
	}
	if v, ok := buildSetting("vcs.time"); ok {
		return v
	}
	return "unknown"
}

func buildSetting(key string) (string, bool) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == key {
			return setting.Value, true
		}
	}
	return "", false
}
