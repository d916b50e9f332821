// Package version exposes build metadata for the SiaDrive UI binaries and
// the host version this client was built against.
package version

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/siadrive/siadrive-ui/internal/version.Version=v0.1.0 \
//	                   -X github.com/siadrive/siadrive-ui/internal/version.Commit=abc123"
var (
	// Version is the semantic version of the UI
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

// CompatHostVersion is the host daemon version the bridge protocol targets.
const CompatHostVersion = "1.1.2"

func init() {
	if Version == "" || Commit == "" {
		populateFromBuildInfo()
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// populateFromBuildInfo fills Commit (and marks it dirty) from VCS settings.
func populateFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if Commit == "" && revision != "" {
		if len(revision) > 7 {
			revision = revision[:7]
		}
		Commit = revision
		if modified {
			Commit += "-dirty"
		}
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// CompatibleHost reports whether a host reporting serverVersion speaks the
// same major.minor as CompatHostVersion. Unparseable versions are
// treated as incompatible.
func CompatibleHost(serverVersion string) bool {
	want, ok := majorMinor(CompatHostVersion)
	if !ok {
		return false
	}
	got, ok := majorMinor(serverVersion)
	if !ok {
		return false
	}
	return want == got
}

func majorMinor(v string) ([2]int, bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	parts := strings.Split(v, ".")
	if len(parts) < 2 {
		return [2]int{}, false
	}
	var out [2]int
	for i := 0; i < 2; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return [2]int{}, false
		}
		out[i] = n
	}
	return out, true
}
