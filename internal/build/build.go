// Package build carries version information stamped at link time.
package build

// Version identifies the tbrun release. Release builds override it via
// -ldflags "-X go.trai.ch/tbrun/internal/build.Version=...".
var Version = "dev"

// Commit is the VCS revision the binary was built from, when stamped.
var Commit = ""

// String renders the version with the commit suffix when one is known.
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
