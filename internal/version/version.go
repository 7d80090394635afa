// Package version provides version information for orderdesk.
package version

import "runtime"

// Version is the version of orderdesk. This can be overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. This can be overridden at build time using ldflags.
var Commit = "unknown"

// Date is the build date. This can be overridden at build time using ldflags.
var Date = "unknown"

// String returns the full version string including the commit hash if available.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}

// UserAgent identifies the client in backend requests.
func UserAgent() string {
	return "orderdesk/" + String() + " (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
}

// Long returns the multi-field text printed by the version command.
func Long() string {
	return "orderdesk " + String() + "\nbuilt: " + Date + "\ngo: " + runtime.Version()
}
