// Package gnveg holds application-wide metadata for the GNveg CLI.
package gnveg

var (
	// Version is the application version. It is set by the build system
	// via ldflags.
	Version = "v0.1.0"

	// Build is the timestamp of the build. It is set by the build system
	// via ldflags.
	Build = "n/a"
)
