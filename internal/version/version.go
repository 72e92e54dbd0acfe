// Package version holds the application version reported by the system
// endpoints. Overridden at build time via -ldflags.
package version

// Version is the application version string.
var Version = "0.3.0"
