// Package version holds the engine build version.
package version

// Version is overridden at release time via -ldflags.
var Version = "dev"
