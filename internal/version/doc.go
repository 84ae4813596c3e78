// Package version holds the burner-alarm build metadata set through ldflags
// and the `version` subcommand shared by all binaries.
package version
