// Package ctl implements the burner-alarm-ctl subcommands: it reports
// burner signals to a running server, queries its status and follows the
// alerts it delivers.
package ctl
