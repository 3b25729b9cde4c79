// Package config holds the options the CLI parses out of flags. Loading a
// config file from disk is an external collaborator (spec §1) and is not
// implemented here; this struct is the seam such a loader would populate.
package config

import "github.com/wsmwm/wsm/internal/wsmlog"

// Options are the process-wide options derived from spec §6's CLI flags.
type Options struct {
	// XWayland enables the XWayland sub-system.
	XWayland bool
	// LogLevel is the -l/--log-level value, 0-3.
	LogLevel wsmlog.Level
	// StartupCommand, if non-empty, is forked via /bin/sh -c after startup
	// (the -s flag).
	StartupCommand string
}

// Default returns the options in effect with no flags given.
func Default() Options {
	return Options{
		XWayland: false,
		LogLevel: wsmlog.Error,
	}
}
