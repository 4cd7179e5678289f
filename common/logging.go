package common

import (
	"log/slog"
	"os"
)

// Version is the service version, overridden at build time via ldflags.
var Version = "dev"

// LoggingOpts configures logger construction in SetupLogger.
type LoggingOpts struct {
	// Debug enables debug-level output.
	Debug bool

	// JSON switches the handler to JSON output, for log collectors.
	JSON bool

	// Service is attached to every record as the "service" attribute.
	Service string

	// Version is attached to every record as the "version" attribute.
	Version string
}

// SetupLogger creates a slog logger writing to stderr with the given options.
func SetupLogger(opts *LoggingOpts) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	log := slog.New(handler)
	if opts.Service != "" {
		log = log.With("service", opts.Service)
	}
	if opts.Version != "" {
		log = log.With("version", opts.Version)
	}
	return log
}
