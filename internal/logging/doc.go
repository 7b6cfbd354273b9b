// Package logging configures the process-wide slog logger and provides the
// attribute helpers and standardized field names used across the daemon.
package logging
