// Package daemon runs the long-lived reel process: it enforces
// single-instance execution, sweeps stale scratch directories on startup,
// drives the Telegram update poller, and serves the local status API.
package daemon
