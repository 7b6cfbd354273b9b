// Package history persists one record per terminal pipeline outcome in a
// SQLite database. It is an audit log for operators, not session state:
// conversations themselves are memory-only and do not survive restarts.
package history
