// Package session holds per-user conversation state and the registry that
// enforces single-flight processing: one in-flight intent per user, sessions
// for different users fully parallel. Sessions live only in memory and die
// with the process.
package session
