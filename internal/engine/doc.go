// Package engine drives the per-user retrieval conversation: it owns the
// session registry, validates each inbound intent against the session's
// state, and dispatches to the catalog, size gate, and download pipeline.
// It is the only component that reads or writes Session.
package engine
