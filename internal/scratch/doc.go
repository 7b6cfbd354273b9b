// Package scratch guarantees cleanup of temporary download and transcode
// artifacts. Each pipeline run acquires a Scope partitioned by session, and
// every registered path is removed on every exit path before control returns
// to the engine. Deletion failures are logged, never propagated, so they
// cannot mask the primary outcome.
package scratch
