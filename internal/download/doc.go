// Package download runs the fetch/transcode/deliver pipeline for one chosen
// stream. Every run owns a scratch scope partitioned by session, re-checks
// downloaded sizes against the delivery ceiling, and removes every
// intermediate artifact before returning, whatever the outcome.
package download
