// Package notifications publishes operator push notifications via ntfy.
// When no topic is configured every call is a no-op, so callers never need
// to guard notification sends.
package notifications
