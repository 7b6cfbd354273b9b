// Package media defines the provider-facing types for reel: resolved source
// references, enumerated streams, the Source interface implemented by
// provider adapters, and the catalog filtering/ordering rules used to present
// streams to users.
package media
