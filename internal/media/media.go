package media

import (
	"context"
	"time"
)

// Kind distinguishes the two deliverable artifact flavors.
type Kind string

const (
	// KindVideo marks a progressive stream carrying audio and video in one container.
	KindVideo Kind = "video"
	// KindAudio marks an audio-only stream.
	KindAudio Kind = "audio"
)

// Ref is the resolved handle for one source reference. It is opaque to the
// engine; provider adapters put whatever they need into it to serve later
// stream enumeration and fetch calls.
type Ref struct {
	ID       string
	Title    string
	Duration time.Duration
	// SourceURL is the original reference the provider resolved. Fetches
	// re-present it to the provider together with a stream handle.
	SourceURL string
}

// Stream describes one fetchable encoding option.
type Stream struct {
	// Resolution is the label shown to users (e.g. "1080p"). Empty for
	// audio-only streams.
	Resolution string
	FPS        int
	SizeBytes  int64
	Kind       Kind
	// Handle is the provider token used to request this exact encoding.
	Handle string
}

// Source resolves references to metadata and fetches chosen encodings.
// Implementations must be safe for concurrent use across sessions.
type Source interface {
	// Resolve validates a reference and returns its metadata handle.
	Resolve(ctx context.Context, reference string) (*Ref, error)
	// Streams enumerates every encoding the provider offers for ref, in
	// provider-declared order.
	Streams(ctx context.Context, ref *Ref) ([]Stream, error)
	// Fetch downloads the encoding identified by stream.Handle to dest.
	Fetch(ctx context.Context, ref *Ref, stream Stream, dest string) error
}
