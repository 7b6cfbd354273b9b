// Package ytdlp adapts the yt-dlp command-line tool to the media.Source
// interface. All metadata comes from a single JSON probe per invocation, so
// the client holds no per-reference state and is safe for concurrent use.
package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"reel/internal/media"
	"reel/internal/services"
)

var commandContext = exec.CommandContext

// Option configures the CLI client.
type Option func(*Client)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// Client wraps the yt-dlp command-line downloader.
type Client struct {
	binary string
}

// NewClient constructs a client using defaults.
func NewClient(opts ...Option) *Client {
	client := &Client{binary: "yt-dlp"}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type probePayload struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Duration float64       `json:"duration"`
	Formats  []probeFormat `json:"formats"`
}

type probeFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
}

// Resolve probes the reference and returns its metadata handle.
func (c *Client) Resolve(ctx context.Context, reference string) (*media.Ref, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, services.Wrap(services.ErrInvalidReference, "ytdlp", "resolve", "empty reference", nil)
	}

	payload, err := c.probe(ctx, reference)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidReference, "ytdlp", "resolve", "probe failed", err)
	}
	if payload.ID == "" {
		return nil, services.Wrap(services.ErrInvalidReference, "ytdlp", "resolve", "reference resolved to no media", nil)
	}

	return &media.Ref{
		ID:        payload.ID,
		Title:     payload.Title,
		Duration:  time.Duration(payload.Duration * float64(time.Second)),
		SourceURL: reference,
	}, nil
}

// Streams enumerates the deliverable encodings for ref in the provider's
// preference order, most preferred first.
func (c *Client) Streams(ctx context.Context, ref *media.Ref) ([]media.Stream, error) {
	if ref == nil || ref.SourceURL == "" {
		return nil, services.Wrap(services.ErrMetadataFetch, "ytdlp", "streams", "missing reference", nil)
	}

	payload, err := c.probe(ctx, ref.SourceURL)
	if err != nil {
		return nil, services.Wrap(services.ErrMetadataFetch, "ytdlp", "streams", "probe failed", err)
	}

	// yt-dlp lists formats worst first; walk backwards so the provider's
	// preferred encoding leads.
	streams := make([]media.Stream, 0, len(payload.Formats))
	for i := len(payload.Formats) - 1; i >= 0; i-- {
		format := payload.Formats[i]
		stream, ok := classify(format)
		if !ok {
			continue
		}
		streams = append(streams, stream)
	}
	return streams, nil
}

// Fetch downloads the encoding identified by stream.Handle to dest.
func (c *Client) Fetch(ctx context.Context, ref *media.Ref, stream media.Stream, dest string) error {
	if ref == nil || ref.SourceURL == "" {
		return services.Wrap(services.ErrDownload, "ytdlp", "fetch", "missing reference", nil)
	}
	if stream.Handle == "" {
		return services.Wrap(services.ErrDownload, "ytdlp", "fetch", "missing format handle", nil)
	}
	if dest == "" {
		return services.Wrap(services.ErrDownload, "ytdlp", "fetch", "missing destination path", nil)
	}

	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--no-progress",
		"-f", stream.Handle,
		"-o", dest,
		ref.SourceURL,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
		return services.Wrap(services.ErrDownload, "ytdlp", "fetch", "yt-dlp download failed", detail)
	}
	return nil
}

func (c *Client) probe(ctx context.Context, reference string) (*probePayload, error) {
	args := []string{"-J", "--no-playlist", "--no-warnings", reference}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}

	var payload probePayload
	if err := json.Unmarshal(output, &payload); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &payload, nil
}

// classify maps one yt-dlp format to a deliverable stream. Progressive MP4
// formats carry both codecs in one container; audio-only formats carry just
// an audio codec. Everything else is skipped.
func classify(format probeFormat) (media.Stream, bool) {
	if format.FormatID == "" {
		return media.Stream{}, false
	}

	hasVideo := format.VCodec != "" && format.VCodec != "none"
	hasAudio := format.ACodec != "" && format.ACodec != "none"

	size := format.Filesize
	if size == 0 {
		size = format.FilesizeApprox
	}

	switch {
	case hasVideo && hasAudio && format.Ext == "mp4":
		if format.Height <= 0 {
			return media.Stream{}, false
		}
		return media.Stream{
			Resolution: fmt.Sprintf("%dp", format.Height),
			FPS:        int(format.FPS),
			SizeBytes:  size,
			Kind:       media.KindVideo,
			Handle:     format.FormatID,
		}, true
	case hasAudio && !hasVideo:
		return media.Stream{
			SizeBytes: size,
			Kind:      media.KindAudio,
			Handle:    format.FormatID,
		}, true
	default:
		return media.Stream{}, false
	}
}

var _ media.Source = (*Client)(nil)
