// Package ffmpeg adapts the ffmpeg command-line tool for audio transcoding.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"reel/internal/services"
)

var commandContext = exec.CommandContext

// Option configures the transcoder.
type Option func(*Transcoder)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(t *Transcoder) {
		if binary != "" {
			t.binary = binary
		}
	}
}

// Transcoder wraps ffmpeg for constant-bitrate MP3 conversion.
type Transcoder struct {
	binary string
}

// NewTranscoder constructs a transcoder using defaults.
func NewTranscoder(opts ...Option) *Transcoder {
	transcoder := &Transcoder{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(transcoder)
	}
	return transcoder
}

// TranscodeToMP3 converts source to a constant-bitrate MP3 at dest. The
// bitrate is in kbps.
func (t *Transcoder) TranscodeToMP3(ctx context.Context, source, dest string, bitrateKbps int) error {
	if source == "" {
		return services.Wrap(services.ErrTranscode, "ffmpeg", "transcode", "missing source path", nil)
	}
	if dest == "" {
		return services.Wrap(services.ErrTranscode, "ffmpeg", "transcode", "missing destination path", nil)
	}
	if bitrateKbps <= 0 {
		return services.Wrap(services.ErrTranscode, "ffmpeg", "transcode", fmt.Sprintf("invalid bitrate %d", bitrateKbps), nil)
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-codec:a", "libmp3lame",
		"-b:a", fmt.Sprintf("%dk", bitrateKbps),
		dest,
	}
	cmd := commandContext(ctx, t.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
		return services.Wrap(services.ErrTranscode, "ffmpeg", "transcode", "ffmpeg conversion failed", detail)
	}
	return nil
}
