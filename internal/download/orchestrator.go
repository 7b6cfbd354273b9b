package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"reel/internal/config"
	"reel/internal/logging"
	"reel/internal/media"
	"reel/internal/scratch"
	"reel/internal/services"
	"reel/internal/sizegate"
)

// Transcoder converts a fetched container into the deliverable format.
type Transcoder interface {
	TranscodeToMP3(ctx context.Context, source, dest string, bitrateKbps int) error
}

// Deliverer transmits a finished artifact to the user.
type Deliverer interface {
	SendFile(ctx context.Context, chatID int64, path string, kind media.Kind) error
}

// Artifact describes the deliverable a pipeline run produced. The file
// itself is gone by the time the run returns; the metadata survives for
// history records and logs.
type Artifact struct {
	Kind      media.Kind
	SizeBytes int64
}

// Orchestrator coordinates fetch, size re-check, transcode, and delivery for
// one chosen stream at a time. It is stateless across runs and safe for
// concurrent use by different sessions.
type Orchestrator struct {
	source      media.Source
	transcoder  Transcoder
	deliverer   Deliverer
	scratchRoot string
	limitBytes  int64
	timeout     time.Duration
	bitrateKbps int
	logger      *slog.Logger
}

// NewOrchestrator wires a pipeline from configuration and collaborators.
func NewOrchestrator(cfg *config.Config, source media.Source, transcoder Transcoder, deliverer Deliverer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		source:      source,
		transcoder:  transcoder,
		deliverer:   deliverer,
		scratchRoot: cfg.Paths.ScratchDir,
		limitBytes:  cfg.Delivery.SizeLimitBytes,
		timeout:     time.Duration(cfg.Delivery.OperationTimeout) * time.Second,
		bitrateKbps: cfg.Delivery.AudioBitrateKbps,
		logger:      logging.NewComponentLogger(logger, "download"),
	}
}

// DeliverVideo fetches a progressive video stream into the session's scratch
// scope and hands it to delivery. The scratch artifact is removed before the
// call returns on every path.
func (o *Orchestrator) DeliverVideo(ctx context.Context, userID, chatID int64, ref *media.Ref, stream media.Stream) (Artifact, error) {
	logger := logging.WithContext(ctx, o.logger)
	artifact := Artifact{Kind: media.KindVideo}

	scope, err := o.newScope(userID, logger)
	if err != nil {
		return artifact, err
	}
	defer scope.Close()

	videoPath := scope.Path("video.mp4")
	scope.Register(videoPath)

	if err := o.fetch(ctx, ref, stream, videoPath); err != nil {
		return artifact, err
	}
	artifact.SizeBytes = fileSize(videoPath)
	logger.Info("video fetched",
		logging.String("resolution", stream.Resolution),
		logging.Int64("size_bytes", artifact.SizeBytes),
	)

	if err := o.deliver(ctx, chatID, videoPath, media.KindVideo); err != nil {
		return artifact, err
	}
	return artifact, nil
}

// DeliverAudio fetches the chosen audio stream, re-checks the downloaded
// size against the delivery ceiling, transcodes to constant-bitrate MP3, and
// hands the result to delivery. The raw download never outlives the run, and
// it is removed before a transcode failure propagates.
func (o *Orchestrator) DeliverAudio(ctx context.Context, userID, chatID int64, ref *media.Ref, stream media.Stream) (Artifact, error) {
	logger := logging.WithContext(ctx, o.logger)
	artifact := Artifact{Kind: media.KindAudio}

	scope, err := o.newScope(userID, logger)
	if err != nil {
		return artifact, err
	}
	defer scope.Close()

	rawPath := scope.Path("audio.source")
	scope.Register(rawPath)

	if err := o.fetch(ctx, ref, stream, rawPath); err != nil {
		return artifact, err
	}

	downloadedBytes := fileSize(rawPath)
	if decision := sizegate.Admit(downloadedBytes, o.limitBytes); !decision.Admitted {
		scope.Remove(rawPath)
		return artifact, services.Wrap(services.ErrSizeLimit, "download", "recheck",
			fmt.Sprintf("downloaded %d bytes exceeds limit by %d", downloadedBytes, decision.OverageBytes), nil)
	}

	mp3Path := scope.Path("audio.mp3")
	scope.Register(mp3Path)

	transcodeCtx, cancel := context.WithTimeout(ctx, o.timeout)
	err = o.transcoder.TranscodeToMP3(transcodeCtx, rawPath, mp3Path, o.bitrateKbps)
	cancel()
	scope.Remove(rawPath)
	if err != nil {
		return artifact, services.Wrap(services.ErrTranscode, "download", "transcode", "", err)
	}

	artifact.SizeBytes = fileSize(mp3Path)
	logger.Info("audio transcoded",
		logging.Int("bitrate_kbps", o.bitrateKbps),
		logging.Int64("size_bytes", artifact.SizeBytes),
	)

	if err := o.deliver(ctx, chatID, mp3Path, media.KindAudio); err != nil {
		return artifact, err
	}
	return artifact, nil
}

func (o *Orchestrator) newScope(userID int64, logger *slog.Logger) (*scratch.Scope, error) {
	key := fmt.Sprintf("user-%d-%s", userID, uuid.NewString())
	scope, err := scratch.NewScope(o.scratchRoot, key, logger)
	if err != nil {
		return nil, services.Wrap(services.ErrDownload, "download", "scratch", "", err)
	}
	return scope, nil
}

func (o *Orchestrator) fetch(ctx context.Context, ref *media.Ref, stream media.Stream, dest string) error {
	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if err := o.source.Fetch(fetchCtx, ref, stream, dest); err != nil {
		return services.Wrap(services.ErrDownload, "download", "fetch", "", err)
	}
	return nil
}

func (o *Orchestrator) deliver(ctx context.Context, chatID int64, path string, kind media.Kind) error {
	deliverCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	if err := o.deliverer.SendFile(deliverCtx, chatID, path, kind); err != nil {
		return services.Wrap(services.ErrDelivery, "download", "deliver", "", err)
	}
	return nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
