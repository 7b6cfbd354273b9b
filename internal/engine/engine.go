package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"reel/internal/config"
	"reel/internal/download"
	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/media"
	"reel/internal/notifications"
	"reel/internal/services"
	"reel/internal/session"
	"reel/internal/sizegate"
)

// Outbox is the reply surface the transport layer provides.
type Outbox interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Pipeline runs the fetch/transcode/deliver sequence for one chosen stream.
type Pipeline interface {
	DeliverVideo(ctx context.Context, userID, chatID int64, ref *media.Ref, stream media.Stream) (download.Artifact, error)
	DeliverAudio(ctx context.Context, userID, chatID int64, ref *media.Ref, stream media.Stream) (download.Artifact, error)
}

// Recorder persists terminal pipeline outcomes.
type Recorder interface {
	Record(ctx context.Context, delivery history.Delivery) error
}

// Engine is the conversation state machine.
type Engine struct {
	registry   *session.Registry
	source     media.Source
	pipeline   Pipeline
	outbox     Outbox
	notifier   notifications.Service
	recorder   Recorder
	limitBytes int64
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithNotifier attaches a push notification service.
func WithNotifier(notifier notifications.Service) Option {
	return func(e *Engine) { e.notifier = notifier }
}

// WithRecorder attaches a delivery history recorder.
func WithRecorder(recorder Recorder) Option {
	return func(e *Engine) { e.recorder = recorder }
}

// New constructs the engine with its required collaborators.
func New(cfg *config.Config, source media.Source, pipeline Pipeline, outbox Outbox, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		registry:   session.NewRegistry(),
		source:     source,
		pipeline:   pipeline,
		outbox:     outbox,
		limitBytes: cfg.Delivery.SizeLimitBytes,
		timeout:    time.Duration(cfg.Delivery.OperationTimeout) * time.Second,
		logger:     logging.NewComponentLogger(logger, "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sessions returns a point-in-time view of every known session.
func (e *Engine) Sessions() []session.Summary {
	return e.registry.Snapshot()
}

// SessionCount returns the number of known sessions.
func (e *Engine) SessionCount() int {
	return e.registry.Len()
}

// HandleIntent processes one inbound intent through the full
// validate-dispatch-mutate cycle while holding the session's lock. A second
// intent arriving for the same user while one is in flight gets a busy reply
// and leaves the session untouched.
func (e *Engine) HandleIntent(ctx context.Context, intent Intent) {
	ctx = services.WithUserID(ctx, intent.UserID)
	ctx = services.WithIntent(ctx, string(intent.Kind))
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, e.logger)

	sess, release, ok := e.registry.TryAcquire(intent.UserID)
	if !ok {
		e.reply(ctx, intent.ChatID, replyBusy)
		return
	}
	defer release()

	sess.ChatID = intent.ChatID
	logger.Info("processing intent", logging.String(logging.FieldState, string(sess.State)))

	switch intent.Kind {
	case IntentStart:
		sess.Reset()
		e.reply(ctx, sess.ChatID, replyWelcome)
	case IntentCancel:
		sess.Reset()
		e.reply(ctx, sess.ChatID, replyCancelled)
	case IntentText:
		if sess.State != session.StateAwaitingURL {
			e.reply(ctx, sess.ChatID, replyGuidance(sess.State))
			return
		}
		e.handleResolve(ctx, sess, intent.Argument)
	case IntentSelectVideo:
		if sess.State != session.StateAwaitingFormat {
			e.reply(ctx, sess.ChatID, replyGuidance(sess.State))
			return
		}
		e.handleSelectVideo(ctx, sess)
	case IntentSelectAudio:
		if sess.State != session.StateAwaitingFormat {
			e.reply(ctx, sess.ChatID, replyGuidance(sess.State))
			return
		}
		e.handleSelectAudio(ctx, sess)
	case IntentSelectResolution:
		if sess.State != session.StateAwaitingResolution {
			e.reply(ctx, sess.ChatID, replyGuidance(sess.State))
			return
		}
		e.handleSelectResolution(ctx, sess, intent.Argument)
	default:
		e.reply(ctx, sess.ChatID, replyGuidance(sess.State))
	}
}

func (e *Engine) handleResolve(ctx context.Context, sess *session.Session, reference string) {
	resolveCtx, cancel := context.WithTimeout(ctx, e.timeout)
	ref, err := e.source.Resolve(resolveCtx, reference)
	cancel()
	if err != nil {
		logging.WithContext(ctx, e.logger).Info("reference resolution failed", logging.Error(err))
		e.reply(ctx, sess.ChatID, replyInvalidReference)
		return
	}

	sess.Ref = ref
	sess.State = session.StateAwaitingFormat
	e.reply(ctx, sess.ChatID, replyResolved(ref.Title))
}

func (e *Engine) handleSelectVideo(ctx context.Context, sess *session.Session) {
	streams, err := e.enumerate(ctx, sess.Ref)
	if err != nil {
		logging.WithContext(ctx, e.logger).Warn("stream enumeration failed", logging.Error(err))
		sess.Reset()
		e.reply(ctx, sess.ChatID, replyStreamsError)
		return
	}

	catalog := media.ProgressiveVideo(streams)
	if len(catalog) == 0 {
		sess.Reset()
		e.reply(ctx, sess.ChatID, replyNoVideoStreams)
		return
	}

	sess.Catalog = catalog
	sess.State = session.StateAwaitingResolution
	e.reply(ctx, sess.ChatID, replyListing(catalog))
}

func (e *Engine) handleSelectAudio(ctx context.Context, sess *session.Session) {
	streams, err := e.enumerate(ctx, sess.Ref)
	if err != nil {
		logging.WithContext(ctx, e.logger).Warn("stream enumeration failed", logging.Error(err))
		sess.Reset()
		e.reply(ctx, sess.ChatID, replyStreamsError)
		return
	}

	audio := media.AudioOnly(streams)
	if len(audio) == 0 {
		sess.Reset()
		e.reply(ctx, sess.ChatID, replyNoAudioStreams)
		return
	}

	// Provider order is the provider's quality preference; take the first.
	chosen := audio[0]
	if decision := sizegate.Admit(chosen.SizeBytes, e.limitBytes); !decision.Admitted {
		text := replySizeExceededAudio(chosen.SizeBytes, e.limitBytes)
		sess.Reset()
		e.reply(ctx, sess.ChatID, text)
		return
	}

	e.reply(ctx, sess.ChatID, replyFetchingAudio)
	ref := sess.Ref
	artifact, err := e.pipeline.DeliverAudio(ctx, sess.UserID, sess.ChatID, ref, chosen)
	e.recordOutcome(ctx, sess.UserID, ref, artifact, err)
	sess.Reset()
	if err != nil {
		logging.WithContext(ctx, e.logger).Warn("audio pipeline failed", logging.Error(err))
		e.reply(ctx, sess.ChatID, replyForPipelineError(err, e.limitBytes))
		return
	}
	e.reply(ctx, sess.ChatID, replyDone)
}

func (e *Engine) handleSelectResolution(ctx context.Context, sess *session.Session, tag string) {
	stream, ok := media.FindResolution(sess.Catalog, tag)
	if !ok {
		e.reply(ctx, sess.ChatID, replyUnknownResolution(tag))
		return
	}

	if decision := sizegate.Admit(stream.SizeBytes, e.limitBytes); !decision.Admitted {
		e.reply(ctx, sess.ChatID, replySizeExceededVideo(stream.SizeBytes, e.limitBytes))
		return
	}

	e.reply(ctx, sess.ChatID, replyFetchingVideo)
	ref := sess.Ref
	artifact, err := e.pipeline.DeliverVideo(ctx, sess.UserID, sess.ChatID, ref, stream)
	e.recordOutcome(ctx, sess.UserID, ref, artifact, err)
	sess.Reset()
	if err != nil {
		logging.WithContext(ctx, e.logger).Warn("video pipeline failed", logging.Error(err))
		e.reply(ctx, sess.ChatID, replyForPipelineError(err, e.limitBytes))
		return
	}
	e.reply(ctx, sess.ChatID, replyDone)
}

func (e *Engine) enumerate(ctx context.Context, ref *media.Ref) ([]media.Stream, error) {
	enumCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.source.Streams(enumCtx, ref)
}

func (e *Engine) recordOutcome(ctx context.Context, userID int64, ref *media.Ref, artifact download.Artifact, pipelineErr error) {
	title, reference := "", ""
	if ref != nil {
		title, reference = ref.Title, ref.SourceURL
	}

	if e.recorder != nil {
		delivery := history.Delivery{
			UserID:    userID,
			Title:     title,
			Reference: reference,
			Kind:      string(artifact.Kind),
			SizeBytes: artifact.SizeBytes,
			Outcome:   history.OutcomeCompleted,
		}
		if pipelineErr != nil {
			delivery.Outcome = history.OutcomeFailed
			delivery.Detail = string(services.Classify(pipelineErr))
		}
		if err := e.recorder.Record(ctx, delivery); err != nil {
			logging.WithContext(ctx, e.logger).Warn("failed to record delivery history", logging.Error(err))
		}
	}

	if e.notifier != nil {
		var err error
		if pipelineErr != nil {
			err = e.notifier.NotifyDeliveryFailed(ctx, title, string(artifact.Kind), string(services.Classify(pipelineErr)))
		} else {
			err = e.notifier.NotifyDeliveryCompleted(ctx, title, string(artifact.Kind), artifact.SizeBytes)
		}
		if err != nil {
			logging.WithContext(ctx, e.logger).Warn("failed to publish notification", logging.Error(err))
		}
	}
}

func (e *Engine) reply(ctx context.Context, chatID int64, text string) {
	if err := e.outbox.SendText(ctx, chatID, text); err != nil {
		logging.WithContext(ctx, e.logger).Warn("failed to send reply", logging.Error(err))
	}
}
