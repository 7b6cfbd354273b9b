package main

import (
	"log/slog"

	"reel/internal/config"
	"reel/internal/daemon"
	"reel/internal/download"
	"reel/internal/engine"
	"reel/internal/history"
	"reel/internal/notifications"
	"reel/internal/services/ffmpeg"
	"reel/internal/services/ytdlp"
	"reel/internal/telegram"
)

// buildDaemon wires the provider, pipeline, engine, and transport into a
// runnable daemon.
func buildDaemon(cfg *config.Config, store *history.Store, logger *slog.Logger) (*daemon.Daemon, error) {
	source := ytdlp.NewClient(ytdlp.WithBinary(cfg.Tools.YtDlpBinary))
	transcoder := ffmpeg.NewTranscoder(ffmpeg.WithBinary(cfg.Tools.FFmpegBinary))
	transport := telegram.NewClient(cfg)
	notifier := notifications.NewService(cfg)

	pipeline := download.NewOrchestrator(cfg, source, transcoder, transport, logger)
	eng := engine.New(cfg, source, pipeline, transport, logger,
		engine.WithNotifier(notifier),
		engine.WithRecorder(store),
	)
	poller := telegram.NewPoller(transport, eng, cfg.Telegram.PollTimeout, logger)

	return daemon.New(cfg, eng, poller, store, notifier, logger)
}
