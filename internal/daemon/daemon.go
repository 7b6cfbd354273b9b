package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"reel/internal/config"
	"reel/internal/engine"
	"reel/internal/history"
	"reel/internal/logging"
	"reel/internal/notifications"
	"reel/internal/scratch"
	"reel/internal/telegram"
)

// defaultStaleScratchAge applies when the configured sweep age is unset.
const defaultStaleScratchAge = 24 * time.Hour

// Daemon coordinates the background services and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	engine   *engine.Engine
	poller   *telegram.Poller
	store    *history.Store
	notifier notifications.Service

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running    atomic.Bool
	cancel     context.CancelFunc
	pollerDone sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool            `json:"running"`
	Sessions      []SessionStatus `json:"sessions"`
	ScratchDir    string          `json:"scratch_dir"`
	HistoryDBPath string          `json:"history_db_path"`
	LockFilePath  string          `json:"lock_file_path"`
}

// SessionStatus is one session's view in the status API.
type SessionStatus struct {
	UserID int64  `json:"user_id"`
	State  string `json:"state"`
	Title  string `json:"title,omitempty"`
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, eng *engine.Engine, poller *telegram.Poller, store *history.Store, notifier notifications.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || eng == nil || poller == nil || logger == nil {
		return nil, errors.New("daemon requires config, engine, poller, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "reeld.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		engine:   eng,
		poller:   poller,
		store:    store,
		notifier: notifier,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock, sweeps stale scratch directories, and
// launches the poller and status API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reel daemon instance is already running")
	}

	maxAge := time.Duration(d.cfg.Workflow.ScratchMaxAgeHours) * time.Hour
	if maxAge <= 0 {
		maxAge = defaultStaleScratchAge
	}
	result := scratch.CleanStale(d.cfg.Paths.ScratchDir, maxAge, d.logger)
	if len(result.Removed) > 0 || len(result.Errors) > 0 {
		d.logger.Info("startup scratch sweep finished",
			logging.Int("removed", len(result.Removed)),
			logging.Int("failed", len(result.Errors)))
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if d.api != nil {
		if err := d.api.start(runCtx); err != nil {
			cancel()
			d.cancel = nil
			_ = d.lock.Unlock()
			return err
		}
	}

	d.pollerDone.Add(1)
	go func() {
		defer d.pollerDone.Done()
		if err := d.poller.Run(runCtx); err != nil {
			d.logger.Error("update poller stopped", logging.Error(err))
		}
	}()

	d.running.Store(true)
	d.logger.Info("reel daemon started", logging.String("lock", d.lockPath))
	if d.notifier != nil {
		if err := d.notifier.NotifyDaemonStarted(runCtx); err != nil {
			d.logger.Warn("failed to publish startup notification", logging.Error(err))
		}
	}
	return nil
}

// Stop halts polling, waits for in-flight work, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.pollerDone.Wait()
	if d.api != nil {
		d.api.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("reel daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports runtime information for the status API and CLI.
func (d *Daemon) Status() Status {
	summaries := d.engine.Sessions()
	sessions := make([]SessionStatus, len(summaries))
	for i, summary := range summaries {
		sessions[i] = SessionStatus{
			UserID: summary.UserID,
			State:  summary.State,
			Title:  summary.Title,
		}
	}

	status := Status{
		Running:      d.running.Load(),
		Sessions:     sessions,
		ScratchDir:   d.cfg.Paths.ScratchDir,
		LockFilePath: d.lockPath,
	}
	if d.store != nil {
		status.HistoryDBPath = d.store.Path()
	}
	return status
}

// APIAddr returns the status API's bound address, or "" when disabled.
func (d *Daemon) APIAddr() string {
	return d.api.addr()
}

// History returns the most recent delivery records.
func (d *Daemon) History(ctx context.Context, limit int) ([]history.Delivery, error) {
	if d.store == nil {
		return nil, errors.New("history store unavailable")
	}
	return d.store.List(ctx, limit)
}
