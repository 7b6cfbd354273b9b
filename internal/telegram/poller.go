package telegram

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"reel/internal/engine"
	"reel/internal/logging"
)

// waitAfterError is how long the poller backs off when getUpdates fails.
const waitAfterError = 3 * time.Second

// Handler consumes one parsed intent. The poller invokes it on its own
// goroutine per intent; serialization per user is the handler's concern.
type Handler interface {
	HandleIntent(ctx context.Context, intent engine.Intent)
}

// Poller drives the long-poll update loop and dispatches parsed intents.
type Poller struct {
	client  *Client
	handler Handler
	timeout int
	logger  *slog.Logger
}

// NewPoller builds a poller. timeout is the getUpdates hold time in seconds.
func NewPoller(client *Client, handler Handler, timeout int, logger *slog.Logger) *Poller {
	if timeout <= 0 {
		timeout = 50
	}
	return &Poller{
		client:  client,
		handler: handler,
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "telegram"),
	}
}

// Run polls until ctx is cancelled, then waits for in-flight intents to
// finish before returning.
func (p *Poller) Run(ctx context.Context) error {
	var inflight sync.WaitGroup
	defer inflight.Wait()

	var offset int64
	for {
		updates, err := p.client.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			p.logger.Warn("getUpdates failed", logging.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(waitAfterError):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			intent, ok := ParseUpdate(update)
			if !ok {
				continue
			}
			inflight.Add(1)
			go func(intent engine.Intent) {
				defer inflight.Done()
				p.handler.HandleIntent(ctx, intent)
			}(intent)
		}
	}
}
