package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reel/internal/config"
)

const userAgent = "Reel/0.1.0"

// Service defines the notification surface exposed to the engine and daemon.
type Service interface {
	NotifyDeliveryCompleted(ctx context.Context, title, kind string, sizeBytes int64) error
	NotifyDeliveryFailed(ctx context.Context, title, kind, reason string) error
	NotifyDaemonStarted(ctx context.Context) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:   topic,
		client:     &http.Client{Timeout: timeout},
		deliveries: cfg.Notifications.Deliveries,
		errors:     cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	deliveries bool
	errors     bool
}

func (n *ntfyService) NotifyDeliveryCompleted(ctx context.Context, title, kind string, sizeBytes int64) error {
	if !n.deliveries {
		return nil
	}
	title = strings.TrimSpace(title)
	sizeMB := float64(sizeBytes) / (1024 * 1024)
	data := payload{
		title:   "Reel - Delivered",
		message: fmt.Sprintf("Delivered %s: %s (%.2f MB)", kind, title, sizeMB),
		tags:    []string{"reel", "delivery", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDeliveryFailed(ctx context.Context, title, kind, reason string) error {
	if !n.errors {
		return nil
	}
	title = strings.TrimSpace(title)
	if reason = strings.TrimSpace(reason); reason == "" {
		reason = "unknown"
	}
	data := payload{
		title:    "Reel - Delivery Failed",
		message:  fmt.Sprintf("Failed %s: %s\nReason: %s", kind, title, reason),
		tags:     []string{"reel", "delivery", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDaemonStarted(ctx context.Context) error {
	data := payload{
		title:   "Reel - Started",
		message: "Daemon started and polling for updates",
		tags:    []string{"reel", "daemon"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Reel - Test",
		message:  "Notification system test",
		tags:     []string{"reel", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyDeliveryCompleted(context.Context, string, string, int64) error { return nil }
func (noopService) NotifyDeliveryFailed(context.Context, string, string, string) error   { return nil }
func (noopService) NotifyDaemonStarted(context.Context) error                            { return nil }
func (noopService) TestNotification(context.Context) error                               { return nil }
