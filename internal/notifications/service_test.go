package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reel/internal/config"
	"reel/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyDeliveryCompleted(context.Background(), "Example", "video", 1<<20); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	type request struct {
		title    string
		tags     string
		priority string
		body     string
	}
	var got request

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = request{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	tests := []struct {
		name           string
		publish        func() error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "delivery completed",
			publish: func() error {
				return svc.NotifyDeliveryCompleted(context.Background(), "Example Clip", "video", 30<<20)
			},
			expectTitle:   "Reel - Delivered",
			expectMessage: "Delivered video: Example Clip (30.00 MB)",
			expectTags:    "reel,delivery,completed",
		},
		{
			name: "delivery failed",
			publish: func() error {
				return svc.NotifyDeliveryFailed(context.Background(), "Example Clip", "audio", "transcode")
			},
			expectTitle:    "Reel - Delivery Failed",
			expectMessage:  "Failed audio: Example Clip\nReason: transcode",
			expectTags:     "reel,delivery,failed",
			expectPriority: "high",
		},
		{
			name:           "daemon started",
			publish:        func() error { return svc.NotifyDaemonStarted(context.Background()) },
			expectTitle:    "Reel - Started",
			expectMessage:  "Daemon started and polling for updates",
			expectTags:     "reel,daemon",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.publish(); err != nil {
				t.Fatalf("publish: %v", err)
			}
			if got.title != tc.expectTitle {
				t.Errorf("title: got %q want %q", got.title, tc.expectTitle)
			}
			if got.body != tc.expectMessage {
				t.Errorf("message: got %q want %q", got.body, tc.expectMessage)
			}
			if got.tags != tc.expectTags {
				t.Errorf("tags: got %q want %q", got.tags, tc.expectTags)
			}
			if got.priority != tc.expectPriority {
				t.Errorf("priority: got %q want %q", got.priority, tc.expectPriority)
			}
		})
	}
}

func TestNtfyServiceRespectsToggles(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Deliveries = false
	cfg.Notifications.Errors = false
	svc := notifications.NewService(&cfg)

	if err := svc.NotifyDeliveryCompleted(context.Background(), "t", "video", 1); err != nil {
		t.Fatalf("completed: %v", err)
	}
	if err := svc.NotifyDeliveryFailed(context.Background(), "t", "video", "x"); err != nil {
		t.Fatalf("failed: %v", err)
	}
	if requests != 0 {
		t.Fatalf("expected no requests with toggles off, got %d", requests)
	}
}

func TestNtfyServiceSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic gone", http.StatusGone)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error from ntfy failure")
	}
	if !strings.Contains(err.Error(), "410") {
		t.Fatalf("expected status in error, got %v", err)
	}
}
