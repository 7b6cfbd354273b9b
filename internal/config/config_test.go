package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reel/internal/config"
)

func TestLoadDefaultConfigUsesEnvTokenAndExpandsPaths(t *testing.T) {
	t.Setenv("REEL_BOT_TOKEN", "test-token")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantScratch := filepath.Join(tempHome, ".local", "share", "reel", "scratch")
	if cfg.Paths.ScratchDir != wantScratch {
		t.Fatalf("unexpected scratch dir: got %q want %q", cfg.Paths.ScratchDir, wantScratch)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7519" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Telegram.BotToken != "test-token" {
		t.Fatalf("expected bot token from env, got %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.BaseURL != "https://api.telegram.org" {
		t.Fatalf("unexpected telegram base url: %q", cfg.Telegram.BaseURL)
	}
	if cfg.Delivery.SizeLimitBytes != 50*1024*1024 {
		t.Fatalf("unexpected size limit: %d", cfg.Delivery.SizeLimitBytes)
	}
	if cfg.Delivery.OperationTimeout != 120 {
		t.Fatalf("unexpected operation timeout: %d", cfg.Delivery.OperationTimeout)
	}
	if cfg.Delivery.AudioBitrateKbps != 192 {
		t.Fatalf("unexpected audio bitrate: %d", cfg.Delivery.AudioBitrateKbps)
	}
	if cfg.Tools.YtDlpBinary != "yt-dlp" || cfg.Tools.FFmpegBinary != "ffmpeg" {
		t.Fatalf("unexpected tool binaries: %q %q", cfg.Tools.YtDlpBinary, cfg.Tools.FFmpegBinary)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ScratchDir, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.HistoryDBPath)} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadParsesFileOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("REEL_BOT_TOKEN", "")

	configPath := filepath.Join(tempHome, "reel.toml")
	body := strings.Join([]string{
		"[telegram]",
		`bot_token = "file-token"`,
		"poll_timeout = 20",
		"",
		"[delivery]",
		"size_limit_bytes = 1048576",
		"",
		"[logging]",
		`format = "json"`,
		`level = "debug"`,
	}, "\n")
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Telegram.BotToken != "file-token" {
		t.Fatalf("unexpected bot token: %q", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.PollTimeout != 20 {
		t.Fatalf("unexpected poll timeout: %d", cfg.Telegram.PollTimeout)
	}
	if cfg.Delivery.SizeLimitBytes != 1048576 {
		t.Fatalf("unexpected size limit: %d", cfg.Delivery.SizeLimitBytes)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadFailsWithoutBotToken(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("REEL_BOT_TOKEN", "")

	if _, _, _, err := config.Load(""); err == nil {
		t.Fatal("expected error when bot token is missing")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"tiny size limit", func(c *config.Config) { c.Delivery.SizeLimitBytes = 100 }},
		{"zero timeout", func(c *config.Config) { c.Delivery.OperationTimeout = 0 }},
		{"bitrate too low", func(c *config.Config) { c.Delivery.AudioBitrateKbps = 8 }},
		{"bitrate too high", func(c *config.Config) { c.Delivery.AudioBitrateKbps = 512 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }},
		{"poll timeout too high", func(c *config.Config) { c.Telegram.PollTimeout = 999 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Telegram.BotToken = "token"
			cfg.Logging.Format = "console"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("# stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Overwrite protection is the caller's concern; CreateSample itself
	// always writes.
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(payload), "bot_token") {
		t.Fatalf("expected sample content, got %q", payload)
	}
	if strings.Contains(string(payload), "# stale") {
		t.Fatal("expected existing content to be replaced")
	}
}
