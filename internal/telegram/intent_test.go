package telegram

import (
	"testing"

	"reel/internal/engine"
)

func messageUpdate(text string) Update {
	return Update{
		UpdateID: 1,
		Message: &Message{
			MessageID: 10,
			Text:      text,
			Chat:      Chat{ID: 55},
			From:      &User{ID: 77},
		},
	}
}

func TestParseUpdateCommands(t *testing.T) {
	cases := []struct {
		text     string
		kind     engine.IntentKind
		argument string
	}{
		{"/start", engine.IntentStart, ""},
		{"/cancel", engine.IntentCancel, ""},
		{"/video", engine.IntentSelectVideo, ""},
		{"/audio", engine.IntentSelectAudio, ""},
		{"/res_1080p", engine.IntentSelectResolution, "1080p"},
		{"/res_720p extra words", engine.IntentSelectResolution, "720p"},
		{"/start@reelbot", engine.IntentStart, ""},
		{"https://example.com/watch?v=abc", engine.IntentText, "https://example.com/watch?v=abc"},
		{"  plain text  ", engine.IntentText, "plain text"},
		{"/unknown", engine.IntentText, "/unknown"},
	}

	for _, tc := range cases {
		intent, ok := ParseUpdate(messageUpdate(tc.text))
		if !ok {
			t.Fatalf("%q: expected an intent", tc.text)
		}
		if intent.Kind != tc.kind {
			t.Fatalf("%q: expected kind %q, got %q", tc.text, tc.kind, intent.Kind)
		}
		if intent.Argument != tc.argument {
			t.Fatalf("%q: expected argument %q, got %q", tc.text, tc.argument, intent.Argument)
		}
		if intent.UserID != 77 || intent.ChatID != 55 {
			t.Fatalf("%q: expected sender identity to be carried, got %+v", tc.text, intent)
		}
	}
}

func TestParseUpdateDropsUnusableUpdates(t *testing.T) {
	if _, ok := ParseUpdate(Update{UpdateID: 1}); ok {
		t.Fatal("expected update without message to be dropped")
	}
	if _, ok := ParseUpdate(messageUpdate("   ")); ok {
		t.Fatal("expected empty text to be dropped")
	}
	if _, ok := ParseUpdate(messageUpdate("/res_")); ok {
		t.Fatal("expected bare resolution command to be dropped")
	}

	update := messageUpdate("/start")
	update.Message.From = nil
	if _, ok := ParseUpdate(update); ok {
		t.Fatal("expected update without sender to be dropped")
	}
}
