package telegram

import (
	"strings"

	"reel/internal/engine"
)

const resolutionCommandPrefix = "/res_"

// ParseUpdate maps one inbound update to an engine intent. Updates without a
// usable message are dropped.
func ParseUpdate(update Update) (engine.Intent, bool) {
	message := update.Message
	if message == nil || message.From == nil {
		return engine.Intent{}, false
	}
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return engine.Intent{}, false
	}

	intent := engine.Intent{
		UserID: message.From.ID,
		ChatID: message.Chat.ID,
	}

	if !strings.HasPrefix(text, "/") {
		intent.Kind = engine.IntentText
		intent.Argument = text
		return intent, true
	}

	command := text
	if idx := strings.IndexAny(command, " \t"); idx != -1 {
		command = command[:idx]
	}
	// Commands in group chats arrive as /command@botname.
	if idx := strings.Index(command, "@"); idx != -1 {
		command = command[:idx]
	}

	switch {
	case command == "/start":
		intent.Kind = engine.IntentStart
	case command == "/cancel":
		intent.Kind = engine.IntentCancel
	case command == "/video":
		intent.Kind = engine.IntentSelectVideo
	case command == "/audio":
		intent.Kind = engine.IntentSelectAudio
	case strings.HasPrefix(command, resolutionCommandPrefix):
		tag := strings.TrimPrefix(command, resolutionCommandPrefix)
		if tag == "" {
			return engine.Intent{}, false
		}
		intent.Kind = engine.IntentSelectResolution
		intent.Argument = tag
	default:
		// Unknown commands flow through as text so the engine can answer
		// with guidance for the current state.
		intent.Kind = engine.IntentText
		intent.Argument = text
	}
	return intent, true
}
