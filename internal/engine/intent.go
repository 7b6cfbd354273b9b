package engine

// IntentKind identifies the parsed user action carried by an intent.
type IntentKind string

const (
	IntentStart            IntentKind = "start"
	IntentText             IntentKind = "text"
	IntentSelectVideo      IntentKind = "select_video"
	IntentSelectAudio      IntentKind = "select_audio"
	IntentSelectResolution IntentKind = "select_resolution"
	IntentCancel           IntentKind = "cancel"
)

// Intent is one parsed inbound user action. The transport layer produces
// intents; the engine consumes them.
type Intent struct {
	Kind IntentKind
	// Argument carries the source reference for IntentText and the
	// resolution tag for IntentSelectResolution.
	Argument string
	UserID   int64
	ChatID   int64
}
