package reader

import "context"

// NarrationRequest asks the speech collaborator to narrate text starting at
// the engine's current cursor. The collaborator divides the total audio
// duration evenly across Words and invokes OnWord once per token at its
// proportional timestamp.
type NarrationRequest struct {
	// Text is the remaining text to narrate, cursor onward.
	Text string
	// Voice identifies the voice to synthesize with.
	Voice string
	// Speed is the narration speed multiplier derived from the WPM setting.
	Speed float64
	// Words is the number of tokens contained in Text.
	Words int

	// OnWord reports the zero-based token offset reached within Text.
	OnWord func(offset int)
	// OnDone fires once when the audio ends naturally.
	OnDone func()
	// OnError reports a synthesis or playback failure. At most one of
	// OnDone/OnError fires per request.
	OnError func(err error)
}

// NarrationHandle cancels an in-flight narration. Cancel is idempotent and
// suppresses any callbacks that have not fired yet.
type NarrationHandle interface {
	Cancel()
}

// Narrator is the external speech-synthesis collaborator. Begin must return
// promptly; synthesis and playback happen in the background with progress
// reported through the request callbacks.
type Narrator interface {
	Begin(ctx context.Context, req NarrationRequest) (NarrationHandle, error)
}
