package reader

// WordsEvent reports a change to the visible word group.
type WordsEvent struct {
	Words     []Word  // the visible group, decomposed around focus characters
	Cursor    int     // index of the first token in the group
	Progress  float64 // cursor / token count, 0 when no text is loaded
	Remaining string  // formatted time remaining, "m:ss"
	Completed bool    // true when the cursor has passed the last token
}

// PlayStateEvent reports a play/pause transition.
type PlayStateEvent struct {
	Playing bool
}

// Subscriber receives engine notifications. Nil callbacks are skipped.
// Callbacks run synchronously on the goroutine performing the mutation, after
// the engine's internal state has settled.
type Subscriber struct {
	OnWords     func(WordsEvent)
	OnPlayState func(PlayStateEvent)
	OnError     func(error)
}

// Snapshot is a point-in-time copy of everything the engine exposes.
type Snapshot struct {
	Words     []Word
	Playing   bool
	Progress  float64
	Remaining string
	Settings  Settings
	Cursor    int
	Tokens    int
}
