package reader

import "errors"

// Common errors for the playback engine.
var (
	// ErrNoText is returned when SetText receives empty or all-whitespace
	// input. The engine state is left untouched.
	ErrNoText = errors.New("no readable text")

	// ErrNoNarrator is returned by Play when narration is enabled but the
	// engine was built without a narrator.
	ErrNoNarrator = errors.New("narration enabled but no narrator configured")

	// ErrEngineClosed is returned by operations invoked after Cleanup.
	ErrEngineClosed = errors.New("engine has been cleaned up")
)
