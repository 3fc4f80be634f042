// Package audio provides cross-platform PCM playback for narration audio.
package audio
