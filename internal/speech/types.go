// Package speech turns text into narrated audio and reports word-level
// progress back to the playback engine.
package speech

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"
)

// Common errors for speech synthesis.
var (
	ErrEmptyText      = errors.New("no text to narrate")
	ErrNoAudio        = errors.New("synthesizer returned no audio")
	ErrEngineNotFound = errors.New("unknown speech engine")
)

// Clip is synthesized audio: 16-bit little-endian PCM plus its format.
type Clip struct {
	PCM        []byte
	SampleRate int
	Channels   int
	Duration   time.Duration
}

// Request describes one synthesis call.
type Request struct {
	Text  string
	Voice string
	// Speed is the narration speed multiplier (1.0 = normal).
	Speed float64
}

// Synthesizer converts text into a Clip.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Clip, error)
	Name() string
}

// cacheKey derives a stable cache key from everything that affects the
// generated audio.
func cacheKey(req Request) string {
	sum := sha256.Sum256([]byte(req.Text))
	return fmt.Sprintf("%x|%s|%.3f", sum[:8], req.Voice, req.Speed)
}

// clipDuration computes play time for 16-bit PCM.
func clipDuration(byteLen, sampleRate, channels int) time.Duration {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	samples := byteLen / (2 * channels)
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
