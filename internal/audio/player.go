package audio

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// Common errors for audio playback.
var (
	ErrNothingToPlay  = errors.New("no audio data to play")
	ErrPlayerClosed   = errors.New("audio player is closed")
	ErrFormatMismatch = errors.New("clip format does not match the audio device")
	ErrInvalidFormat  = errors.New("invalid audio format")
)

// Player plays 16-bit little-endian PCM clips. At most one clip plays at a
// time; starting a new clip stops the previous one.
type Player interface {
	// Play starts playing the clip and returns immediately.
	Play(pcm []byte, sampleRate, channels int) error

	// Stop halts playback. No-op when nothing is playing.
	Stop() error

	// IsPlaying reports whether a clip is currently audible.
	IsPlaying() bool

	// Close releases the audio device. The player is unusable afterwards.
	Close() error
}

// OtoPlayer is the production Player backed by ebitengine/oto. The underlying
// audio context is created on first Play and is fixed to that clip's sample
// rate and channel count; later clips must match.
type OtoPlayer struct {
	mu sync.Mutex

	ctx        *oto.Context
	player     *oto.Player
	active     []byte // keeps clip data alive while the device reads it
	sampleRate int
	channels   int
	closed     bool

	logger *log.Logger
}

// NewOtoPlayer creates an idle player. The audio device is not touched until
// the first clip is played.
func NewOtoPlayer(logger *log.Logger) *OtoPlayer {
	if logger == nil {
		logger = log.Default()
	}
	return &OtoPlayer{logger: logger}
}

// Play implements Player.
func (p *OtoPlayer) Play(pcm []byte, sampleRate, channels int) error {
	if len(pcm) == 0 {
		return ErrNothingToPlay
	}
	if sampleRate <= 0 || channels < 1 || channels > 2 {
		return fmt.Errorf("%w: rate=%d channels=%d", ErrInvalidFormat, sampleRate, channels)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlayerClosed
	}

	if err := p.ensureContextLocked(sampleRate, channels); err != nil {
		return err
	}
	p.stopLocked()

	p.active = pcm
	p.player = p.ctx.NewPlayer(bytes.NewReader(pcm))
	p.player.Play()
	p.logger.Debug("playback started",
		"bytes", len(pcm),
		"duration", pcmDuration(len(pcm), sampleRate, channels))
	return nil
}

// Stop implements Player.
func (p *OtoPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlayerClosed
	}
	p.stopLocked()
	return nil
}

// IsPlaying implements Player.
func (p *OtoPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}

// Close implements Player.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.stopLocked()
	p.closed = true
	// oto contexts cannot be torn down; dropping the reference is all we
	// can do.
	p.ctx = nil
	return nil
}

func (p *OtoPlayer) ensureContextLocked(sampleRate, channels int) error {
	if p.ctx != nil {
		if sampleRate != p.sampleRate || channels != p.channels {
			return fmt.Errorf("%w: device is %dHz/%dch, clip is %dHz/%dch",
				ErrFormatMismatch, p.sampleRate, p.channels, sampleRate, channels)
		}
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready
	p.ctx = ctx
	p.sampleRate = sampleRate
	p.channels = channels
	p.logger.Debug("audio device ready", "rate", sampleRate, "channels", channels)
	return nil
}

func (p *OtoPlayer) stopLocked() {
	if p.player == nil {
		return
	}
	p.player.Pause()
	_ = p.player.Close()
	p.player = nil
	p.active = nil
}

// pcmDuration computes the play time of a 16-bit PCM buffer.
func pcmDuration(byteLen, sampleRate, channels int) time.Duration {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	samples := byteLen / (2 * channels)
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
