package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// PiperOptions configures the local Piper synthesizer.
type PiperOptions struct {
	Binary     string        // piper executable, default "piper"
	ModelPath  string        // path to the .onnx voice model
	SampleRate int           // output rate of the model, default 22050
	Timeout    time.Duration // per-synthesis timeout
}

// PiperSynthesizer shells out to a local piper binary producing raw 16-bit
// mono PCM on stdout. Piper's length_scale is the inverse of the speed
// multiplier.
type PiperSynthesizer struct {
	opts   PiperOptions
	logger *log.Logger
}

// NewPiperSynthesizer verifies the binary is reachable and returns the
// synthesizer.
func NewPiperSynthesizer(opts PiperOptions, logger *log.Logger) (*PiperSynthesizer, error) {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Binary == "" {
		opts.Binary = "piper"
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 22050
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.ModelPath == "" {
		return nil, fmt.Errorf("piper: model path is required")
	}
	if _, err := exec.LookPath(opts.Binary); err != nil {
		return nil, fmt.Errorf("piper binary not found: %w", err)
	}
	return &PiperSynthesizer{opts: opts, logger: logger}, nil
}

// Name implements Synthesizer.
func (p *PiperSynthesizer) Name() string { return "piper" }

// Synthesize implements Synthesizer.
func (p *PiperSynthesizer) Synthesize(ctx context.Context, req Request) (*Clip, error) {
	if req.Text == "" {
		return nil, ErrEmptyText
	}

	speed := req.Speed
	if speed <= 0 {
		speed = 1.0
	}
	lengthScale := 1.0 / speed

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.opts.Binary,
		"--model", p.opts.ModelPath,
		"--output-raw",
		"--length-scale", fmt.Sprintf("%.3f", lengthScale),
	)
	cmd.Stdin = strings.NewReader(req.Text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("piper: %w: %s", err, detail)
		}
		return nil, fmt.Errorf("piper: %w", err)
	}

	pcm := stdout.Bytes()
	if len(pcm) == 0 {
		return nil, ErrNoAudio
	}

	clip := &Clip{
		PCM:        pcm,
		SampleRate: p.opts.SampleRate,
		Channels:   1,
		Duration:   clipDuration(len(pcm), p.opts.SampleRate, 1),
	}
	p.logger.Debug("synthesized",
		"engine", "piper",
		"chars", len(req.Text),
		"duration", clip.Duration,
		"took", time.Since(start))
	return clip, nil
}
