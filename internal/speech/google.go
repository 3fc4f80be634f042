package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"
	googleScope    = "https://www.googleapis.com/auth/cloud-platform"

	// Google caps speaking_rate at [0.25, 4.0].
	googleMinRate = 0.25
	googleMaxRate = 4.0
)

// GoogleOptions configures the Google Cloud TTS synthesizer.
type GoogleOptions struct {
	LanguageCode string        // e.g. "en-US"
	DefaultVoice string        // used when a request has no voice
	SampleRate   int           // LINEAR16 output rate, e.g. 22050
	Timeout      time.Duration // per-request timeout
}

// GoogleSynthesizer calls the Google Cloud Text-to-Speech REST API using
// application default credentials.
type GoogleSynthesizer struct {
	client *http.Client
	opts   GoogleOptions
	logger *log.Logger
}

// NewGoogleSynthesizer resolves ADC credentials and returns a ready
// synthesizer. Fails fast when no credentials are available so the caller can
// fall back to another engine at startup.
func NewGoogleSynthesizer(ctx context.Context, opts GoogleOptions, logger *log.Logger) (*GoogleSynthesizer, error) {
	if logger == nil {
		logger = log.Default()
	}
	if opts.LanguageCode == "" {
		opts.LanguageCode = "en-US"
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 22050
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	creds, err := google.FindDefaultCredentials(ctx, googleScope)
	if err != nil {
		return nil, fmt.Errorf("google credentials: %w", err)
	}
	client := oauth2.NewClient(ctx, creds.TokenSource)
	client.Timeout = opts.Timeout

	logger.Debug("google tts ready", "language", opts.LanguageCode, "rate", opts.SampleRate)
	return &GoogleSynthesizer{client: client, opts: opts, logger: logger}, nil
}

// Name implements Synthesizer.
func (g *GoogleSynthesizer) Name() string { return "google" }

type googleSynthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name,omitempty"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding   string  `json:"audioEncoding"`
		SpeakingRate    float64 `json:"speakingRate"`
		SampleRateHertz int     `json:"sampleRateHertz"`
	} `json:"audioConfig"`
}

type googleSynthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize implements Synthesizer.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, req Request) (*Clip, error) {
	if req.Text == "" {
		return nil, ErrEmptyText
	}

	rate := req.Speed
	if rate < googleMinRate {
		rate = googleMinRate
	}
	if rate > googleMaxRate {
		rate = googleMaxRate
	}

	var payload googleSynthesizeRequest
	payload.Input.Text = req.Text
	payload.Voice.LanguageCode = g.opts.LanguageCode
	payload.Voice.Name = req.Voice
	if payload.Voice.Name == "" {
		payload.Voice.Name = g.opts.DefaultVoice
	}
	payload.AudioConfig.AudioEncoding = "LINEAR16"
	payload.AudioConfig.SpeakingRate = rate
	payload.AudioConfig.SampleRateHertz = g.opts.SampleRate

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, googleEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("google tts request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("google tts status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var decoded googleSynthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	wav, err := base64.StdEncoding.DecodeString(decoded.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}

	pcm, sampleRate, channels, err := parseWAV(wav)
	if err != nil {
		return nil, fmt.Errorf("parse synthesized audio: %w", err)
	}
	if len(pcm) == 0 {
		return nil, ErrNoAudio
	}

	clip := &Clip{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   clipDuration(len(pcm), sampleRate, channels),
	}
	g.logger.Debug("synthesized",
		"engine", "google",
		"chars", len(req.Text),
		"duration", clip.Duration,
		"took", time.Since(start))
	return clip, nil
}
