package speech

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockSynthesizer produces silence sized to the requested text, for tests
// and for running the app without any real speech backend.
type MockSynthesizer struct {
	mu sync.Mutex

	// PerWord is the simulated speaking time per word at speed 1.0.
	PerWord time.Duration
	// SampleRate of the generated silence.
	SampleRate int
	// Delay simulates synthesis latency.
	Delay time.Duration
	// Err, when set, is returned from every Synthesize call.
	Err error

	calls int
}

// NewMockSynthesizer returns a mock with sensible defaults.
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{
		PerWord:    200 * time.Millisecond,
		SampleRate: 22050,
	}
}

// Name implements Synthesizer.
func (m *MockSynthesizer) Name() string { return "mock" }

// Calls returns how many synthesis requests were made.
func (m *MockSynthesizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Synthesize implements Synthesizer.
func (m *MockSynthesizer) Synthesize(ctx context.Context, req Request) (*Clip, error) {
	m.mu.Lock()
	m.calls++
	perWord := m.PerWord
	sampleRate := m.SampleRate
	delay := m.Delay
	err := m.Err
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if req.Text == "" {
		return nil, ErrEmptyText
	}
	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	speed := req.Speed
	if speed <= 0 {
		speed = 1.0
	}
	words := len(strings.Fields(req.Text))
	duration := time.Duration(float64(words) * float64(perWord) / speed)
	samples := int(duration.Seconds() * float64(sampleRate))
	if samples < 1 {
		samples = 1
	}

	return &Clip{
		PCM:        make([]byte, samples*2),
		SampleRate: sampleRate,
		Channels:   1,
		Duration:   duration,
	}, nil
}
