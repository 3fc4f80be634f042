package audio

import "sync"

// MockPlayer implements Player for tests. It records every call and can be
// told to fail.
type MockPlayer struct {
	mu sync.Mutex

	playing bool
	closed  bool
	playErr error
	stopErr error

	// Recorded calls.
	PlayCalls []MockPlayCall
	StopCount int
}

// MockPlayCall records the arguments of one Play invocation.
type MockPlayCall struct {
	Bytes      int
	SampleRate int
	Channels   int
}

// NewMockPlayer creates a mock player that succeeds at everything.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{}
}

// FailPlayWith makes subsequent Play calls return err.
func (m *MockPlayer) FailPlayWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// Play implements Player.
func (m *MockPlayer) Play(pcm []byte, sampleRate, channels int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrPlayerClosed
	}
	if m.playErr != nil {
		return m.playErr
	}
	if len(pcm) == 0 {
		return ErrNothingToPlay
	}
	m.PlayCalls = append(m.PlayCalls, MockPlayCall{
		Bytes:      len(pcm),
		SampleRate: sampleRate,
		Channels:   channels,
	})
	m.playing = true
	return nil
}

// Stop implements Player.
func (m *MockPlayer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrPlayerClosed
	}
	m.StopCount++
	m.playing = false
	return m.stopErr
}

// IsPlaying implements Player.
func (m *MockPlayer) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Close implements Player.
func (m *MockPlayer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.playing = false
	return nil
}

// Plays returns how many clips were played.
func (m *MockPlayer) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.PlayCalls)
}
