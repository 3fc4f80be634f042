package audio

import (
	"errors"
	"testing"
	"time"
)

func TestPCMDuration(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int
		rate     int
		channels int
		expected time.Duration
	}{
		{"one second mono 22050", 44100, 22050, 1, time.Second},
		{"one second stereo 44100", 176400, 44100, 2, time.Second},
		{"half second mono", 22050, 22050, 1, 500 * time.Millisecond},
		{"zero rate", 1000, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pcmDuration(tt.bytes, tt.rate, tt.channels); got != tt.expected {
				t.Errorf("pcmDuration(%d, %d, %d) = %v, want %v",
					tt.bytes, tt.rate, tt.channels, got, tt.expected)
			}
		})
	}
}

func TestMockPlayerRecordsCalls(t *testing.T) {
	m := NewMockPlayer()
	if err := m.Play(make([]byte, 128), 22050, 1); err != nil {
		t.Fatal(err)
	}
	if !m.IsPlaying() {
		t.Error("IsPlaying = false after Play")
	}
	if m.Plays() != 1 {
		t.Errorf("plays = %d, want 1", m.Plays())
	}
	if call := m.PlayCalls[0]; call.Bytes != 128 || call.SampleRate != 22050 || call.Channels != 1 {
		t.Errorf("recorded call = %+v", call)
	}

	if err := m.Stop(); err != nil {
		t.Fatal(err)
	}
	if m.IsPlaying() {
		t.Error("IsPlaying = true after Stop")
	}
	if m.StopCount != 1 {
		t.Errorf("stops = %d, want 1", m.StopCount)
	}
}

func TestMockPlayerFailures(t *testing.T) {
	m := NewMockPlayer()
	if err := m.Play(nil, 22050, 1); !errors.Is(err, ErrNothingToPlay) {
		t.Errorf("empty clip: got %v, want ErrNothingToPlay", err)
	}

	boom := errors.New("device gone")
	m.FailPlayWith(boom)
	if err := m.Play(make([]byte, 4), 22050, 1); !errors.Is(err, boom) {
		t.Errorf("got %v, want injected error", err)
	}

	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	m.FailPlayWith(nil)
	if err := m.Play(make([]byte, 4), 22050, 1); !errors.Is(err, ErrPlayerClosed) {
		t.Errorf("after close: got %v, want ErrPlayerClosed", err)
	}
}
