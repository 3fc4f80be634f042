package reader

import (
	"math"
	"testing"
	"time"
)

func TestVisualDelayBase(t *testing.T) {
	tests := []struct {
		name       string
		wpm        int
		longestLen int
		expected   time.Duration
	}{
		{"300 wpm short word", 300, 5, 200 * time.Millisecond},
		{"300 wpm tiny word keeps factor 1", 300, 2, 200 * time.Millisecond},
		{"300 wpm ten letter word doubles", 300, 10, 400 * time.Millisecond},
		{"100 wpm short word", 100, 4, 600 * time.Millisecond},
		{"600 wpm short word", 600, 5, 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisualDelay(tt.wpm, tt.longestLen); got != tt.expected {
				t.Errorf("VisualDelay(%d, %d) = %v, want %v", tt.wpm, tt.longestLen, got, tt.expected)
			}
		})
	}
}

func TestVisualDelayMonotonic(t *testing.T) {
	prev := VisualDelay(MinWPM, 7)
	for wpm := MinWPM + 10; wpm <= MaxWPM; wpm += 10 {
		cur := VisualDelay(wpm, 7)
		if cur > prev {
			t.Fatalf("VisualDelay not monotonic: %v at wpm=%d after %v", cur, wpm, prev)
		}
		prev = cur
	}
}

func TestNarrationSpeedAnchors(t *testing.T) {
	anchors := map[int]float64{
		100:  0.5,
		200:  1.0,
		300:  1.5,
		400:  2.0,
		500:  2.5,
		600:  3.0,
		800:  3.5,
		1000: 4.0,
	}
	for wpm, expected := range anchors {
		if got := NarrationSpeed(wpm); got != expected {
			t.Errorf("NarrationSpeed(%d) = %v, want %v", wpm, got, expected)
		}
	}
}

func TestNarrationSpeedInterpolation(t *testing.T) {
	tests := []struct {
		wpm      int
		expected float64
	}{
		{150, 0.75},
		{250, 1.25},
		{700, 3.25},
		{900, 3.75},
	}
	for _, tt := range tests {
		got := NarrationSpeed(tt.wpm)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("NarrationSpeed(%d) = %v, want %v", tt.wpm, got, tt.expected)
		}
	}
}

func TestNarrationSpeedClamps(t *testing.T) {
	if got := NarrationSpeed(50); got != 0.5 {
		t.Errorf("below lowest anchor: got %v, want 0.5", got)
	}
	if got := NarrationSpeed(1500); got != 4.0 {
		t.Errorf("above highest anchor: got %v, want 4.0", got)
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		name        string
		tokensLeft  int
		wpm         int
		wordsAtTime int
		expected    string
	}{
		{"one minute", 300, 300, 1, "1:00"},
		{"ninety seconds", 450, 300, 1, "1:30"},
		{"nothing left", 0, 300, 1, "0:00"},
		{"groups divide the time", 300, 300, 5, "0:12"},
		{"rounds to nearest second", 10, 100, 5, "0:01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRemaining(tt.tokensLeft, tt.wpm, tt.wordsAtTime)
			if got != tt.expected {
				t.Errorf("FormatRemaining(%d, %d, %d) = %q, want %q",
					tt.tokensLeft, tt.wpm, tt.wordsAtTime, got, tt.expected)
			}
		})
	}
}
