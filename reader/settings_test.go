package reader

import "testing"

func TestSettingsClamped(t *testing.T) {
	tests := []struct {
		name     string
		in       Settings
		wpm      int
		words    int
	}{
		{"wpm below minimum", Settings{WPM: 10, WordsAtTime: 1}, MinWPM, 1},
		{"wpm above maximum", Settings{WPM: 5000, WordsAtTime: 1}, MaxWPM, 1},
		{"zero wpm", Settings{WPM: 0, WordsAtTime: 1}, MinWPM, 1},
		{"negative wpm", Settings{WPM: -200, WordsAtTime: 1}, MinWPM, 1},
		{"words below minimum", Settings{WPM: 300, WordsAtTime: 0}, 300, MinWordsAtTime},
		{"words above maximum", Settings{WPM: 300, WordsAtTime: 9}, 300, MaxWordsAtTime},
		{"in range untouched", Settings{WPM: 450, WordsAtTime: 3}, 450, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.clamped()
			if got.WPM != tt.wpm {
				t.Errorf("WPM = %d, want %d", got.WPM, tt.wpm)
			}
			if got.WordsAtTime != tt.words {
				t.Errorf("WordsAtTime = %d, want %d", got.WordsAtTime, tt.words)
			}
		})
	}
}

func TestPatchApply(t *testing.T) {
	base := DefaultSettings()

	wpm := 500
	voice := "en-US-Standard-A"
	enabled := true
	got := Patch{WPM: &wpm, Voice: &voice, NarrationEnabled: &enabled}.apply(base)

	if got.WPM != 500 {
		t.Errorf("WPM = %d, want 500", got.WPM)
	}
	if got.Voice != voice {
		t.Errorf("Voice = %q, want %q", got.Voice, voice)
	}
	if !got.NarrationEnabled {
		t.Error("NarrationEnabled not applied")
	}
	// Untouched fields keep their values.
	if got.WordsAtTime != base.WordsAtTime {
		t.Errorf("WordsAtTime changed to %d", got.WordsAtTime)
	}
	if got.FontScale != base.FontScale {
		t.Errorf("FontScale changed to %v", got.FontScale)
	}
}

func TestPatchApplyClamps(t *testing.T) {
	wpm := 99999
	words := -2
	got := Patch{WPM: &wpm, WordsAtTime: &words}.apply(DefaultSettings())
	if got.WPM != MaxWPM {
		t.Errorf("WPM = %d, want %d", got.WPM, MaxWPM)
	}
	if got.WordsAtTime != MinWordsAtTime {
		t.Errorf("WordsAtTime = %d, want %d", got.WordsAtTime, MinWordsAtTime)
	}
}

func TestStateTypeString(t *testing.T) {
	tests := []struct {
		state    StateType
		expected string
	}{
		{StateIdle, "idle"},
		{StateRunning, "running"},
		{StateType(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("StateType(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}
