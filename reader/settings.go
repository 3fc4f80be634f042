package reader

// Bounds enforced on Settings. Clamping at this boundary keeps the clock
// logic free of divide-by-zero guards.
const (
	MinWPM = 100
	MaxWPM = 1000

	MinWordsAtTime = 1
	MaxWordsAtTime = 5
)

// Settings is the value object controlling playback. Snapshots handed to
// callers are copies; the only way to change the engine's settings is
// UpdateSettings.
type Settings struct {
	// WPM is the reading speed in words per minute.
	WPM int
	// WordsAtTime is how many consecutive tokens are shown as one group.
	WordsAtTime int
	// NarrationEnabled selects narration-timed playback on the next Play.
	NarrationEnabled bool
	// Voice identifies the narration voice; interpreted by the narrator.
	Voice string
	// FontScale is carried for the display layer and not interpreted here.
	FontScale float64
}

// DefaultSettings returns the engine defaults.
func DefaultSettings() Settings {
	return Settings{
		WPM:         300,
		WordsAtTime: 1,
		FontScale:   1.0,
	}
}

// clamped returns a copy with all values forced into their valid ranges.
func (s Settings) clamped() Settings {
	if s.WPM < MinWPM {
		s.WPM = MinWPM
	}
	if s.WPM > MaxWPM {
		s.WPM = MaxWPM
	}
	if s.WordsAtTime < MinWordsAtTime {
		s.WordsAtTime = MinWordsAtTime
	}
	if s.WordsAtTime > MaxWordsAtTime {
		s.WordsAtTime = MaxWordsAtTime
	}
	if s.FontScale <= 0 {
		s.FontScale = 1.0
	}
	return s
}

// Patch describes a partial settings update. Nil fields keep their current
// value.
type Patch struct {
	WPM              *int
	WordsAtTime      *int
	NarrationEnabled *bool
	Voice            *string
	FontScale        *float64
}

// apply merges the patch into s and returns the clamped result.
func (p Patch) apply(s Settings) Settings {
	if p.WPM != nil {
		s.WPM = *p.WPM
	}
	if p.WordsAtTime != nil {
		s.WordsAtTime = *p.WordsAtTime
	}
	if p.NarrationEnabled != nil {
		s.NarrationEnabled = *p.NarrationEnabled
	}
	if p.Voice != nil {
		s.Voice = *p.Voice
	}
	if p.FontScale != nil {
		s.FontScale = *p.FontScale
	}
	return s.clamped()
}
