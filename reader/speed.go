package reader

import (
	"fmt"
	"math"
	"time"
)

// speedAnchor maps a WPM value to a narration speed multiplier.
type speedAnchor struct {
	wpm   int
	speed float64
}

// Narration speed anchors. Values between anchors are linearly interpolated;
// values outside the table clamp to the nearest end.
var narrationAnchors = []speedAnchor{
	{100, 0.5},
	{200, 1.0},
	{300, 1.5},
	{400, 2.0},
	{500, 2.5},
	{600, 3.0},
	{800, 3.5},
	{1000, 4.0},
}

// VisualDelay returns how long a word group should stay on screen at the
// given WPM. The base delay of 60000ms/wpm is stretched by a length factor so
// groups containing long words linger proportionally longer: factor is
// longestWordLen/5, never below 1. The caller guarantees wpm > 0 (enforced by
// the Settings clamp).
func VisualDelay(wpm, longestWordLen int) time.Duration {
	base := float64(time.Minute) / float64(wpm)
	factor := float64(longestWordLen) / 5.0
	if factor < 1 {
		factor = 1
	}
	return time.Duration(base * factor)
}

// NarrationSpeed converts a WPM setting into a speech-synthesis speed
// multiplier via piecewise-linear interpolation over the anchor table.
func NarrationSpeed(wpm int) float64 {
	first := narrationAnchors[0]
	if wpm <= first.wpm {
		return first.speed
	}
	for i := 1; i < len(narrationAnchors); i++ {
		hi := narrationAnchors[i]
		if wpm > hi.wpm {
			continue
		}
		lo := narrationAnchors[i-1]
		span := float64(hi.wpm - lo.wpm)
		frac := float64(wpm-lo.wpm) / span
		return lo.speed + frac*(hi.speed-lo.speed)
	}
	return narrationAnchors[len(narrationAnchors)-1].speed
}

// FormatRemaining renders the estimated time left as "m:ss" given the number
// of tokens still unread. tokensLeft/(wpm*wordsAtTime) minutes, rounded to
// the nearest second.
func FormatRemaining(tokensLeft, wpm, wordsAtTime int) string {
	if tokensLeft <= 0 || wpm <= 0 || wordsAtTime <= 0 {
		return "0:00"
	}
	secs := int(math.Round(float64(tokensLeft) * 60.0 / float64(wpm*wordsAtTime)))
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
