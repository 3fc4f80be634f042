package reader

// Word is a token decomposed around its focus character, the position the eye
// should land on while the word is displayed.
type Word struct {
	Raw    string // the original token
	Prefix string // characters before the focus
	Focus  string // the single focused character; empty when out of range
	Suffix string // characters after the focus
}

// Focus offsets by word-length band. Short words focus their first character,
// medium words the third, long words the fourth.
const (
	shortWordMax  = 4
	mediumWordMax = 9

	shortFocusOffset  = 0
	mediumFocusOffset = 2
	longFocusOffset   = 3
)

// FocusIndex returns the character index within word that should be
// emphasized. The index is chosen from a fixed length-band table and counts
// runes, not bytes.
func FocusIndex(word string) int {
	n := len([]rune(word))
	switch {
	case n <= shortWordMax:
		return shortFocusOffset
	case n <= mediumWordMax:
		return mediumFocusOffset
	default:
		return longFocusOffset
	}
}

// Split decomposes word into prefix, focus character and suffix using
// FocusIndex. If the index falls outside the word the focus and suffix are
// empty and the prefix carries the whole word.
func Split(word string) Word {
	runes := []rune(word)
	idx := FocusIndex(word)
	if idx >= len(runes) {
		return Word{Raw: word, Prefix: word}
	}
	return Word{
		Raw:    word,
		Prefix: string(runes[:idx]),
		Focus:  string(runes[idx]),
		Suffix: string(runes[idx+1:]),
	}
}
