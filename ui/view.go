package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/hmtkvs/speedread/reader"
)

// previewLines is how many wrapped lines of upcoming text are shown under
// the word display.
const previewLines = 2

func (m *model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + m.titleLine() + "\n\n")

	focusCol := m.focusColumn()
	b.WriteString(strings.Repeat(" ", focusCol) + m.styles.guide.Render("▼") + "\n")
	b.WriteString(m.wordLine(focusCol) + "\n")
	b.WriteString(strings.Repeat(" ", focusCol) + m.styles.guide.Render("▲") + "\n\n")

	if p := m.previewBlock(); p != "" {
		b.WriteString(p + "\n")
	}
	b.WriteString("\n  " + m.progress.ViewAs(m.fraction) + "  " + m.styles.status.Render(m.remaining) + "\n")
	b.WriteString("  " + m.statusLine() + "\n")

	if m.err != nil {
		b.WriteString("  " + m.styles.errText.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n  " + m.help.View(m.keys))
	return b.String()
}

func (m *model) titleLine() string {
	name := m.cfg.SourceName
	if name == "" {
		name = "speedread"
	}
	indicator := "⏸"
	if m.playing {
		indicator = "▶"
	}
	return m.styles.title.Render(name) + "  " + m.styles.status.Render(indicator)
}

// focusColumn is the terminal column the focus character is pinned to.
func (m *model) focusColumn() int {
	col := m.width / 3
	if col < 8 {
		col = 8
	}
	return col
}

// wordLine renders the visible group with the first word's focus character
// at focusCol. Widths are measured in terminal cells, not runes.
func (m *model) wordLine(focusCol int) string {
	if m.completed {
		return strings.Repeat(" ", max(focusCol-2, 0)) + m.styles.done.Render("done")
	}
	if len(m.words) == 0 {
		return strings.Repeat(" ", max(focusCol-1, 0)) + m.styles.guide.Render("·")
	}

	pad := focusCol - runewidth.StringWidth(m.words[0].Prefix)
	if pad < 0 {
		pad = 0
	}

	parts := make([]string, 0, len(m.words))
	for _, w := range m.words {
		parts = append(parts, m.renderWord(w))
	}
	return strings.Repeat(" ", pad) + strings.Join(parts, " ")
}

func (m *model) renderWord(w reader.Word) string {
	return m.styles.word.Render(w.Prefix) +
		m.styles.focus.Render(w.Focus) +
		m.styles.word.Render(w.Suffix)
}

// previewBlock shows the next stretch of text dimmed below the word display
// so the reader keeps a sense of context.
func (m *model) previewBlock() string {
	next := m.cursor + len(m.words)
	if next >= len(m.tokens) {
		return ""
	}
	upcoming := strings.Join(m.tokens[next:], " ")

	width := m.width - 4
	if width < 10 {
		width = 10
	}
	wrapped := strings.Split(wordwrap.String(upcoming, width), "\n")
	if len(wrapped) > previewLines {
		wrapped = wrapped[:previewLines]
		wrapped[previewLines-1] += " …"
	}
	for i, line := range wrapped {
		wrapped[i] = "  " + m.styles.preview.Render(line)
	}
	return strings.Join(wrapped, "\n")
}

func (m *model) statusLine() string {
	narration := "off"
	if m.settings.NarrationEnabled {
		narration = "on"
		if m.settings.Voice != "" {
			narration = m.settings.Voice
		}
	}
	return m.styles.status.Render(fmt.Sprintf(
		"%d wpm · group %d · narration %s",
		m.settings.WPM, m.settings.WordsAtTime, narration,
	))
}
