// Package ui provides the terminal reading interface: a Bubble Tea program
// that shows one word group at a time with the focus character pinned to a
// fixed column.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/editor"

	"github.com/hmtkvs/speedread/reader"
)

// eventBuffer bounds the engine-to-UI channel. Word events are full
// snapshots, so dropping under backpressure loses no information.
const eventBuffer = 64

// wpmStep is how much one speed keypress changes the reading speed.
const wpmStep = 25

// Engine is the slice of the playback engine the UI drives.
type Engine interface {
	Subscribe(reader.Subscriber) func()
	SetText(string) error
	Play() error
	Pause()
	Forward()
	Rewind()
	SetPosition(int)
	UpdateSettings(reader.Patch) error
	Snapshot() reader.Snapshot
}

// Config carries the display options the UI needs beyond the engine itself.
type Config struct {
	// Path is the source file, empty when reading stdin or the clipboard.
	Path string
	// SourceName is shown in the title bar.
	SourceName string
}

// ReloadMsg replaces the text being read. The file watcher in main sends it
// through Program.Send when the source file changes on disk.
type ReloadMsg struct {
	Text string
}

type (
	wordsMsg     reader.WordsEvent
	playStateMsg reader.PlayStateEvent
	engineErrMsg struct{ err error }

	editorFinishedMsg struct{ err error }
)

// NewProgram builds the Bubble Tea program around an engine that already has
// text loaded. The same text is passed here to drive the upcoming-text
// preview.
func NewProgram(eng Engine, cfg Config, text string) *tea.Program {
	m := newModel(eng, cfg)
	m.tokens = reader.Tokenize(text)
	return tea.NewProgram(m, tea.WithAltScreen())
}

type model struct {
	engine Engine
	cfg    Config

	events      chan tea.Msg
	unsubscribe func()

	keys     keyMap
	help     help.Model
	progress progress.Model
	styles   styles

	width  int
	height int

	tokens    []string
	words     []reader.Word
	cursor    int
	fraction  float64
	remaining string
	playing   bool
	completed bool
	settings  reader.Settings
	err       error
}

func newModel(eng Engine, cfg Config) *model {
	m := &model{
		engine:   eng,
		cfg:      cfg,
		events:   make(chan tea.Msg, eventBuffer),
		keys:     newKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		styles:   newStyles(),
	}

	m.unsubscribe = eng.Subscribe(reader.Subscriber{
		OnWords:     func(ev reader.WordsEvent) { m.send(wordsMsg(ev)) },
		OnPlayState: func(ev reader.PlayStateEvent) { m.send(playStateMsg(ev)) },
		OnError:     func(err error) { m.send(engineErrMsg{err}) },
	})

	snap := eng.Snapshot()
	m.words = snap.Words
	m.cursor = snap.Cursor
	m.fraction = snap.Progress
	m.remaining = snap.Remaining
	m.playing = snap.Playing
	m.settings = snap.Settings
	return m
}

// send forwards an engine event into the Bubble Tea loop. Events fire
// synchronously on the engine's mutating goroutine, which may be the Update
// goroutine itself, so the send must never block.
func (m *model) send(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
		log.Debug("dropping UI event under backpressure")
	}
}

func (m *model) waitForEvent() tea.Msg {
	return <-m.events
}

func (m *model) Init() tea.Cmd {
	return m.waitForEvent
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(msg.Width-4, 60)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case wordsMsg:
		ev := reader.WordsEvent(msg)
		m.words = ev.Words
		m.cursor = ev.Cursor
		m.fraction = ev.Progress
		m.remaining = ev.Remaining
		m.completed = ev.Completed
		return m, m.waitForEvent

	case playStateMsg:
		m.playing = msg.Playing
		m.settings = m.engine.Snapshot().Settings
		return m, m.waitForEvent

	case engineErrMsg:
		m.err = msg.err
		return m, m.waitForEvent

	case ReloadMsg:
		if err := m.engine.SetText(msg.Text); err != nil {
			m.err = err
			return m, nil
		}
		m.tokens = reader.Tokenize(msg.Text)
		m.err = nil
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.reloadFromFile
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.engine.Pause()
		m.unsubscribe()
		return m, tea.Quit

	case key.Matches(msg, k.PlayPause):
		m.err = nil
		if m.playing {
			m.engine.Pause()
		} else {
			if m.completed {
				m.engine.SetPosition(0)
			}
			if err := m.engine.Play(); err != nil {
				m.err = err
			}
		}
		return m, nil

	case key.Matches(msg, k.Forward):
		m.engine.Forward()
		return m, nil

	case key.Matches(msg, k.Rewind):
		m.engine.Rewind()
		return m, nil

	case key.Matches(msg, k.Restart):
		m.engine.SetPosition(0)
		return m, nil

	case key.Matches(msg, k.Faster):
		wpm := m.settings.WPM + wpmStep
		m.patch(reader.Patch{WPM: &wpm})
		return m, nil

	case key.Matches(msg, k.Slower):
		wpm := m.settings.WPM - wpmStep
		m.patch(reader.Patch{WPM: &wpm})
		return m, nil

	case key.Matches(msg, k.GroupSize):
		size := m.settings.WordsAtTime + 1
		if size > reader.MaxWordsAtTime {
			size = reader.MinWordsAtTime
		}
		m.patch(reader.Patch{WordsAtTime: &size})
		return m, nil

	case key.Matches(msg, k.Narration):
		enabled := !m.settings.NarrationEnabled
		m.patch(reader.Patch{NarrationEnabled: &enabled})
		return m, nil

	case key.Matches(msg, k.Edit):
		if m.cfg.Path == "" {
			return m, nil
		}
		m.engine.Pause()
		c, err := editor.Cmd("speedread", m.cfg.Path)
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, tea.ExecProcess(c, func(err error) tea.Msg {
			return editorFinishedMsg{err}
		})

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// patch applies a settings change and refreshes the local settings copy so
// the status bar reflects it immediately.
func (m *model) patch(p reader.Patch) {
	if err := m.engine.UpdateSettings(p); err != nil {
		m.err = err
	}
	m.settings = m.engine.Snapshot().Settings
}

func (m *model) reloadFromFile() tea.Msg {
	b, err := os.ReadFile(m.cfg.Path)
	if err != nil {
		return engineErrMsg{fmt.Errorf("reload %s: %w", m.cfg.Path, err)}
	}
	return ReloadMsg{Text: string(b)}
}
