package reader

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Engine owns a token sequence and a cursor into it, advancing the cursor
// either on a self-scheduled clock or on narration word callbacks. Exactly one
// advancement mechanism is active while running. Every mutation that could be
// raced by a stale timer or a late narration callback is guarded by a
// generation counter: bumping it invalidates everything scheduled before.
type Engine struct {
	mu       sync.Mutex
	sched    Scheduler
	narrator Narrator
	logger   *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	text     string
	tokens   []string
	cursor   int
	settings Settings
	state    StateType

	gen            uint64
	timer          Timer
	handle         NarrationHandle
	narrating      bool
	narrationStart int

	subs    map[int]Subscriber
	nextSub int
	closed  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler replaces the wall-clock scheduler, primarily for tests.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithNarrator wires the speech collaborator used for narration-timed
// playback.
func WithNarrator(n Narrator) Option {
	return func(e *Engine) { e.narrator = n }
}

// WithLogger sets the logger. Defaults to the package-global charm logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSettings sets the initial settings, clamped to their valid ranges.
func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s.clamped() }
}

// NewEngine creates an idle engine with no text loaded.
func NewEngine(opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		sched:    NewWallScheduler(),
		logger:   log.Default(),
		ctx:      ctx,
		cancel:   cancel,
		settings: DefaultSettings(),
		subs:     make(map[int]Subscriber),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers a subscriber and returns a function that removes it.
func (e *Engine) Subscribe(s Subscriber) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return func() {}
	}
	id := e.nextSub
	e.nextSub++
	e.subs[id] = s
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// SetText replaces the current reading session: the text is tokenized, the
// cursor reset to zero and any active playback stopped. Empty or
// all-whitespace input returns ErrNoText and leaves the session untouched.
func (e *Engine) SetText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrNoText
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	wasRunning := e.state == StateRunning
	h := e.stopMechanismsLocked()
	e.text = text
	e.tokens = Tokenize(text)
	e.cursor = 0
	e.state = StateIdle
	total := len(e.tokens)
	subs := e.subscribersLocked()
	words := e.wordsEventLocked()
	e.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
	e.logger.Debug("text set", "tokens", total)
	if wasRunning {
		notifyPlayState(subs, PlayStateEvent{Playing: false})
	}
	notifyWords(subs, words)
	return nil
}

// Play starts playback. It is a no-op when already running, when no text is
// loaded, or when the cursor has already passed the last token. The
// advancement mechanism is chosen by the narration setting at this moment.
func (e *Engine) Play() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	if e.state == StateRunning || len(e.tokens) == 0 || e.cursor >= len(e.tokens) {
		e.mu.Unlock()
		return nil
	}

	e.gen++
	narrated := e.settings.NarrationEnabled
	if narrated {
		if e.narrator == nil {
			e.mu.Unlock()
			return ErrNoNarrator
		}
		if err := e.beginNarrationLocked(e.gen); err != nil {
			e.mu.Unlock()
			return fmt.Errorf("start narration: %w", err)
		}
	} else {
		e.narrating = false
		e.scheduleWakeLocked(e.gen)
	}
	e.state = StateRunning
	subs := e.subscribersLocked()
	e.mu.Unlock()

	e.logger.Debug("playback started", "narration", narrated)
	notifyPlayState(subs, PlayStateEvent{Playing: true})
	return nil
}

// Pause stops the active advancement mechanism without moving the cursor.
// No-op when idle. Any pending wake-up or in-flight narration is invalidated
// before Pause returns.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.closed || e.state != StateRunning {
		e.mu.Unlock()
		return
	}
	h := e.stopMechanismsLocked()
	e.state = StateIdle
	subs := e.subscribersLocked()
	e.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
	e.logger.Debug("playback paused")
	notifyPlayState(subs, PlayStateEvent{Playing: false})
}

// Forward advances the cursor by one word group, clamped to the last token.
// Works in any state; if narration is active it restarts from the new cursor.
func (e *Engine) Forward() {
	e.move(e.groupSize())
}

// Rewind moves the cursor back by one word group, clamped to zero.
func (e *Engine) Rewind() {
	e.move(-e.groupSize())
}

// SetPosition repositions the cursor absolutely, clamped to the token range.
func (e *Engine) SetPosition(index int) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.cursor = clampNav(index, len(e.tokens))
	fire := e.afterCursorJumpLocked()
	e.mu.Unlock()
	fire()
}

// UpdateSettings merges the patch into the current settings. Timing-relevant
// changes while running restart the active mechanism in place without losing
// the cursor; toggling narration swaps mechanisms atomically.
func (e *Engine) UpdateSettings(p Patch) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}

	old := e.settings
	e.settings = p.apply(old)
	timingChanged := e.settings.WPM != old.WPM || e.settings.WordsAtTime != old.WordsAtTime
	voiceChanged := e.settings.Voice != old.Voice
	modeChanged := e.settings.NarrationEnabled != old.NarrationEnabled

	var beginErr error
	if e.state == StateRunning {
		switch {
		case modeChanged && e.settings.NarrationEnabled:
			if e.narrator == nil {
				// Keep the self-timed clock running; the setting change
				// sticks but cannot take effect until a narrator exists.
				beginErr = ErrNoNarrator
				break
			}
			e.cancelMechanismsLocked()
			e.state = StateRunning
			beginErr = e.beginNarrationLocked(e.gen)
		case modeChanged && !e.settings.NarrationEnabled:
			e.cancelMechanismsLocked()
			e.state = StateRunning
			e.scheduleWakeLocked(e.gen)
		case e.narrating && (timingChanged || voiceChanged):
			e.cancelMechanismsLocked()
			e.state = StateRunning
			beginErr = e.beginNarrationLocked(e.gen)
		case !e.narrating && timingChanged:
			e.gen++
			if e.timer != nil {
				e.timer.Stop()
			}
			e.scheduleWakeLocked(e.gen)
		}
		if beginErr != nil && beginErr != ErrNoNarrator {
			// Narration could not restart; fall to idle and report.
			e.state = StateIdle
			e.narrating = false
		}
	}
	stateNow := e.state
	subs := e.subscribersLocked()
	words := e.wordsEventLocked()
	e.mu.Unlock()

	notifyWords(subs, words)
	if beginErr != nil && beginErr != ErrNoNarrator {
		notifyPlayState(subs, PlayStateEvent{Playing: stateNow == StateRunning})
		notifyError(subs, beginErr)
		return fmt.Errorf("restart narration: %w", beginErr)
	}
	return beginErr
}

// Snapshot returns a copy of everything observable about the engine.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	words := e.wordsEventLocked()
	return Snapshot{
		Words:     words.Words,
		Playing:   e.state == StateRunning,
		Progress:  words.Progress,
		Remaining: words.Remaining,
		Settings:  e.settings,
		Cursor:    e.cursor,
		Tokens:    len(e.tokens),
	}
}

// Position returns the current cursor index.
func (e *Engine) Position() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// WordCount returns the number of tokens in the current text.
func (e *Engine) WordCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tokens)
}

// Cleanup cancels all pending timers and narration requests and drops all
// subscribers. Safe to call more than once.
func (e *Engine) Cleanup() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	h := e.stopMechanismsLocked()
	e.state = StateIdle
	e.subs = nil
	e.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
	e.cancel()
	e.logger.Debug("engine cleaned up")
}

// --- internal ---

func (e *Engine) groupSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings.WordsAtTime
}

func (e *Engine) move(delta int) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.cursor = clampNav(e.cursor+delta, len(e.tokens))
	fire := e.afterCursorJumpLocked()
	e.mu.Unlock()
	fire()
}

// afterCursorJumpLocked handles the common tail of every explicit cursor
// reposition: restart narration from the new cursor when narration-timed, and
// build the notification to fire after unlocking.
func (e *Engine) afterCursorJumpLocked() func() {
	var beginErr error
	if e.state == StateRunning && e.narrating {
		e.cancelMechanismsLocked()
		e.state = StateRunning
		beginErr = e.beginNarrationLocked(e.gen)
		if beginErr != nil {
			e.state = StateIdle
			e.narrating = false
		}
	}
	stateNow := e.state
	subs := e.subscribersLocked()
	words := e.wordsEventLocked()
	return func() {
		notifyWords(subs, words)
		if beginErr != nil {
			notifyPlayState(subs, PlayStateEvent{Playing: stateNow == StateRunning})
			notifyError(subs, beginErr)
		}
	}
}

// stopMechanismsLocked invalidates any pending wake-up or narration session
// and returns the narration handle (if any) for the caller to cancel outside
// the lock. Resets state to Idle; callers restarting playback set it back.
func (e *Engine) stopMechanismsLocked() NarrationHandle {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	h := e.handle
	e.handle = nil
	e.narrating = false
	e.state = StateIdle
	return h
}

// cancelMechanismsLocked stops mechanisms and cancels the stale narration
// handle immediately. Restart paths must use this form: issuing the
// replacement request first would let the stale session's Cancel stop the
// shared audio player after the new clip started. NarrationHandle.Cancel is
// required to be non-blocking, so holding the engine lock here is fine.
func (e *Engine) cancelMechanismsLocked() {
	if h := e.stopMechanismsLocked(); h != nil {
		h.Cancel()
	}
}

// scheduleWakeLocked arms the next self-timed wake-up using the delay for the
// currently visible word group.
func (e *Engine) scheduleWakeLocked(gen uint64) {
	delay := VisualDelay(e.settings.WPM, e.longestVisibleLocked())
	e.timer = e.sched.AfterFunc(delay, func() { e.wake(gen) })
}

// wake is the self-timed clock tick: advance by one group, emit, reschedule.
func (e *Engine) wake(gen uint64) {
	e.mu.Lock()
	if e.closed || gen != e.gen || e.state != StateRunning {
		e.mu.Unlock()
		return
	}

	e.cursor += e.settings.WordsAtTime
	completed := e.cursor >= len(e.tokens)
	if completed {
		e.cursor = len(e.tokens)
		e.timer = nil
		e.state = StateIdle
	} else {
		e.scheduleWakeLocked(gen)
	}
	subs := e.subscribersLocked()
	words := e.wordsEventLocked()
	e.mu.Unlock()

	notifyWords(subs, words)
	if completed {
		e.logger.Debug("reading complete")
		notifyPlayState(subs, PlayStateEvent{Playing: false})
	}
}

// beginNarrationLocked issues a narration request for all tokens from the
// cursor onward. Callbacks are tagged with gen; anything arriving after the
// generation moves on is discarded.
func (e *Engine) beginNarrationLocked(gen uint64) error {
	start := e.cursor
	remaining := e.tokens[start:]
	req := NarrationRequest{
		Text:  strings.Join(remaining, " "),
		Voice: e.settings.Voice,
		Speed: NarrationSpeed(e.settings.WPM),
		Words: len(remaining),
		OnWord: func(offset int) { e.narrationWord(gen, start, offset) },
		OnDone: func() { e.narrationDone(gen) },
		OnError: func(err error) { e.narrationError(gen, err) },
	}
	h, err := e.narrator.Begin(e.ctx, req)
	if err != nil {
		return err
	}
	e.handle = h
	e.narrating = true
	e.narrationStart = start
	return nil
}

func (e *Engine) narrationWord(gen uint64, start, offset int) {
	e.mu.Lock()
	if e.closed || gen != e.gen {
		e.mu.Unlock()
		e.logger.Debug("dropping stale narration word callback", "offset", offset)
		return
	}
	e.cursor = clampAbs(start+offset, len(e.tokens))
	subs := e.subscribersLocked()
	words := e.wordsEventLocked()
	e.mu.Unlock()

	notifyWords(subs, words)
}

func (e *Engine) narrationDone(gen uint64) {
	e.mu.Lock()
	if e.closed || gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.stopMechanismsLocked()
	subs := e.subscribersLocked()
	e.mu.Unlock()

	e.logger.Debug("narration finished")
	notifyPlayState(subs, PlayStateEvent{Playing: false})
}

func (e *Engine) narrationError(gen uint64, err error) {
	e.mu.Lock()
	if e.closed || gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.stopMechanismsLocked()
	subs := e.subscribersLocked()
	e.mu.Unlock()

	e.logger.Warn("narration failed", "err", err)
	notifyPlayState(subs, PlayStateEvent{Playing: false})
	notifyError(subs, err)
}

// wordsEventLocked builds the event describing the visible word group.
func (e *Engine) wordsEventLocked() WordsEvent {
	total := len(e.tokens)
	ev := WordsEvent{
		Cursor:    e.cursor,
		Remaining: FormatRemaining(total-e.cursor, e.settings.WPM, e.settings.WordsAtTime),
		Completed: total > 0 && e.cursor >= total,
	}
	if total > 0 {
		ev.Progress = float64(e.cursor) / float64(total)
	}
	if e.cursor < total {
		end := e.cursor + e.settings.WordsAtTime
		if end > total {
			end = total
		}
		ev.Words = make([]Word, 0, end-e.cursor)
		for _, tok := range e.tokens[e.cursor:end] {
			ev.Words = append(ev.Words, Split(tok))
		}
	}
	return ev
}

// longestVisibleLocked returns the rune length of the longest token in the
// visible group, 0 when nothing is visible.
func (e *Engine) longestVisibleLocked() int {
	longest := 0
	end := e.cursor + e.settings.WordsAtTime
	if end > len(e.tokens) {
		end = len(e.tokens)
	}
	for i := e.cursor; i < end && i >= 0; i++ {
		if n := len([]rune(e.tokens[i])); n > longest {
			longest = n
		}
	}
	return longest
}

func (e *Engine) subscribersLocked() []Subscriber {
	subs := make([]Subscriber, 0, len(e.subs))
	for _, s := range e.subs {
		subs = append(subs, s)
	}
	return subs
}

// clampNav clamps an explicit cursor move so a word remains visible.
func clampNav(i, total int) int {
	if i < 0 {
		return 0
	}
	if total == 0 {
		return 0
	}
	if i > total-1 {
		return total - 1
	}
	return i
}

// clampAbs clamps a narration-reported position; total marks completion.
func clampAbs(i, total int) int {
	if i < 0 {
		return 0
	}
	if i > total {
		return total
	}
	return i
}

func notifyWords(subs []Subscriber, ev WordsEvent) {
	for _, s := range subs {
		if s.OnWords != nil {
			s.OnWords(ev)
		}
	}
}

func notifyPlayState(subs []Subscriber, ev PlayStateEvent) {
	for _, s := range subs {
		if s.OnPlayState != nil {
			s.OnPlayState(ev)
		}
	}
}

func notifyError(subs []Subscriber, err error) {
	for _, s := range subs {
		if s.OnError != nil {
			s.OnError(err)
		}
	}
}
