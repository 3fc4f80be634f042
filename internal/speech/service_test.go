package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hmtkvs/speedread/internal/audio"
	"github.com/hmtkvs/speedread/reader"
)

type callbackRecorder struct {
	mu      sync.Mutex
	offsets []int
	done    bool
	errs    []error
	doneCh  chan struct{}
	errCh   chan struct{}
}

func newCallbackRecorder() *callbackRecorder {
	return &callbackRecorder{
		doneCh: make(chan struct{}),
		errCh:  make(chan struct{}, 1),
	}
}

func (r *callbackRecorder) request(text string, words int) reader.NarrationRequest {
	return reader.NarrationRequest{
		Text:  text,
		Speed: 1.0,
		Words: words,
		OnWord: func(offset int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.offsets = append(r.offsets, offset)
		},
		OnDone: func() {
			r.mu.Lock()
			r.done = true
			r.mu.Unlock()
			close(r.doneCh)
		},
		OnError: func(err error) {
			r.mu.Lock()
			r.errs = append(r.errs, err)
			r.mu.Unlock()
			select {
			case r.errCh <- struct{}{}:
			default:
			}
		},
	}
}

func (r *callbackRecorder) wordOffsets() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.offsets))
	copy(out, r.offsets)
	return out
}

func fastService(t *testing.T) (*Service, *MockSynthesizer, *audio.MockPlayer) {
	t.Helper()
	synth := NewMockSynthesizer()
	synth.PerWord = 10 * time.Millisecond
	player := audio.NewMockPlayer()
	return NewService(synth, player), synth, player
}

func TestBeginRejectsEmptyText(t *testing.T) {
	svc, _, _ := fastService(t)
	for _, text := range []string{"", "   "} {
		if _, err := svc.Begin(context.Background(), reader.NarrationRequest{Text: text}); !errors.Is(err, ErrEmptyText) {
			t.Errorf("Begin(%q) = %v, want ErrEmptyText", text, err)
		}
	}
}

func TestNarrationFiresWordsThenDone(t *testing.T) {
	svc, _, player := fastService(t)
	rec := newCallbackRecorder()

	handle, err := svc.Begin(context.Background(), rec.request("one two three four five", 5))
	if err != nil {
		t.Fatal(err)
	}
	defer handle.Cancel()

	select {
	case <-rec.doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("narration did not complete")
	}

	offsets := rec.wordOffsets()
	if len(offsets) != 5 {
		t.Fatalf("word callbacks = %d, want 5: %v", len(offsets), offsets)
	}
	for i, off := range offsets {
		if off != i {
			t.Errorf("offset[%d] = %d, want %d", i, off, i)
		}
	}
	if player.Plays() != 1 {
		t.Errorf("clips played = %d, want 1", player.Plays())
	}
}

func TestCancelSuppressesCallbacks(t *testing.T) {
	synth := NewMockSynthesizer()
	synth.PerWord = 200 * time.Millisecond
	player := audio.NewMockPlayer()
	svc := NewService(synth, player)
	rec := newCallbackRecorder()

	handle, err := svc.Begin(context.Background(), rec.request("w1 w2 w3 w4 w5 w6 w7 w8 w9 w10", 10))
	if err != nil {
		t.Fatal(err)
	}
	handle.Cancel()
	handle.Cancel() // idempotent

	select {
	case <-rec.doneCh:
		t.Fatal("completion fired after cancel")
	case <-time.After(300 * time.Millisecond):
	}
	if player.StopCount == 0 {
		t.Error("cancel did not stop the player")
	}
}

func TestSynthesisFailureReported(t *testing.T) {
	synth := NewMockSynthesizer()
	synth.Err = errors.New("provider down")
	svc := NewService(synth, audio.NewMockPlayer())
	rec := newCallbackRecorder()

	handle, err := svc.Begin(context.Background(), rec.request("some text", 2))
	if err != nil {
		t.Fatal(err)
	}
	defer handle.Cancel()

	select {
	case <-rec.errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("error callback never fired")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.errs) != 1 || rec.errs[0].Error() != "provider down" {
		t.Errorf("errors = %v", rec.errs)
	}
	if rec.done {
		t.Error("completion fired after a failure")
	}
}

func TestPlayerFailureReported(t *testing.T) {
	synth := NewMockSynthesizer()
	synth.PerWord = 10 * time.Millisecond
	player := audio.NewMockPlayer()
	boom := errors.New("no device")
	player.FailPlayWith(boom)
	svc := NewService(synth, player)
	rec := newCallbackRecorder()

	handle, err := svc.Begin(context.Background(), rec.request("a b", 2))
	if err != nil {
		t.Fatal(err)
	}
	defer handle.Cancel()

	select {
	case <-rec.errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("error callback never fired")
	}
}

func TestRepeatSynthesisHitsCache(t *testing.T) {
	svc, synth, _ := fastService(t)

	for i := 0; i < 2; i++ {
		rec := newCallbackRecorder()
		handle, err := svc.Begin(context.Background(), rec.request("repeat me twice", 3))
		if err != nil {
			t.Fatal(err)
		}
		select {
		case <-rec.doneCh:
		case <-time.After(2 * time.Second):
			t.Fatal("narration did not complete")
		}
		handle.Cancel()
	}

	if synth.Calls() != 1 {
		t.Errorf("synthesizer calls = %d, want 1 (second run should hit cache)", synth.Calls())
	}
}
