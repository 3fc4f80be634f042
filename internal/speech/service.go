package speech

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hmtkvs/speedread/internal/audio"
	"github.com/hmtkvs/speedread/reader"
)

// DefaultCacheBytes bounds the clip cache to roughly a few minutes of
// 22050Hz mono audio.
const DefaultCacheBytes = 16 << 20

// Service bridges the playback engine to a synthesizer and an audio player.
// It implements reader.Narrator: for each narration it synthesizes the
// remaining text, plays the clip, and spreads one word callback per token
// evenly across the clip's duration.
type Service struct {
	synth  Synthesizer
	player audio.Player
	cache  *ClipCache
	logger *log.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCache replaces the default clip cache.
func WithCache(c *ClipCache) ServiceOption {
	return func(s *Service) { s.cache = c }
}

// WithServiceLogger sets the logger.
func WithServiceLogger(l *log.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a narration service around a synthesizer and player.
func NewService(synth Synthesizer, player audio.Player, opts ...ServiceOption) *Service {
	s := &Service{
		synth:  synth,
		player: player,
		cache:  NewClipCache(DefaultCacheBytes),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin implements reader.Narrator. It returns immediately; synthesis and
// playback run in the background and report through the request callbacks.
func (s *Service) Begin(ctx context.Context, req reader.NarrationRequest) (reader.NarrationHandle, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}
	sess := &session{
		svc:  s,
		req:  req,
		done: make(chan struct{}),
	}
	go sess.run(ctx)
	return sess, nil
}

// session is one narration in flight. Cancel is idempotent and suppresses
// any callback that has not fired yet.
type session struct {
	svc  *Service
	req  reader.NarrationRequest
	done chan struct{}
	once sync.Once
}

// Cancel implements reader.NarrationHandle.
func (sess *session) Cancel() {
	sess.once.Do(func() {
		close(sess.done)
		if err := sess.svc.player.Stop(); err != nil {
			sess.svc.logger.Debug("stop on cancel", "err", err)
		}
	})
}

func (sess *session) canceled() bool {
	select {
	case <-sess.done:
		return true
	default:
		return false
	}
}

func (sess *session) fail(err error) {
	if sess.canceled() {
		return
	}
	if sess.req.OnError != nil {
		sess.req.OnError(err)
	}
}

func (sess *session) run(ctx context.Context) {
	clip, err := sess.svc.clipFor(ctx, sess.req)
	if err != nil {
		sess.fail(err)
		return
	}
	if sess.canceled() || ctx.Err() != nil {
		return
	}

	if err := sess.svc.player.Play(clip.PCM, clip.SampleRate, clip.Channels); err != nil {
		sess.fail(err)
		return
	}
	sess.tick(ctx, clip.Duration)
}

// tick fires the word callbacks: the clip duration divided evenly across the
// requested token count, one callback per token at its proportional
// timestamp, then the completion callback.
func (sess *session) tick(ctx context.Context, total time.Duration) {
	words := sess.req.Words
	interval := time.Duration(0)
	if words > 0 {
		interval = total / time.Duration(words)
	}

	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for i := 0; i < words; i++ {
			select {
			case <-sess.done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if sess.req.OnWord != nil {
					sess.req.OnWord(i)
				}
			}
		}
	}

	if sess.canceled() || ctx.Err() != nil {
		return
	}
	if sess.req.OnDone != nil {
		sess.req.OnDone()
	}
}

// clipFor returns cached audio or synthesizes it.
func (s *Service) clipFor(ctx context.Context, req reader.NarrationRequest) (*Clip, error) {
	sreq := Request{Text: req.Text, Voice: req.Voice, Speed: req.Speed}
	key := cacheKey(sreq)
	if clip, ok := s.cache.Get(key); ok {
		s.logger.Debug("narration cache hit", "key", key)
		return clip, nil
	}

	clip, err := s.synth.Synthesize(ctx, sreq)
	if err != nil {
		return nil, err
	}
	if clip.Duration <= 0 {
		clip.Duration = clipDuration(len(clip.PCM), clip.SampleRate, clip.Channels)
	}
	s.cache.Put(key, clip)
	return clip, nil
}
