package sound

import (
	"context"
	"sync"
	"time"

	"github.com/sandeepkv93/nova/internal/log"
)

const DefaultCeiling = 30 * time.Second

// Backend plays one source and returns when it finishes or ctx ends.
type Backend interface {
	Play(ctx context.Context, src Source) error
}

// Player owns at most one playback at a time. Starting a new one stops the
// previous; every playback is cut off at the ceiling.
type Player struct {
	playMu  sync.Mutex
	mu      sync.Mutex
	backend Backend
	ceiling time.Duration
	cancel  context.CancelFunc
	done    chan struct{}
	current string
}

func NewPlayer(backend Backend, ceiling time.Duration) *Player {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Player{backend: backend, ceiling: ceiling}
}

// Play starts id in the background and returns immediately.
func (p *Player) Play(id string) {
	p.playMu.Lock()
	defer p.playMu.Unlock()

	p.Stop()

	src := Resolve(id)
	if src.ID != id && !src.Inline() {
		log.Debug("unknown sound, using default", "sound", truncate(id, 32))
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.ceiling)
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.current = src.ID
	p.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		err := p.backend.Play(ctx, src)
		switch {
		case ctx.Err() != nil:
			log.Debug("playback stopped", "sound", src.ID, "reason", ctx.Err())
		case err != nil:
			log.Warn("playback failed", "sound", src.ID, "reason", err)
		}

		p.mu.Lock()
		if p.done == done {
			p.cancel = nil
			p.done = nil
			p.current = ""
		}
		p.mu.Unlock()
	}()
}

// Stop ends the current playback, if any, and waits for it to exit.
func (p *Player) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.done = nil
	p.current = ""
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Playing returns the id of the sound currently playing, or "".
func (p *Player) Playing() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
