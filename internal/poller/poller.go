// Package poller implements the background loop that pulls detection
// status from the backend on a fixed interval and hands each sample to
// the controller.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/logger"
)

// DefaultInterval is the poll cadence.
const DefaultInterval = 1000 * time.Millisecond

// Sink receives every successfully decoded sample.
type Sink interface {
	ApplyStatus(ctx context.Context, s *domain.Status)
}

// Option configures the poller.
type Option func(*Poller)

// WithInterval sets how often the poller fetches status.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// Poller runs one GET per tick. Overlapping requests are not guarded:
// if a response arrives after the next tick fired, both complete and the
// last one to land wins. Failures are logged and otherwise ignored; the
// next tick is the retry.
type Poller struct {
	source   domain.StatusSource
	sink     Sink
	log      *logger.Logger
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	polls    atomic.Int64
	failures atomic.Int64
}

// New creates a poller with the given dependencies and options.
func New(source domain.StatusSource, sink Sink, log *logger.Logger, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		sink:     sink,
		log:      log,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the poll cadence.
func (p *Poller) Interval() time.Duration { return p.interval }

// Start begins the background loop. Non-blocking.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		p.log.Warn("poller already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true
	p.done = make(chan struct{})

	go p.loop(childCtx, p.done)
	p.log.Info("poller started (interval=%s)", p.interval)
}

// Stop cancels the timer so no further polls are scheduled. Requests
// already in flight are left to finish on their own.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.running = false
	done := p.done
	p.mu.Unlock()

	<-done
	p.log.Info("poller stopped after %d polls (%d failed)", p.polls.Load(), p.failures.Load())
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Stats returns the number of polls issued and how many failed.
func (p *Poller) Stats() (polls, failures int64) {
	return p.polls.Load(), p.failures.Load()
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Each tick gets its own goroutine so a slow response never
			// delays the schedule.
			go p.Poll(ctx)
		}
	}
}

// Poll performs one fetch-and-forward cycle synchronously.
func (p *Poller) Poll(ctx context.Context) {
	p.polls.Add(1)

	// Stopping the loop must not abort a request already under way.
	reqCtx := context.WithoutCancel(ctx)

	status, err := p.source.FetchStatus(reqCtx)
	if err != nil {
		p.failures.Add(1)
		p.log.Error("updating status: %v", err)
		return
	}

	p.log.Debug("status: phase=%q emotion=%s (%.1f%%) blinks=%d face=%s suggestions=%d",
		status.Phase, status.Emotion, status.Confidence, status.Blinks, status.FaceDirection, len(status.Suggestions))
	p.sink.ApplyStatus(reqCtx, status)
}
