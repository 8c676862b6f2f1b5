// Package engine is the chat controller: it turns detection samples into
// rendered views, owns the chat input gate, and runs the chat exchange.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/emotion"
	"github.com/hammamikhairi/moodchat/internal/logger"
	"github.com/hammamikhairi/moodchat/internal/mood"
)

// Lines the controller writes into the chat as the assistant.
const (
	LineWelcome = "Welcome! I'm your emotion-aware AI assistant. I can:\n" +
		"• Detect your emotional state\n" +
		"• Provide mood-based suggestions\n" +
		"• Offer emotional support\n" +
		"• Answer your questions\n\n" +
		"Please complete the liveness check to begin our conversation."
	LineNotLive         = "Please complete the liveness check before sending messages."
	LineRequestFailed   = "Sorry, there was an error processing your request."
	LineTransportFailed = "Sorry, there was an error communicating with the server."
)

// Option configures the engine.
type Option func(*Engine)

// WithCue sets the signal fired when chat unlocks.
func WithCue(c domain.Cue) Option {
	return func(e *Engine) { e.cue = c }
}

// WithClock overrides time.Now for chart timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine holds the process-wide UI state (liveness, current emotion, the
// input gate) behind accessors. It depends only on interfaces and is
// fully testable with fakes.
type Engine struct {
	asker  domain.Asker
	view   domain.Presenter
	series *mood.Series
	cue    domain.Cue
	log    *logger.Logger
	now    func() time.Time

	// gateMu orders gate transitions together with the input toggle they
	// render, so the screen always ends on the latest gate state.
	gateMu sync.Mutex

	mu      sync.Mutex
	gate    gateMachine
	current emotion.Label
}

// New creates the controller with the given dependencies and options.
func New(asker domain.Asker, view domain.Presenter, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		asker:   asker,
		view:    view,
		log:     log,
		series:  mood.NewSeries(),
		now:     time.Now,
		current: emotion.Neutral,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open prepares the screen: input disabled until liveness passes, and
// the welcome message posted.
func (e *Engine) Open() {
	e.view.SetInputEnabled(false)
	e.say(LineWelcome)
	e.log.Info("controller opened (gate=%s)", e.Gate())
}

// Live reports whether the latest status signalled a live person.
func (e *Engine) Live() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gate.live
}

// CurrentEmotion returns the last emotion seen by the poller.
func (e *Engine) CurrentEmotion() emotion.Label {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Gate returns the current input state.
func (e *Engine) Gate() Gate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gate.state()
}

// ApplyStatus fans one detection sample out to every display and updates
// the shared liveness and emotion state.
func (e *Engine) ApplyStatus(ctx context.Context, s *domain.Status) {
	if s == nil {
		return
	}

	e.view.RenderLiveness(LivenessView(s.Phase))
	e.view.RenderEmotion(EmotionView(s.Emotion, s.Confidence))
	e.view.RenderSuggestions(SuggestionCards(s.Suggestions))
	e.view.RenderMetrics(MetricsView(s))

	e.series.Append(e.now(), s.Confidence)
	e.view.RenderMoodChart(e.series.Samples())

	e.gateMu.Lock()
	e.mu.Lock()
	from, to := e.gate.setLive(s.Live())
	if label := strings.TrimSpace(string(s.Emotion)); label != "" {
		e.current = emotion.Label(label)
	}
	e.mu.Unlock()
	e.applyGate(from, to)
	e.gateMu.Unlock()
	if from == GateDisabled && to != GateDisabled {
		e.log.Info("liveness passed: %q", s.Phase)
		if e.cue != nil {
			e.cue.Unlocked(ctx)
		}
	} else if from != GateDisabled && to == GateDisabled {
		e.log.Info("liveness lost: %q", s.Phase)
	}
}

// Submit runs one chat exchange for text. Empty input is dropped, input
// while the liveness gate is closed gets a rejection line, and everything
// else is posted to the backend. The returned error is informational;
// every outcome has already been rendered.
func (e *Engine) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyMessage
	}

	e.gateMu.Lock()
	e.mu.Lock()
	if !e.gate.live {
		e.mu.Unlock()
		e.gateMu.Unlock()
		e.say(LineNotLive)
		return domain.ErrNotLive
	}
	from, to, ok := e.gate.begin()
	e.mu.Unlock()
	if !ok {
		e.gateMu.Unlock()
		e.log.Debug("submit ignored: gate=%s", from)
		return domain.ErrAwaitingResponse
	}
	e.view.AppendMessage(domain.NewUserMessage(text))
	e.view.ClearInput()
	e.applyGate(from, to)
	e.gateMu.Unlock()
	defer e.finish()

	// The exchange outlives teardown; nothing cancels it mid-flight.
	answer, err := e.asker.Ask(context.WithoutCancel(ctx), text)
	if err == nil && answer == nil {
		err = fmt.Errorf("engine: empty answer: %w", domain.ErrDecode)
	}
	switch {
	case err == nil:
		e.say(answer.Response)
		if answer.Suggestions != nil {
			e.view.RenderSuggestions(SuggestionCards(answer.Suggestions))
		}
	case errors.Is(err, domain.ErrRejected):
		e.log.Error("chat: %v", err)
		e.say(LineRequestFailed)
	default:
		e.log.Error("chat: %v", err)
		e.say(LineTransportFailed)
	}
	return err
}

// finish returns the gate from Awaiting and gives focus back to the input.
func (e *Engine) finish() {
	e.gateMu.Lock()
	e.mu.Lock()
	from, to := e.gate.finish()
	e.mu.Unlock()
	e.applyGate(from, to)
	e.gateMu.Unlock()

	e.view.FocusInput()
}

// applyGate renders a transition. Callers hold gateMu.
func (e *Engine) applyGate(from, to Gate) {
	if from == to {
		return
	}
	e.log.Debug("gate: %s -> %s", from, to)
	if from.InputEnabled() != to.InputEnabled() {
		e.view.SetInputEnabled(to.InputEnabled())
	}
}

// say appends an assistant message annotated with the emotion current
// right now, not the one current when the exchange began.
func (e *Engine) say(text string) {
	e.view.AppendMessage(domain.NewAssistantMessage(text, e.CurrentEmotion()))
}
