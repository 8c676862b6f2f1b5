package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/display/displaytest"
	"github.com/hammamikhairi/moodchat/internal/emotion"
	"github.com/hammamikhairi/moodchat/internal/logger"
)

// fakeAsker scripts Ask results and counts calls.
type fakeAsker struct {
	mu       sync.Mutex
	calls    []string
	answer   *domain.Answer
	err      error
	duringFn func()
}

func (f *fakeAsker) Ask(_ context.Context, q string) (*domain.Answer, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	fn := f.duringFn
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
	return f.answer, f.err
}

func (f *fakeAsker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// countingCue records unlock signals.
type countingCue struct{ n int }

func (c *countingCue) Unlocked(context.Context) { c.n++ }

func setupEngine(t *testing.T, asker *fakeAsker) (*Engine, *displaytest.Recorder, context.Context) {
	t.Helper()
	rec := &displaytest.Recorder{}
	eng := New(asker, rec, logger.Nop())
	eng.Open()
	return eng, rec, context.Background()
}

func liveStatus() *domain.Status {
	return &domain.Status{
		Phase:         "Live Person Detected",
		Emotion:       emotion.Happy,
		Confidence:    82.3,
		Suggestions:   []string{"Take a walk"},
		Blinks:        3,
		FaceDirection: "center",
	}
}

func TestOpenDisablesInputAndWelcomes(t *testing.T) {
	eng, rec, _ := setupEngine(t, &fakeAsker{})

	snap := rec.Snapshot()
	assert.False(t, snap.InputEnabled)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, LineWelcome, snap.Messages[0].Text)
	assert.Equal(t, domain.RoleAssistant, snap.Messages[0].Role)
	assert.Equal(t, emotion.Neutral, snap.Messages[0].Emotion)
	assert.Equal(t, GateDisabled, eng.Gate())
}

func TestApplyStatusEndToEnd(t *testing.T) {
	eng, rec, ctx := setupEngine(t, &fakeAsker{})

	eng.ApplyStatus(ctx, liveStatus())

	snap := rec.Snapshot()
	assert.True(t, snap.InputEnabled)
	assert.Equal(t, GateIdle, eng.Gate())
	assert.Equal(t, "happy (82.3%)", snap.Emotion.Text())
	assert.Equal(t, emotion.PresetFor(emotion.Happy), snap.Emotion.Preset)
	require.Len(t, snap.Suggestions, 1)
	assert.Equal(t, "Take a walk", snap.Suggestions[0].Label)
	assert.Equal(t, 3, snap.Metrics.Blinks)
	assert.Equal(t, "3", fmt.Sprint(snap.Metrics.Blinks))
	assert.Equal(t, "center", snap.Metrics.FaceDirection)
	assert.Equal(t, domain.SeveritySuccess, snap.Liveness.Severity)
	require.Len(t, snap.Chart, 1)
	assert.InDelta(t, 82.3, snap.Chart[0].Value, 1e-9)
	assert.Equal(t, emotion.Happy, eng.CurrentEmotion())
}

func TestLivenessGate(t *testing.T) {
	phases := []struct {
		phase string
		live  bool
	}{
		{"Live Person Detected!", true},
		{"Blink Check Passed! Now turn your head slightly.", false},
		{"Please blink naturally (2/3) and turn your head slightly", false},
		{"Checking...", false},
		{"Live Person Detected", true},
		{"", false},
	}

	eng, rec, ctx := setupEngine(t, &fakeAsker{})
	for _, p := range phases {
		eng.ApplyStatus(ctx, &domain.Status{Phase: p.phase, Emotion: emotion.Neutral})
		assert.Equal(t, p.live, rec.Snapshot().InputEnabled, "phase %q", p.phase)
		assert.Equal(t, p.live, eng.Live(), "phase %q", p.phase)
	}
}

func TestApplyStatusUnknownEmotionFallsBack(t *testing.T) {
	eng, rec, ctx := setupEngine(t, &fakeAsker{})

	eng.ApplyStatus(ctx, &domain.Status{Phase: "Checking...", Emotion: "fearful", Confidence: 12.25})

	snap := rec.Snapshot()
	assert.Equal(t, emotion.PresetFor(emotion.Neutral), snap.Emotion.Preset)
	assert.Equal(t, emotion.Label("fearful"), snap.Emotion.Label)
	assert.Equal(t, domain.SeverityInfo, snap.Liveness.Severity)
}

func TestApplyStatusReplacesSuggestions(t *testing.T) {
	eng, rec, ctx := setupEngine(t, &fakeAsker{})

	s := liveStatus()
	s.Suggestions = []string{"a", "b", "c"}
	eng.ApplyStatus(ctx, s)
	s.Suggestions = nil
	eng.ApplyStatus(ctx, s)

	snap := rec.Snapshot()
	assert.Empty(t, snap.Suggestions)
	assert.Equal(t, 2, snap.SuggestionRenders)
}

func TestApplyStatusChartCapped(t *testing.T) {
	eng, rec, ctx := setupEngine(t, &fakeAsker{})
	for i := 0; i < 25; i++ {
		s := liveStatus()
		s.Confidence = float64(i)
		eng.ApplyStatus(ctx, s)
	}

	snap := rec.Snapshot()
	require.Len(t, snap.Chart, 20)
	assert.Equal(t, float64(5), snap.Chart[0].Value)
	assert.Equal(t, float64(24), snap.Chart[19].Value)
}

func TestCueFiresOnUnlockOnly(t *testing.T) {
	cue := &countingCue{}
	eng := New(&fakeAsker{}, &displaytest.Recorder{}, logger.Nop(), WithCue(cue))
	ctx := context.Background()

	eng.ApplyStatus(ctx, &domain.Status{Phase: "Checking..."})
	eng.ApplyStatus(ctx, liveStatus())
	eng.ApplyStatus(ctx, liveStatus())
	eng.ApplyStatus(ctx, &domain.Status{Phase: "Checking..."})
	eng.ApplyStatus(ctx, liveStatus())

	assert.Equal(t, 2, cue.n)
}

func TestSubmitEmptyDoesNothing(t *testing.T) {
	asker := &fakeAsker{}
	eng, rec, ctx := setupEngine(t, asker)
	eng.ApplyStatus(ctx, liveStatus())
	before := len(rec.Snapshot().Messages)

	for _, text := range []string{"", "   ", "\t\n"} {
		err := eng.Submit(ctx, text)
		assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	}

	assert.Len(t, rec.Snapshot().Messages, before)
	assert.Zero(t, asker.count())
}

func TestSubmitWhileNotLive(t *testing.T) {
	asker := &fakeAsker{}
	eng, rec, ctx := setupEngine(t, asker)

	err := eng.Submit(ctx, "hello?")
	assert.ErrorIs(t, err, domain.ErrNotLive)

	msgs := rec.Snapshot().Messages
	require.Len(t, msgs, 2) // welcome + rejection
	assert.Equal(t, LineNotLive, msgs[1].Text)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
	assert.Empty(t, rec.MessagesByRole(domain.RoleUser))
	assert.Zero(t, asker.count())
}

func TestSubmitSuccess(t *testing.T) {
	asker := &fakeAsker{answer: &domain.Answer{
		Success:     true,
		Response:    "Here's a tip",
		Suggestions: []string{"Stretch"},
	}}
	eng, rec, ctx := setupEngine(t, asker)
	eng.ApplyStatus(ctx, liveStatus())

	require.NoError(t, eng.Submit(ctx, "  how do I relax?  "))

	assert.Equal(t, []string{"how do I relax?"}, asker.calls)

	users := rec.MessagesByRole(domain.RoleUser)
	require.Len(t, users, 1)
	assert.Equal(t, "how do I relax?", users[0].Text)

	assistants := rec.MessagesByRole(domain.RoleAssistant)
	require.Len(t, assistants, 2) // welcome + reply
	assert.Equal(t, "Here's a tip", assistants[1].Text)
	assert.Equal(t, emotion.Happy, assistants[1].Emotion)

	snap := rec.Snapshot()
	require.Len(t, snap.Suggestions, 1)
	assert.Equal(t, "Stretch", snap.Suggestions[0].Label)
	assert.Equal(t, 1, snap.Clears)
	assert.True(t, snap.InputEnabled)
	assert.True(t, snap.Focused)
	assert.Equal(t, []bool{false, true, false, true}, snap.InputToggles)
	assert.Equal(t, GateIdle, eng.Gate())
}

func TestSubmitSuccessWithoutSuggestionsKeepsPanel(t *testing.T) {
	asker := &fakeAsker{answer: &domain.Answer{Success: true, Response: "ok"}}
	eng, rec, ctx := setupEngine(t, asker)
	eng.ApplyStatus(ctx, liveStatus())
	renders := rec.Snapshot().SuggestionRenders

	require.NoError(t, eng.Submit(ctx, "hi"))

	snap := rec.Snapshot()
	assert.Equal(t, renders, snap.SuggestionRenders)
	require.Len(t, snap.Suggestions, 1)
	assert.Equal(t, "Take a walk", snap.Suggestions[0].Label)
}

func TestSubmitFailures(t *testing.T) {
	tests := []struct {
		name     string
		answer   *domain.Answer
		err      error
		wantLine string
	}{
		{"not successful", &domain.Answer{Success: false}, fmt.Errorf("backend: ask: %w", domain.ErrRejected), LineRequestFailed},
		{"transport", nil, fmt.Errorf("backend: POST: %w", domain.ErrTransport), LineTransportFailed},
		{"decode", nil, fmt.Errorf("backend: decode: %w", domain.ErrDecode), LineTransportFailed},
		{"unclassified", nil, errors.New("boom"), LineTransportFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asker := &fakeAsker{answer: tt.answer, err: tt.err}
			eng, rec, ctx := setupEngine(t, asker)
			eng.ApplyStatus(ctx, liveStatus())

			err := eng.Submit(ctx, "hello")
			assert.Error(t, err)

			assistants := rec.MessagesByRole(domain.RoleAssistant)
			require.Len(t, assistants, 2) // welcome + exactly one failure notice
			assert.Equal(t, tt.wantLine, assistants[1].Text)

			snap := rec.Snapshot()
			assert.True(t, snap.InputEnabled)
			assert.Equal(t, GateIdle, eng.Gate())
		})
	}
}

func TestSubmitAwaitingDisablesInput(t *testing.T) {
	asker := &fakeAsker{answer: &domain.Answer{Success: true, Response: "done"}}
	eng, rec, ctx := setupEngine(t, asker)
	eng.ApplyStatus(ctx, liveStatus())

	var gateDuring Gate
	var inputDuring bool
	var nested error
	asker.duringFn = func() {
		gateDuring = eng.Gate()
		inputDuring = rec.Snapshot().InputEnabled
		nested = eng.Submit(ctx, "second")
	}

	require.NoError(t, eng.Submit(ctx, "first"))
	assert.Equal(t, GateAwaiting, gateDuring)
	assert.False(t, inputDuring)
	assert.ErrorIs(t, nested, domain.ErrAwaitingResponse)
	assert.Equal(t, 1, asker.count())
}

func TestLivenessOverridesAwaiting(t *testing.T) {
	asker := &fakeAsker{answer: &domain.Answer{Success: true, Response: "done"}}
	eng, rec, ctx := setupEngine(t, asker)
	eng.ApplyStatus(ctx, liveStatus())

	asker.duringFn = func() {
		eng.ApplyStatus(ctx, &domain.Status{Phase: "Checking..."})
		eng.ApplyStatus(ctx, liveStatus())
		// Liveness came back but the exchange is still running.
		assert.Equal(t, GateAwaiting, eng.Gate())
		assert.False(t, rec.Snapshot().InputEnabled)

		eng.ApplyStatus(ctx, &domain.Status{Phase: "Checking..."})
	}

	require.NoError(t, eng.Submit(ctx, "hello"))
	assert.Equal(t, GateDisabled, eng.Gate())
	assert.False(t, rec.Snapshot().InputEnabled)
}

func TestAssistantEmotionCapturedAtRender(t *testing.T) {
	asker := &fakeAsker{answer: &domain.Answer{Success: true, Response: "reply"}}
	eng, rec, ctx := setupEngine(t, asker)
	eng.ApplyStatus(ctx, liveStatus())

	asker.duringFn = func() {
		s := liveStatus()
		s.Emotion = emotion.Sad
		eng.ApplyStatus(ctx, s)
	}

	require.NoError(t, eng.Submit(ctx, "hi"))
	assistants := rec.MessagesByRole(domain.RoleAssistant)
	assert.Equal(t, emotion.Sad, assistants[len(assistants)-1].Emotion)
}

func TestSubmitSurvivesCancelledContext(t *testing.T) {
	var sawCancel bool
	asker := &ctxAsker{fn: func(ctx context.Context) { sawCancel = ctx.Err() != nil }}
	rec := &displaytest.Recorder{}
	eng := New(asker, rec, logger.Nop(), WithClock(func() time.Time { return time.Unix(0, 0) }))

	ctx, cancel := context.WithCancel(context.Background())
	eng.ApplyStatus(ctx, liveStatus())
	cancel()

	_ = eng.Submit(ctx, "still there?")
	assert.False(t, sawCancel)
}

type ctxAsker struct{ fn func(context.Context) }

func (a *ctxAsker) Ask(ctx context.Context, _ string) (*domain.Answer, error) {
	a.fn(ctx)
	return &domain.Answer{Success: true, Response: "yes"}, nil
}

// stallingView blocks the next SetInputEnabled(true) until release is
// closed, so a slow render can be overtaken by a newer gate transition.
type stallingView struct {
	*displaytest.Recorder
	stall   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newStallingView() *stallingView {
	return &stallingView{
		Recorder: &displaytest.Recorder{},
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (v *stallingView) SetInputEnabled(enabled bool) {
	if enabled && v.stall.CompareAndSwap(true, false) {
		close(v.entered)
		<-v.release
	}
	v.Recorder.SetInputEnabled(enabled)
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

func TestOverlappingPollsEndOnLatestGate(t *testing.T) {
	view := newStallingView()
	eng := New(&fakeAsker{}, view, logger.Nop())
	eng.Open()
	ctx := context.Background()
	notLive := &domain.Status{Phase: "Checking...", Emotion: emotion.Neutral}

	view.stall.Store(true)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		eng.ApplyStatus(ctx, liveStatus())
	}()
	waitClosed(t, view.entered)

	go func() {
		defer wg.Done()
		eng.ApplyStatus(ctx, notLive)
	}()
	time.Sleep(20 * time.Millisecond)
	close(view.release)
	wg.Wait()

	for i := 0; i < 5; i++ {
		eng.ApplyStatus(ctx, notLive)
	}

	snap := view.Snapshot()
	assert.Equal(t, GateDisabled, eng.Gate())
	assert.False(t, snap.InputEnabled)
	assert.Equal(t, []bool{false, true, false}, snap.InputToggles)
}

func TestFinishRacingLostLivenessKeepsInputDisabled(t *testing.T) {
	view := newStallingView()
	asker := &fakeAsker{answer: &domain.Answer{Success: true, Response: "done"}}
	eng := New(asker, view, logger.Nop())
	eng.Open()
	ctx := context.Background()
	eng.ApplyStatus(ctx, liveStatus())

	view.stall.Store(true)
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, eng.Submit(ctx, "hello"))
	}()
	waitClosed(t, view.entered)

	polled := make(chan struct{})
	go func() {
		defer close(polled)
		eng.ApplyStatus(ctx, &domain.Status{Phase: "Checking..."})
	}()
	time.Sleep(20 * time.Millisecond)
	close(view.release)
	waitClosed(t, done)
	waitClosed(t, polled)

	snap := view.Snapshot()
	assert.Equal(t, GateDisabled, eng.Gate())
	assert.False(t, snap.InputEnabled)
	assert.Equal(t, []bool{false, true, false, true, false}, snap.InputToggles)
}
