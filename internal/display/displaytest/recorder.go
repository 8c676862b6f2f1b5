// Package displaytest provides a Presenter that records every call, for
// exercising the controller without a terminal.
package displaytest

import (
	"sync"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/mood"
)

// Compile-time interface check.
var _ domain.Presenter = (*Recorder)(nil)

// Recorder keeps the latest rendered state plus the full message list.
type Recorder struct {
	mu sync.Mutex

	Liveness     domain.LivenessView
	Emotion      domain.EmotionView
	Suggestions  []domain.SuggestionCard
	Metrics      domain.MetricsView
	Chart        []mood.Sample
	Messages     []domain.Message
	InputEnabled bool
	Focused      bool

	SuggestionRenders int
	InputToggles      []bool
	Clears            int
	Focuses           int
	StatusRenders     int
}

// RenderLiveness records the banner.
func (r *Recorder) RenderLiveness(v domain.LivenessView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Liveness = v
	r.StatusRenders++
}

// RenderEmotion records the emotion panel.
func (r *Recorder) RenderEmotion(v domain.EmotionView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Emotion = v
}

// RenderSuggestions records the suggestions panel.
func (r *Recorder) RenderSuggestions(cards []domain.SuggestionCard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Suggestions = append([]domain.SuggestionCard(nil), cards...)
	r.SuggestionRenders++
}

// RenderMetrics records the metrics panel.
func (r *Recorder) RenderMetrics(v domain.MetricsView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Metrics = v
}

// RenderMoodChart records the chart series.
func (r *Recorder) RenderMoodChart(samples []mood.Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Chart = append([]mood.Sample(nil), samples...)
}

// AppendMessage records a chat message.
func (r *Recorder) AppendMessage(m domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, m)
}

// SetInputEnabled records the gate output.
func (r *Recorder) SetInputEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.InputEnabled = enabled
	r.InputToggles = append(r.InputToggles, enabled)
	if !enabled {
		r.Focused = false
	}
}

// ClearInput records an input reset.
func (r *Recorder) ClearInput() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Clears++
}

// FocusInput records a focus request.
func (r *Recorder) FocusInput() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Focuses++
	r.Focused = r.InputEnabled
}

// Snapshot returns a copy of the recorder safe to inspect.
func (r *Recorder) Snapshot() Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Recorder{
		Liveness:          r.Liveness,
		Emotion:           r.Emotion,
		Suggestions:       append([]domain.SuggestionCard(nil), r.Suggestions...),
		Metrics:           r.Metrics,
		Chart:             append([]mood.Sample(nil), r.Chart...),
		Messages:          append([]domain.Message(nil), r.Messages...),
		InputEnabled:      r.InputEnabled,
		Focused:           r.Focused,
		SuggestionRenders: r.SuggestionRenders,
		InputToggles:      append([]bool(nil), r.InputToggles...),
		Clears:            r.Clears,
		Focuses:           r.Focuses,
		StatusRenders:     r.StatusRenders,
	}
}

// MessagesByRole filters the recorded messages.
func (r *Recorder) MessagesByRole(role domain.Role) []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.Messages {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}
