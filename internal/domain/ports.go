package domain

import (
	"context"

	"github.com/hammamikhairi/moodchat/internal/mood"
)

// StatusSource fetches the current detection sample.
type StatusSource interface {
	FetchStatus(ctx context.Context) (*Status, error)
}

// Asker relays a chat question to the AI endpoint.
type Asker interface {
	Ask(ctx context.Context, question string) (*Answer, error)
}

// Backend is everything the client needs from the detection server.
type Backend interface {
	StatusSource
	Asker
}

// Presenter is the rendering capability. Implementations can be a
// terminal UI, a recorder in tests, or anything else that shows state.
// Calls may arrive from any goroutine.
type Presenter interface {
	RenderLiveness(v LivenessView)
	RenderEmotion(v EmotionView)
	RenderSuggestions(cards []SuggestionCard)
	RenderMetrics(v MetricsView)
	RenderMoodChart(samples []mood.Sample)
	AppendMessage(m Message)
	SetInputEnabled(enabled bool)
	ClearInput()
	FocusInput()
}

// Cue signals the user out-of-band when chat becomes available.
// Implementations can beep, flash, or do nothing.
type Cue interface {
	Unlocked(ctx context.Context)
}
