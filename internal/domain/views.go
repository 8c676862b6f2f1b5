package domain

import (
	"fmt"
	"time"

	"github.com/hammamikhairi/moodchat/internal/emotion"
)

// LivenessView is what the liveness banner shows.
type LivenessView struct {
	Text     string
	Severity Severity
}

// EmotionView is what the emotion panel shows.
type EmotionView struct {
	Label      emotion.Label
	Confidence float64
	Preset     emotion.Preset
}

// Text formats the label and confidence, e.g. "happy (82.3%)".
func (v EmotionView) Text() string {
	return fmt.Sprintf("%s (%.1f%%)", v.Label, v.Confidence)
}

// SuggestionCard is one entry in the suggestions panel.
type SuggestionCard struct {
	Icon  string
	Label string
	// Delay before the card's entrance animation starts.
	Delay time.Duration
}

// MetricsView carries the auxiliary detection metrics verbatim.
type MetricsView struct {
	Blinks        int
	FaceDirection string
}
