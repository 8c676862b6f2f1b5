// Package domain defines the core types and interfaces for the mood chat client.
// Other packages depend on domain; domain depends only on emotion and mood.
package domain

import (
	"strings"

	"github.com/hammamikhairi/moodchat/internal/emotion"
)

// Phase markers the detection backend embeds in its liveness text.
const (
	PhaseLiveMarker  = "Live Person Detected"
	PhaseBlinkMarker = "Blink Check Passed"
)

// Status is one detection sample from GET /get_status. It replaces the
// previous sample wholesale; fields are never merged across polls.
type Status struct {
	Phase         string        `json:"status"`
	Emotion       emotion.Label `json:"emotion"`
	Confidence    float64       `json:"emotion_confidence"`
	Suggestions   []string      `json:"suggestions"`
	Blinks        int           `json:"blinks"`
	FaceDirection string        `json:"face_direction"`
}

// Live reports whether the phase signals a live person.
func (s Status) Live() bool {
	return IsLivePhase(s.Phase)
}

// IsLivePhase reports whether phase contains the live-person marker.
// The match is case sensitive, as the backend always sends the same casing.
func IsLivePhase(phase string) bool {
	return strings.Contains(phase, PhaseLiveMarker)
}

// Severity buckets a liveness phase for styling.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeveritySuccess
)

// String returns a human-readable severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeveritySuccess:
		return "success"
	default:
		return "unknown"
	}
}

// ClassifyPhase maps a phase string to its severity bucket.
func ClassifyPhase(phase string) Severity {
	switch {
	case strings.Contains(phase, PhaseLiveMarker):
		return SeveritySuccess
	case strings.Contains(phase, PhaseBlinkMarker):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Answer is the decoded POST /ask_gemini response.
type Answer struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	// Suggestions is nil when the backend sent none; an empty non-nil
	// slice still replaces the panel.
	Suggestions []string `json:"suggestions"`
	Error       string   `json:"error,omitempty"`
}

// Question is the POST /ask_gemini request body.
type Question struct {
	Question string `json:"question"`
}
