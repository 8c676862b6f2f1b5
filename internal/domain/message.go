package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/moodchat/internal/emotion"
)

// Role identifies who authored a chat message.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

// String returns a human-readable role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Message is one chat line. Messages are rendered as soon as they are
// created and never change afterwards.
type Message struct {
	ID   string
	Role Role
	Text string
	// Emotion is the mood the assistant was responding to, captured when
	// the message was rendered. Empty for user messages.
	Emotion emotion.Label
	At      time.Time
}

// NewUserMessage stamps a user message with a fresh ID and the current time.
func NewUserMessage(text string) Message {
	return Message{ID: uuid.NewString(), Role: RoleUser, Text: text, At: time.Now()}
}

// NewAssistantMessage stamps an assistant message annotated with mood.
func NewAssistantMessage(text string, mood emotion.Label) Message {
	return Message{ID: uuid.NewString(), Role: RoleAssistant, Text: text, Emotion: mood, At: time.Now()}
}

// Clock returns the render timestamp as shown next to the message.
func (m Message) Clock() string {
	return m.At.Format("15:04:05")
}
