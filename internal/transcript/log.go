// Package transcript keeps the chat history shown on screen.
package transcript

import (
	"sync"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/logger"
)

// Log is an append-only, in-memory list of chat messages. It lives only
// as long as the process. Safe for concurrent access.
type Log struct {
	mu       sync.RWMutex
	messages []domain.Message
	byID     map[string]int
	log      *logger.Logger
}

// New creates an empty transcript.
func New(log *logger.Logger) *Log {
	return &Log{
		messages: make([]domain.Message, 0, 32),
		byID:     make(map[string]int),
		log:      log,
	}
}

// Append records a message. A message whose ID is already present is
// ignored so a re-delivered render cannot duplicate a line.
func (l *Log) Append(m domain.Message) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, dup := l.byID[m.ID]; dup && m.ID != "" {
		l.log.Debug("transcript: duplicate message %s ignored", m.ID)
		return false
	}
	if m.ID != "" {
		l.byID[m.ID] = len(l.messages)
	}
	l.messages = append(l.messages, m)
	l.log.Debug("transcript: %s message #%d (%d chars)", m.Role, len(l.messages), len(m.Text))
	return true
}

// All returns a copy of the transcript, oldest first.
func (l *Log) All() []domain.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// CountRole returns how many messages role authored.
func (l *Log) CountRole(role domain.Role) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, m := range l.messages {
		if m.Role == role {
			n++
		}
	}
	return n
}
