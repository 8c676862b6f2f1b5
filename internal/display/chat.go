package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/emotion"
)

// MoodLine is the context line shown under every assistant message.
func MoodLine(label emotion.Label) string {
	if strings.TrimSpace(string(label)) == "" {
		label = emotion.Neutral
	}
	return fmt.Sprintf("%s Responding to your %s mood", emotion.PresetFor(label).Icon, label)
}

// chatRenderer turns transcript messages into terminal text. Assistant
// replies are markdown; user lines are plain and wrapped.
type chatRenderer struct {
	md    *glamour.TermRenderer
	width int
	cache map[string]string
}

// newChatRenderer builds a renderer for the given column count. style is a
// glamour standard style name ("dark", "light", "notty").
func newChatRenderer(width int, style string) *chatRenderer {
	if width < 20 {
		width = 20
	}
	// A nil renderer falls back to plain wrapped text.
	md, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width-2),
		glamour.WithEmoji(),
	)
	return &chatRenderer{md: md, width: width, cache: make(map[string]string)}
}

// Render renders the whole transcript, oldest first.
func (r *chatRenderer) Render(messages []domain.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, r.message(m))
	}
	return strings.Join(parts, "\n\n")
}

func (r *chatRenderer) message(m domain.Message) string {
	if out, ok := r.cache[m.ID]; ok && m.ID != "" {
		return out
	}

	var b strings.Builder
	switch m.Role {
	case domain.RoleUser:
		b.WriteString(userTagStyle.Render("you") + " " + timeStyle.Render(m.Clock()) + "\n")
		b.WriteString(userStyle.Render(wordwrap.String(m.Text, r.width-2)))
	default:
		b.WriteString(assistantTagStyle.Render("assistant") + " " + timeStyle.Render(m.Clock()) + "\n")
		b.WriteString(r.markdown(m.Text))
		b.WriteString("\n" + moodLineStyle.Render(MoodLine(m.Emotion)))
	}

	out := b.String()
	if m.ID != "" {
		r.cache[m.ID] = out
	}
	return out
}

func (r *chatRenderer) markdown(text string) string {
	if r.md != nil {
		if out, err := r.md.Render(text); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return wordwrap.String(text, r.width-2)
}
