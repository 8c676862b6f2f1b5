package engine

import (
	"strings"
	"time"
	"unicode"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/emotion"
)

// CardStagger is the entrance delay added per suggestion card.
const CardStagger = 100 * time.Millisecond

// DefaultSuggestionIcon is used when a suggestion has no leading icon.
const DefaultSuggestionIcon = "💡"

// LivenessView builds the liveness banner for a phase string.
func LivenessView(phase string) domain.LivenessView {
	return domain.LivenessView{Text: phase, Severity: domain.ClassifyPhase(phase)}
}

// EmotionView builds the emotion panel. Unknown labels keep their text
// but borrow the neutral preset; an empty label reads as neutral.
func EmotionView(label emotion.Label, confidence float64) domain.EmotionView {
	if strings.TrimSpace(string(label)) == "" {
		label = emotion.Neutral
	}
	return domain.EmotionView{
		Label:      label,
		Confidence: confidence,
		Preset:     emotion.PresetFor(label),
	}
}

// SuggestionCards builds the full replacement content of the suggestions
// panel, one card per suggestion in order.
func SuggestionCards(suggestions []string) []domain.SuggestionCard {
	cards := make([]domain.SuggestionCard, 0, len(suggestions))
	for i, s := range suggestions {
		icon, label := SplitSuggestion(s)
		cards = append(cards, domain.SuggestionCard{
			Icon:  icon,
			Label: label,
			Delay: time.Duration(i) * CardStagger,
		})
	}
	return cards
}

// SplitSuggestion separates a leading icon token from the label, as in
// "🚶 Take a walk". Text that starts with a word gets the default icon.
func SplitSuggestion(s string) (icon, label string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSuggestionIcon, ""
	}

	first, rest, _ := strings.Cut(s, " ")
	if !isIconToken(first) {
		return DefaultSuggestionIcon, s
	}
	return first, strings.TrimSpace(rest)
}

// isIconToken reports whether tok holds no letters or digits.
func isIconToken(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// MetricsView copies the auxiliary metrics.
func MetricsView(s *domain.Status) domain.MetricsView {
	return domain.MetricsView{Blinks: s.Blinks, FaceDirection: s.FaceDirection}
}
