package display

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/emotion"
)

// ── Styles (soft palette) ────────────────────────────────────────

var (
	// BannerStyle is muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8")).
			Bold(true)

	barBase = lipgloss.NewStyle().
		Padding(0, 1)

	infoBarStyle = barBase.
			Background(lipgloss.Color("#27272a")).
			Foreground(lipgloss.Color("#a1a1aa"))

	warningBarStyle = barBase.
			Background(lipgloss.Color("#422006")).
			Foreground(lipgloss.Color("#fde68a"))

	successBarStyle = barBase.
			Background(lipgloss.Color("#052e16")).
			Foreground(lipgloss.Color("#bbf7d0"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3f3f46")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4e7")).
			Background(lipgloss.Color("#27272a")).
			Padding(0, 1).
			MarginRight(1)

	sparkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dd3fc"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	userTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8")).
			Bold(true)

	assistantTagStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#bae6fd")).
				Bold(true)

	moodLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	disabledPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#52525b"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3f3f46"))
)

// severityStyle returns the liveness bar style for a severity.
func severityStyle(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeveritySuccess:
		return successBarStyle
	case domain.SeverityWarning:
		return warningBarStyle
	default:
		return infoBarStyle
	}
}

// emotionStyle colors text with the preset's accent.
func emotionStyle(p emotion.Preset) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Bold(true)
}

// spinnerFor maps a preset animation to the terminal motion that stands in
// for it.
func spinnerFor(a emotion.Animation) spinner.Spinner {
	switch a {
	case emotion.AnimBounce:
		return spinner.Jump
	case emotion.AnimShake:
		return spinner.Line
	case emotion.AnimFade:
		return spinner.Ellipsis
	case emotion.AnimWobble:
		return spinner.Hamburger
	case emotion.AnimFlash:
		return spinner.Meter
	case emotion.AnimSpin:
		return spinner.Dot
	case emotion.AnimBreath:
		return spinner.Moon
	default:
		return spinner.Pulse
	}
}
