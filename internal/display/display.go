// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type implements domain.Presenter. Every render call is turned
// into a message and handed to the Bubble Tea event loop with
// Program.Send, so concurrent callers (the poller, chat exchanges) never
// touch UI state directly and rendering stays serialized.
package display

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/emotion"
	"github.com/hammamikhairi/moodchat/internal/mood"
	"github.com/hammamikhairi/moodchat/internal/transcript"
)

// Compile-time interface check.
var _ domain.Presenter = (*UI)(nil)

const (
	promptText          = "you> "
	placeholderEnabled  = "Type your message..."
	placeholderDisabled = "input disabled"
	livenessInitial     = "Waiting for detection status..."
	markdownStyle       = "dark"
)

// Option configures the UI.
type Option func(*UI)

// WithSubtitle sets the text shown next to the title, e.g. the backend URL.
func WithSubtitle(s string) Option {
	return func(u *UI) { u.subtitle = s }
}

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call the
// Presenter methods and read from [UI.InputChan] once [UI.WaitReady]
// returns.
type UI struct {
	program    *tea.Program
	transcript *transcript.Log
	inputCh    chan string
	readyCh    chan struct{}
	quitCh     chan struct{}
	done       atomic.Bool

	subtitle string
}

// NewUI creates the display. The transcript is the chat history the UI
// renders from. Call Run() to start.
func NewUI(history *transcript.Log, opts ...Option) *UI {
	u := &UI{
		transcript: history,
		inputCh:    make(chan string, 16),
		readyCh:    make(chan struct{}),
		quitCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(u)
	}

	m := newModel(u.transcript, u.inputCh, u.readyCh, u.subtitle, markdownStyle, termWidth(), termHeight())
	u.program = tea.NewProgram(m, tea.WithAltScreen())
	return u
}

// InputChan returns submitted chat lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() { u.program.Quit() }

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

func (u *UI) send(msg tea.Msg) {
	if u.done.Load() {
		return
	}
	u.program.Send(msg)
}

// ── Presenter ────────────────────────────────────────────────────

// RenderLiveness updates the liveness bar.
func (u *UI) RenderLiveness(v domain.LivenessView) { u.send(livenessMsg(v)) }

// RenderEmotion updates the emotion panel and its animation.
func (u *UI) RenderEmotion(v domain.EmotionView) { u.send(emotionMsg(v)) }

// RenderSuggestions replaces the suggestion cards.
func (u *UI) RenderSuggestions(cards []domain.SuggestionCard) {
	u.send(suggestionsMsg(append([]domain.SuggestionCard(nil), cards...)))
}

// RenderMetrics updates the metrics panel.
func (u *UI) RenderMetrics(v domain.MetricsView) { u.send(metricsMsg(v)) }

// RenderMoodChart redraws the chart from the full series.
func (u *UI) RenderMoodChart(samples []mood.Sample) {
	u.send(chartMsg(append([]mood.Sample(nil), samples...)))
}

// AppendMessage records m in the transcript and scrolls the chat to it.
func (u *UI) AppendMessage(m domain.Message) {
	if u.transcript.Append(m) {
		u.send(chatMsg{})
	}
}

// SetInputEnabled enables or disables typing and sending.
func (u *UI) SetInputEnabled(enabled bool) { u.send(inputEnabledMsg(enabled)) }

// ClearInput empties the input field.
func (u *UI) ClearInput() { u.send(clearInputMsg{}) }

// FocusInput gives the input the cursor if it is enabled.
func (u *UI) FocusInput() { u.send(focusInputMsg{}) }

// ── Bubble Tea model ─────────────────────────────────────────────

type (
	livenessMsg     domain.LivenessView
	emotionMsg      domain.EmotionView
	suggestionsMsg  []domain.SuggestionCard
	metricsMsg      domain.MetricsView
	chartMsg        []mood.Sample
	chatMsg         struct{}
	inputEnabledMsg bool
	clearInputMsg   struct{}
	focusInputMsg   struct{}

	// revealMsg shows the first n cards of suggestion generation gen.
	revealMsg struct {
		gen int
		n   int
	}
)

type model struct {
	keys       keyMap
	help       help.Model
	input      textinput.Model
	chat       viewport.Model
	spin       spinner.Model
	render     *chatRenderer
	transcript *transcript.Log
	inputCh    chan<- string
	readyCh    chan struct{}
	subtitle   string
	mdStyle    string

	width   int
	height  int
	enabled bool

	liveness domain.LivenessView
	emotion  domain.EmotionView
	cards    []domain.SuggestionCard
	shown    int
	cardGen  int
	metrics  domain.MetricsView
	chart    []mood.Sample
}

func newModel(history *transcript.Log, inputCh chan<- string, readyCh chan struct{}, subtitle, mdStyle string, width, height int) model {
	ti := textinput.New()
	// Plain-text prompt keeps the textinput width math correct; styled
	// prompts add ANSI bytes that break its offset calculations.
	ti.Prompt = promptText
	ti.PromptStyle = promptStyle
	ti.TextStyle = userStyle
	ti.Placeholder = placeholderDisabled
	ti.CharLimit = 0
	ti.Blur()

	neutral := emotion.PresetFor(emotion.Neutral)
	m := model{
		keys:       defaultKeys(),
		help:       help.New(),
		input:      ti,
		chat:       viewport.New(width, 3),
		spin:       newSpinner(neutral),
		transcript: history,
		inputCh:    inputCh,
		readyCh:    readyCh,
		subtitle:   subtitle,
		mdStyle:    mdStyle,
		liveness:   domain.LivenessView{Text: livenessInitial, Severity: domain.SeverityInfo},
		emotion:    domain.EmotionView{Label: emotion.Neutral, Preset: neutral},
	}
	m.resize(width, height)
	return m
}

func newSpinner(p emotion.Preset) spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinnerFor(p.Animation)),
		spinner.WithStyle(emotionStyle(p)),
	)
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spin.Tick,
		tea.SetWindowTitle("moodchat"),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit, m.keys.Send):
			m.submit()
			return m, nil
		case key.Matches(msg, m.keys.Up, m.keys.Down):
			var cmd tea.Cmd
			m.chat, cmd = m.chat.Update(msg)
			return m, cmd
		}
		if !m.enabled {
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case livenessMsg:
		m.liveness = domain.LivenessView(msg)
		return m, nil

	case emotionMsg:
		v := domain.EmotionView(msg)
		prev := m.emotion.Preset
		m.emotion = v
		if v.Preset != prev {
			// One animation at a time: the new spinner replaces the old
			// one and stale ticks carry the old spinner's ID.
			m.spin = newSpinner(v.Preset)
			return m, tea.Batch(m.spin.Tick, tea.SetWindowTitle("moodchat · "+string(v.Label)))
		}
		return m, nil

	case suggestionsMsg:
		m.cards = msg
		m.shown = 0
		m.cardGen++
		cmds := make([]tea.Cmd, 0, len(m.cards))
		for i, c := range m.cards {
			gen, n := m.cardGen, i+1
			cmds = append(cmds, tea.Tick(c.Delay, func(time.Time) tea.Msg {
				return revealMsg{gen: gen, n: n}
			}))
		}
		return m, tea.Batch(cmds...)

	case revealMsg:
		if msg.gen == m.cardGen && msg.n > m.shown {
			m.shown = msg.n
		}
		return m, nil

	case metricsMsg:
		m.metrics = domain.MetricsView(msg)
		return m, nil

	case chartMsg:
		m.chart = msg
		return m, nil

	case chatMsg:
		m.refreshChat()
		return m, nil

	case inputEnabledMsg:
		m.enabled = bool(msg)
		if m.enabled {
			m.input.Placeholder = placeholderEnabled
			return m, m.input.Focus()
		}
		m.input.Placeholder = placeholderDisabled
		m.input.Blur()
		return m, nil

	case clearInputMsg:
		m.input.Reset()
		return m, nil

	case focusInputMsg:
		if m.enabled {
			return m, m.input.Focus()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands the input line to the controller. The controller decides
// whether to accept it and clears the field through the Presenter.
func (m *model) submit() {
	if !m.enabled {
		return
	}
	v := m.input.Value()
	if strings.TrimSpace(v) == "" {
		return
	}
	m.inputCh <- v
}

// Fixed rows around the chat viewport: liveness bar, the panel row with
// its borders, suggestions, separator, input, and help.
const chromeRows = 1 + 4 + 1 + 1 + 1 + 1

func (m *model) headerRows() int {
	if m.height >= 30 {
		return bannerLines + 1
	}
	return 1
}

func (m *model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	widthChanged := width != m.width
	m.width, m.height = width, height
	m.help.Width = width
	m.input.Width = max(10, width-len(promptText)-1)

	m.chat.Width = width
	m.chat.Height = max(3, height-chromeRows-m.headerRows())

	if widthChanged || m.render == nil {
		m.render = newChatRenderer(width, m.mdStyle)
	}
	m.refreshChat()
}

func (m *model) refreshChat() {
	if m.render == nil || m.transcript == nil {
		return
	}
	m.chat.SetContent(m.render.Render(m.transcript.All()))
	m.chat.GotoBottom()
}

func (m model) View() string {
	sections := []string{
		m.headerView(),
		m.livenessView(),
		m.panelsView(),
		m.suggestionsView(),
		sepStyle.Render(strings.Repeat("─", m.width)),
		m.chat.View(),
		m.input.View(),
		m.help.View(m.keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) headerView() string {
	title := titleStyle.Render("moodchat")
	if m.subtitle != "" {
		title += labelStyle.Render("  " + m.subtitle)
	}
	if m.headerRows() > 1 {
		return RenderBanner(m.width) + "\n" + title
	}
	return title
}

func (m model) livenessView() string {
	text := clip(m.liveness.Text, m.width-2)
	return severityStyle(m.liveness.Severity).Width(m.width).Render(text)
}

func (m model) panelsView() string {
	w := max(12, m.width/3-2)
	inner := w - 2

	p := m.emotion.Preset
	emotionBody := []string{
		m.spin.View() + " " + p.Icon + " " + emotionStyle(p).Render(clip(m.emotion.Text(), inner-7)),
		labelStyle.Render("current mood"),
	}

	face := m.metrics.FaceDirection
	if face == "" {
		face = "-"
	}
	metricsBody := []string{
		labelStyle.Render("blinks ") + valueStyle.Render(clip(strconv.Itoa(m.metrics.Blinks), inner-7)),
		labelStyle.Render("face   ") + valueStyle.Render(clip(face, inner-7)),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Width(w).Render(strings.Join(emotionBody, "\n")),
		panelStyle.Width(w).Render(strings.Join(metricsBody, "\n")),
		panelStyle.Width(w).Render(strings.Join(clipAll(chartLines(m.chart, inner), inner), "\n")),
	)
}

func (m model) suggestionsView() string {
	if len(m.cards) == 0 {
		return labelStyle.Render("no suggestions yet")
	}
	parts := make([]string, 0, m.shown)
	for _, c := range m.cards[:m.shown] {
		parts = append(parts, cardStyle.Render(strings.TrimSpace(c.Icon+" "+c.Label)))
	}
	return clip(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
}

func clipAll(lines []string, width int) []string {
	for i, l := range lines {
		lines[i] = clip(l, width)
	}
	return lines
}

// clip truncates s to width display columns, ANSI aware.
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
