package ui

import (
	"context"

	"github.com/atotto/clipboard"
	bspinner "github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/papertalk/pkg/conversation"
	"github.com/rs/zerolog/log"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// input box (3) + status line + help line
	chromeHeight = 5
)

// Model is the terminal view of one conversation. It owns the controller and
// is the only place the controller gets mutated from.
type Model struct {
	ctx        context.Context
	controller *conversation.Controller

	input    textinput.Model
	spinner  bspinner.Model
	viewport viewport.Model

	markdownStyle string
	markdown      *glamour.TermRenderer
	copyText      func(string) error

	status string
	width  int
	height int
}

type ModelOption func(*Model)

// WithMarkdownStyle selects the glamour style for answers. An empty style
// renders answers as plain text.
func WithMarkdownStyle(style string) ModelOption {
	return func(m *Model) {
		m.markdownStyle = style
	}
}

// WithClipboard replaces the clipboard writer used by ctrl+y.
func WithClipboard(f func(string) error) ModelOption {
	return func(m *Model) {
		m.copyText = f
	}
}

func NewModel(ctx context.Context, controller *conversation.Controller, options ...ModelOption) Model {
	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Prompt = ""
	ti.Focus()

	sp := bspinner.New()
	sp.Spinner = bspinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

	m := Model{
		ctx:           ctx,
		controller:    controller,
		input:         ti,
		spinner:       sp,
		viewport:      viewport.New(defaultWidth, defaultHeight-chromeHeight),
		markdownStyle: "dark",
		copyText:      clipboard.WriteAll,
	}
	for _, o := range options {
		o(&m)
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// State exposes the controller snapshot.
func (m Model) State() conversation.State {
	return m.controller.State()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch ev := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(ev.Width, ev.Height)
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch ev.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "ctrl+y":
			m.copyLastAnswer()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.controller.UpdateDraft(m.input.Value())
		return m, cmd

	case conversation.Resolution:
		if m.controller.Settle(ev) {
			m.status = ""
			m.refreshTranscript()
		}
		return m, nil

	case bspinner.TickMsg:
		if !m.controller.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	req, ok := m.controller.Submit()
	if !ok {
		return m, nil
	}
	m.input.SetValue("")
	m.status = ""
	m.refreshTranscript()
	return m, tea.Batch(dispatchCmd(m.ctx, m.controller, req), m.spinner.Tick)
}

// dispatchCmd runs the request off the update loop; the Resolution comes back
// as a message.
func dispatchCmd(ctx context.Context, c *conversation.Controller, req *conversation.Request) tea.Cmd {
	return func() tea.Msg {
		return c.Dispatch(ctx, req)
	}
}

func (m *Model) copyLastAnswer() {
	last, ok := m.controller.State().LastBotMessage()
	if !ok {
		m.status = "nothing to copy yet"
		return
	}
	if err := m.copyText(last.Text); err != nil {
		log.Warn().Err(err).Msg("could not copy answer to clipboard")
		m.status = "copy failed"
		return
	}
	m.status = "answer copied to clipboard"
}

func (m *Model) resize(width, height int) {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	m.width = width
	m.height = height
	// border and padding of the input box plus the submit button
	m.input.Width = max(10, width-10)
	m.viewport.Width = width
	m.viewport.Height = max(1, height-chromeHeight)
	m.markdown = NewMarkdownRenderer(m.markdownStyle, max(20, width-4))
}

func (m *Model) refreshTranscript() {
	st := m.controller.State()
	m.viewport.SetContent(RenderTranscript(st.Transcript, m.markdown, m.width))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	st := m.controller.State()
	box := inputBoxStyle.Width(max(20, m.width-2)).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), " ", renderSubmitButton(st.CanSubmit())),
	)

	if st.Layout() == conversation.LayoutHero {
		hero := lipgloss.JoinVertical(lipgloss.Center, heroTitleStyle.Render(heroTitle), box)
		if m.status != "" {
			hero = lipgloss.JoinVertical(lipgloss.Center, hero, statusStyle.Render(m.status))
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, hero)
	}

	status := m.status
	if st.Pending {
		status = pendingLabel + m.spinner.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		statusStyle.Render(status),
		box,
		helpStyle.Render("enter send • ctrl+y copy answer • pgup/pgdown scroll • esc quit"),
	)
}
