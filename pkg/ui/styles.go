package ui

import "github.com/charmbracelet/lipgloss"

const (
	heroTitle        = "Which scientific topic are you interested in?"
	inputPlaceholder = "Ask anything"
	pendingLabel     = "Searching recent papers… "
)

var (
	heroTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).MarginBottom(1)
	inputBoxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	submitEnabledStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("255")).Padding(0, 1)
	submitDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("238")).Padding(0, 1)
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	botLabelStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("118"))
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	statusStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
