package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/papertalk/pkg/conversation"
	"github.com/rs/zerolog/log"
)

// NewMarkdownRenderer returns nil for an empty style or when glamour cannot be
// set up; callers fall back to plain text.
func NewMarkdownRenderer(style string, width int) *glamour.TermRenderer {
	if style == "" {
		return nil
	}
	options := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(options...)
	if err != nil {
		log.Warn().Err(err).Str("style", style).Msg("could not create markdown renderer")
		return nil
	}
	return r
}

// RenderTranscript renders messages top to bottom. Bot answers go through the
// markdown renderer when one is given.
func RenderTranscript(transcript []conversation.Message, md *glamour.TermRenderer, width int) string {
	var sb strings.Builder
	wrap := lipgloss.NewStyle()
	if width > 0 {
		wrap = wrap.Width(width)
	}
	for i, m := range transcript {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch m.Role {
		case conversation.RoleUser:
			sb.WriteString(userLabelStyle.Render("You"))
			sb.WriteString("\n")
			sb.WriteString(wrap.Render(m.Text))
			sb.WriteString("\n")
		case conversation.RoleBot:
			sb.WriteString(botLabelStyle.Render("Assistant"))
			sb.WriteString("\n")
			sb.WriteString(renderBotText(m.Text, md, wrap))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func renderBotText(text string, md *glamour.TermRenderer, wrap lipgloss.Style) string {
	if text == conversation.ErrorText {
		return errorStyle.Render(text)
	}
	if md != nil {
		out, err := md.Render(text)
		if err == nil {
			return strings.Trim(out, "\n")
		}
		log.Debug().Err(err).Msg("markdown render failed, using plain text")
	}
	return wrap.Render(text)
}

func renderSubmitButton(enabled bool) string {
	if enabled {
		return submitEnabledStyle.Render("↑")
	}
	return submitDisabledStyle.Render("↑")
}
