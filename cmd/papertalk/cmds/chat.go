package cmds

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/papertalk/pkg/conversation"
	"github.com/go-go-golems/papertalk/pkg/summary"
	"github.com/go-go-golems/papertalk/pkg/ui"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type ChatCommand struct {
	*cmds.CommandDescription
}

var _ cmds.BareCommand = &ChatCommand{}

type ChatSettings struct {
	MarkdownStyle string `glazed:"markdown-style"`
	AltScreen     bool   `glazed:"alt-screen"`
}

func NewChatCommand() (*ChatCommand, error) {
	summarySection, err := summary.NewSection()
	if err != nil {
		return nil, err
	}
	return &ChatCommand{
		CommandDescription: cmds.NewCommandDescription(
			"chat",
			cmds.WithShort("Ask for research topics in an interactive terminal chat"),
			cmds.WithLong("Start a chat session. Every submitted topic sends one query to the summarization service and its answer is appended to the transcript. Use --log-file to keep logs out of the terminal."),
			cmds.WithFlags(
				fields.New(
					"markdown-style",
					fields.TypeChoice,
					fields.WithHelp("Glamour style for answers (none renders plain text)"),
					fields.WithChoices(markdownStyles...),
					fields.WithDefault("dark"),
				),
				fields.New(
					"alt-screen",
					fields.TypeBool,
					fields.WithHelp("Run in the alternate screen buffer"),
					fields.WithDefault(true),
				),
			),
			cmds.WithSections(summarySection),
		),
	}, nil
}

func (c *ChatCommand) Run(ctx context.Context, parsedLayers *values.Values) error {
	s := &ChatSettings{}
	if err := parsedLayers.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return errors.Wrap(err, "failed to initialize settings")
	}
	client, err := clientFromValues(parsedLayers)
	if err != nil {
		return err
	}

	controller := conversation.NewController(client)
	model := ui.NewModel(ctx, controller, ui.WithMarkdownStyle(markdownStyle(s.MarkdownStyle)))

	options := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithMouseCellMotion(),
	}
	if s.AltScreen {
		options = append(options, tea.WithAltScreen())
	}

	log.Debug().Str("summary_url", client.BaseURL()).Msg("starting chat")
	if _, err := tea.NewProgram(model, options...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "chat program failed")
	}
	return nil
}

var markdownStyles = []string{"dark", "light", "notty", "ascii", "none"}

func markdownStyle(s string) string {
	if s == "none" {
		return ""
	}
	return s
}
