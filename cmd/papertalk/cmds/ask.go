package cmds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/papertalk/pkg/conversation"
	"github.com/go-go-golems/papertalk/pkg/summary"
	"github.com/go-go-golems/papertalk/pkg/ui"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type AskCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = &AskCommand{}

type AskSettings struct {
	Topic         []string `glazed:"topic"`
	Output        string   `glazed:"output"`
	MarkdownStyle string   `glazed:"markdown-style"`
}

// AskOutput is the structured result of a single exchange.
type AskOutput struct {
	Topic      string                 `json:"topic" yaml:"topic"`
	Transcript []conversation.Message `json:"transcript" yaml:"transcript"`
	Papers     []summary.Paper        `json:"papers,omitempty" yaml:"papers,omitempty"`
	Error      string                 `json:"error,omitempty" yaml:"error,omitempty"`
}

func NewAskCommand() (*AskCommand, error) {
	summarySection, err := summary.NewSection()
	if err != nil {
		return nil, err
	}
	return &AskCommand{
		CommandDescription: cmds.NewCommandDescription(
			"ask",
			cmds.WithShort("Ask for a single research topic and print the exchange"),
			cmds.WithFlags(
				fields.New(
					"output",
					fields.TypeChoice,
					fields.WithHelp("Output format"),
					fields.WithChoices("text", "json", "yaml"),
					fields.WithDefault("text"),
				),
				fields.New(
					"markdown-style",
					fields.TypeChoice,
					fields.WithHelp("Glamour style for the answer when writing to a terminal"),
					fields.WithChoices(markdownStyles...),
					fields.WithDefault("dark"),
				),
			),
			cmds.WithArguments(
				fields.New(
					"topic",
					fields.TypeStringList,
					fields.WithHelp("Research topic"),
					fields.WithRequired(true),
				),
			),
			cmds.WithSections(summarySection),
		),
	}, nil
}

func (c *AskCommand) RunIntoWriter(ctx context.Context, parsedLayers *values.Values, w io.Writer) error {
	s := &AskSettings{}
	if err := parsedLayers.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return errors.Wrap(err, "failed to initialize settings")
	}
	client, err := clientFromValues(parsedLayers)
	if err != nil {
		return err
	}

	out, err := ask(ctx, client, strings.Join(s.Topic, " "))
	if err != nil {
		return err
	}
	tty := w == io.Writer(os.Stdout) && isatty.IsTerminal(os.Stdout.Fd())
	return writeAskOutput(w, out, s.Output, tty, markdownStyle(s.MarkdownStyle))
}

// ask runs one exchange on a fresh controller.
func ask(ctx context.Context, s conversation.Summarizer, topic string) (AskOutput, error) {
	controller := conversation.NewController(s)
	controller.UpdateDraft(topic)
	r, ok := controller.Exchange(ctx)
	if !ok {
		return AskOutput{}, errors.New("topic is empty")
	}

	out := AskOutput{
		Topic:      topic,
		Transcript: controller.State().Transcript,
	}
	if r.Result != nil {
		out.Papers = r.Result.Papers
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out, nil
}

func writeAskOutput(w io.Writer, out AskOutput, format string, tty bool, style string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "failed to encode json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return errors.Wrap(err, "failed to encode yaml")
		}
		return errors.Wrap(enc.Close(), "failed to encode yaml")
	}

	if tty {
		md := ui.NewMarkdownRenderer(style, 0)
		_, err := fmt.Fprintln(w, ui.RenderTranscript(out.Transcript, md, 0))
		return err
	}
	return writePlainTranscript(w, out.Transcript)
}

func writePlainTranscript(w io.Writer, transcript []conversation.Message) error {
	for _, m := range transcript {
		if _, err := fmt.Fprintf(w, "%s: %s\n", m.Role, m.Text); err != nil {
			return err
		}
	}
	return nil
}
