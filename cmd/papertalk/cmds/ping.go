package cmds

import (
	"context"
	"fmt"
	"io"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/papertalk/pkg/summary"
)

type PingCommand struct {
	*cmds.CommandDescription
}

var _ cmds.WriterCommand = &PingCommand{}

func NewPingCommand() (*PingCommand, error) {
	summarySection, err := summary.NewSection()
	if err != nil {
		return nil, err
	}
	return &PingCommand{
		CommandDescription: cmds.NewCommandDescription(
			"ping",
			cmds.WithShort("Check that the summarization service is up"),
			cmds.WithSections(summarySection),
		),
	}, nil
}

func (c *PingCommand) RunIntoWriter(ctx context.Context, parsedLayers *values.Values, w io.Writer) error {
	client, err := clientFromValues(parsedLayers)
	if err != nil {
		return err
	}
	if err := client.Health(ctx); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "ok %s\n", client.BaseURL())
	return err
}
