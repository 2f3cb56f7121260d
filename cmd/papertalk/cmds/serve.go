package cmds

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/papertalk/pkg/summary"
	"github.com/go-go-golems/papertalk/pkg/web"
	"github.com/pkg/errors"
)

type ServeCommand struct {
	*cmds.CommandDescription
}

var _ cmds.BareCommand = &ServeCommand{}

type ServeSettings struct {
	Addr string `glazed:"addr"`
}

func NewServeCommand() (*ServeCommand, error) {
	summarySection, err := summary.NewSection()
	if err != nil {
		return nil, err
	}
	return &ServeCommand{
		CommandDescription: cmds.NewCommandDescription(
			"serve",
			cmds.WithShort("Serve the single page chat UI"),
			cmds.WithLong("Serve the chat page and its websocket. Each browser tab gets its own session; reloading the page starts over."),
			cmds.WithFlags(
				fields.New(
					"addr",
					fields.TypeString,
					fields.WithHelp("HTTP listen address"),
					fields.WithDefault(":8080"),
				),
			),
			cmds.WithSections(summarySection),
		),
	}, nil
}

func (c *ServeCommand) Run(ctx context.Context, parsedLayers *values.Values) error {
	s := &ServeSettings{}
	if err := parsedLayers.DecodeSectionInto(values.DefaultSlug, s); err != nil {
		return errors.Wrap(err, "failed to initialize settings")
	}
	client, err := clientFromValues(parsedLayers)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return web.NewServer(client).Run(ctx, s.Addr)
}
