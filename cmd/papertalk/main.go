package main

import (
	clay "github.com/go-go-golems/clay/pkg"
	"github.com/go-go-golems/glazed/pkg/cli"
	glazed_cmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/logging"
	"github.com/go-go-golems/glazed/pkg/help"
	help_cmd "github.com/go-go-golems/glazed/pkg/help/cmd"
	"github.com/go-go-golems/papertalk/cmd/papertalk/cmds"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "papertalk",
	Short: "papertalk asks a summarization service about research topics",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitLoggerFromCobra(cmd)
	},
}

func main() {
	if err := clay.InitGlazed("papertalk", rootCmd); err != nil {
		cobra.CheckErr(err)
	}

	helpSystem := help.NewHelpSystem()
	help_cmd.SetupCobraRootCommand(helpSystem, rootCmd)

	chatCmd, err := cmds.NewChatCommand()
	cobra.CheckErr(err)
	askCmd, err := cmds.NewAskCommand()
	cobra.CheckErr(err)
	serveCmd, err := cmds.NewServeCommand()
	cobra.CheckErr(err)
	pingCmd, err := cmds.NewPingCommand()
	cobra.CheckErr(err)

	for _, c := range []glazed_cmds.Command{chatCmd, askCmd, serveCmd, pingCmd} {
		command, err := cli.BuildCobraCommand(c)
		cobra.CheckErr(err)
		rootCmd.AddCommand(command)
	}

	cobra.CheckErr(rootCmd.Execute())
}
