// Package cli wires the dbal command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func version() string {
	return "v0.1.0"
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version())
		},
	}
}

// NewRootCmd builds the top–level `dbal` command.
func NewRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:   "dbal",
		Short: "dbal — thin database abstraction layer",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyLogLevel(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info)")
	root.AddCommand(NewDemoCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

func applyLogLevel(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
