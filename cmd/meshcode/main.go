package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mohammed-shakir/meshcode/internal/logger"
)

type app struct {
	logLevel string
	log      zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "meshcode",
		Short:         "Encode and decode Japanese regional mesh codes",
		Long:          "Converts WGS84 coordinates to JIS X 0410 mesh codes (levels 1-6) and back, and walks the cell hierarchy.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.log = logger.Build(logger.Config{
				Level:     a.logLevel,
				Component: "cli",
			}, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		a.encodeCmd(),
		a.decodeCmd(),
		a.parentCmd(),
		a.childrenCmd(),
		a.cellsCmd(),
	)
	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "meshcode: %v\n", err)
		os.Exit(1)
	}
}
