package main

import (
	"os"

	"github.com/spf13/cobra"
)

const tokenIssuer = "catwatch"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "catwatch",
		Short:         "Stray cat sighting service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCommand(), newTokenCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
