package main

import (
	"errors"
	"os"

	cmd "github.com/mosaicnetworks/glomers/cmd/glomers/commands"
	"github.com/mosaicnetworks/glomers/src/node"
)

func main() {
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.VersionCmd,
		cmd.NewRunCmd(),
		cmd.NewJournalCmd())

	//Do not print usage when error occurs
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, node.ErrMissingInitMsgID) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
