package commands

import (
	"github.com/mosaicnetworks/glomers/src/config"
	"github.com/spf13/cobra"
)

var (
	_config = config.NewDefaultConfig()
)

// RootCmd is the root command for glomers
var RootCmd = &cobra.Command{
	Use:   "glomers",
	Short: "glomers node runtime",
	Long: `glomers runs a node of a line-delimited JSON request/reply protocol.

The node reads one envelope per line on stdin and writes its replies on stdout.
Logs go to stderr.`,
	TraverseChildren: true,
}
