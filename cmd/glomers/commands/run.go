package commands

import (
	"github.com/mosaicnetworks/glomers/src/glomers"
	"github.com/spf13/cobra"
)

// NewRunCmd returns the command that starts a node
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run node",
		PreRunE: loadConfig,
		RunE:    runGlomers,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runGlomers(cmd *cobra.Command, args []string) error {
	engine, err := glomers.New(_config)
	if err != nil {
		return err
	}

	if err := engine.Init(); err != nil {
		_config.Logger().Error("Cannot initialize engine: ", err)
		return err
	}
	defer engine.Close()

	if err := engine.Run(); err != nil {
		_config.Logger().Error("Node stopped: ", err)
		return err
	}

	return nil
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

// AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", _config.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-file", _config.LogFile, "Also write logs to this file")

	// Workload
	cmd.Flags().StringP("workload", "w", _config.Workload, "Workload to run (echo, unique-ids)")

	// Transport
	cmd.Flags().StringP("listen", "l", _config.ListenAddr, "Accept one TCP connection on IP:Port instead of using stdin/stdout")

	// Journal
	cmd.Flags().Bool("journal", _config.Journal, "Record envelopes in a badger journal")
	cmd.Flags().String("journal-dir", _config.JournalDir, "Journal directory")
	cmd.Flags().Int("cache-size", _config.CacheSize, "Number of envelopes kept in memory when the journal is off")

	// Node configuration
	cmd.Flags().Int("max-io-faults", _config.MaxIOFaults, "Consecutive I/O faults before giving up (0 = never)")
	cmd.Flags().String("reinit", _config.Reinit, "Policy for repeated init requests (overwrite, reject)")
}
