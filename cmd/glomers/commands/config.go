package commands

import (
	"github.com/mosaicnetworks/glomers/src/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func loadConfig(cmd *cobra.Command, args []string) error {
	configFile, err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --journal-dir, this will update
	// the default journal dir to be inside the new datadir
	_config.SetDataDir(_config.DataDir)

	logger := _config.Logger()

	if configFile != "" {
		logger.Debugf("Using config file: %s", configFile)
	} else {
		logger.Debugf("No config file found in: %s", _config.DataDir)
	}

	logFields := logrus.Fields{
		"DataDir":     _config.DataDir,
		"LogLevel":    _config.LogLevel,
		"LogFile":     _config.LogFile,
		"Workload":    _config.Workload,
		"ListenAddr":  _config.ListenAddr,
		"Journal":     _config.Journal,
		"CacheSize":   _config.CacheSize,
		"MaxIOFaults": _config.MaxIOFaults,
		"Reinit":      _config.Reinit,
	}

	if _config.Journal {
		logFields["JournalDir"] = _config.JournalDir
	}

	logger.WithFields(logFields).Debug(cmd.Name())

	return nil
}

// Bind all flags and read the config into viper. Returns the path of the
// config file, if one was found.
func bindFlagsLoadViper(cmd *cobra.Command) (string, error) {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return "", err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return "", err
	}

	// look for config file in [datadir]/glomers.toml (.json, .yaml also work)
	viper.SetConfigName(config.DefaultConfigName) // name of config file (without extension)
	viper.AddConfigPath(_config.DataDir)          // search root directory

	// If a config file is found, read it in.
	configFile := ""
	if err := viper.ReadInConfig(); err == nil {
		configFile = viper.ConfigFileUsed()
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		return "", err
	}

	// second unmarshal to read from config file
	return configFile, viper.Unmarshal(_config)
}
