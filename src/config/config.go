package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mosaicnetworks/glomers/src/common"
	"github.com/mosaicnetworks/glomers/src/node"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultConfigName is the name, without extension, of the optional
	// configuration file in DataDir.
	DefaultConfigName = "glomers"

	// DefaultJournalFile is the default name of the folder containing the
	// Badger journal.
	DefaultJournalFile = "journal_db"
)

// Default configuration values.
const (
	DefaultLogLevel    = "info"
	DefaultWorkload    = "echo"
	DefaultListenAddr  = ""
	DefaultLogFile     = ""
	DefaultJournal     = false
	DefaultCacheSize   = 1000
	DefaultMaxIOFaults = node.DefaultMaxIOFaults
	DefaultReinit      = node.DefaultReinit
)

// Config contains all the configuration properties of a glomers process.
type Config struct {
	// DataDir is the top-level directory containing the configuration file
	// and the journal.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output. Logs always go to
	// stderr; stdout carries the protocol.
	LogLevel string `mapstructure:"log"`

	// LogFile, when set, receives a copy of every log entry.
	LogFile string `mapstructure:"log-file"`

	// Workload is the name of the payload family and handler to run.
	Workload string `mapstructure:"workload"`

	// ListenAddr, when set, makes the node accept a single TCP connection on
	// this address and use it instead of stdin and stdout.
	ListenAddr string `mapstructure:"listen"`

	// Journal activates the persistent journal of envelopes.
	Journal bool `mapstructure:"journal"`

	// JournalDir is the directory of the journal database.
	JournalDir string `mapstructure:"journal-dir"`

	// CacheSize is the number of recent records kept by the in-memory journal
	// used when Journal is off. Zero disables it.
	CacheSize int `mapstructure:"cache-size"`

	// MaxIOFaults is the number of consecutive I/O faults after which the node
	// gives up. Zero means never.
	MaxIOFaults int `mapstructure:"max-io-faults"`

	// Reinit is the policy for repeated init requests: overwrite or reject.
	Reinit string `mapstructure:"reinit"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:     DefaultDataDir(),
		LogLevel:    DefaultLogLevel,
		LogFile:     DefaultLogFile,
		Workload:    DefaultWorkload,
		ListenAddr:  DefaultListenAddr,
		Journal:     DefaultJournal,
		JournalDir:  DefaultJournalDir(),
		CacheSize:   DefaultCacheSize,
		MaxIOFaults: DefaultMaxIOFaults,
		Reinit:      DefaultReinit,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.DataDir = t.TempDir()
	config.JournalDir = filepath.Join(config.DataDir, DefaultJournalFile)
	config.logger = common.NewTestLogger(t, level)
	return config
}

// SetDataDir sets the top-level directory, and updates the journal directory
// if it is currently set to the default value. If the journal directory is not
// the default, the user has set it explicitly, so leave it alone.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.JournalDir == DefaultJournalDir() {
		c.JournalDir = filepath.Join(dataDir, DefaultJournalFile)
	}
}

// Logger returns a formatted logrus Entry, with prefix set to "glomers". The
// underlying logger writes to stderr and, if LogFile is set, to LogFile.
func (c *Config) Logger() *logrus.Entry {
	return c.baseLogger().WithField("prefix", "glomers")
}

func (c *Config) baseLogger() *logrus.Logger {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Out = os.Stderr
		c.logger.Level = common.LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)

		if c.LogFile != "" {
			c.logger.Hooks.Add(newFileHook(c.LogFile))
		}
	}
	return c.logger
}

// newFileHook returns a hook copying entries of every level to path.
func newFileHook(path string) *lfshook.LfsHook {
	pathMap := lfshook.PathMap{}
	for _, level := range logrus.AllLevels {
		pathMap[level] = path
	}

	return lfshook.NewHook(
		pathMap,
		&logrus.TextFormatter{DisableColors: true},
	)
}

// NodeConfig returns the settings of the run loop.
func (c *Config) NodeConfig() *node.Config {
	return node.NewConfig(c.MaxIOFaults, c.Reinit, c.baseLogger())
}

// DefaultJournalDir returns the default path of the journal database.
func DefaultJournalDir() string {
	return filepath.Join(DefaultDataDir(), DefaultJournalFile)
}

// DefaultDataDir return the default directory name for top-level glomers
// config based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Glomers")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Glomers")
		} else {
			return filepath.Join(home, ".glomers")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
