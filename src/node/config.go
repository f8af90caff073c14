package node

import (
	"testing"

	"github.com/mosaicnetworks/glomers/src/common"
	"github.com/sirupsen/logrus"
)

// Policies applied when an init request reaches a node that already completed
// the handshake.
const (
	// ReinitOverwrite replaces the identity with the new one and replies with
	// init_ok again.
	ReinitOverwrite = "overwrite"

	// ReinitReject keeps the current identity, sends nothing and fails the
	// step with ErrAlreadyInitialized.
	ReinitReject = "reject"
)

// Default configuration values.
const (
	DefaultMaxIOFaults = 16
	DefaultReinit      = ReinitOverwrite
)

// Config contains the settings of the run loop.
type Config struct {
	// MaxIOFaults is the number of consecutive I/O faults after which Run
	// gives up and returns ErrTooManyFaults. Zero means never.
	MaxIOFaults int `mapstructure:"max-io-faults"`

	// Reinit is the policy for repeated init requests, ReinitOverwrite or
	// ReinitReject.
	Reinit string `mapstructure:"reinit"`

	Logger *logrus.Logger
}

// NewConfig ...
func NewConfig(maxIOFaults int, reinit string, logger *logrus.Logger) *Config {
	return &Config{
		MaxIOFaults: maxIOFaults,
		Reinit:      reinit,
		Logger:      logger,
	}
}

// DefaultConfig returns a Config with default values and a debug logger.
func DefaultConfig() *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	return &Config{
		MaxIOFaults: DefaultMaxIOFaults,
		Reinit:      DefaultReinit,
		Logger:      logger,
	}
}

// TestConfig returns a DefaultConfig logging through t.
func TestConfig(t testing.TB) *Config {
	config := DefaultConfig()
	config.Logger = common.NewTestLogger(t, common.TestLogLevel)
	return config
}
