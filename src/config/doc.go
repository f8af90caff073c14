// Package config defines the configuration of a glomers process.
//
// The Config object carries the options of the command line: the workload to
// run, where the protocol streams come from, how to log and whether to keep a
// journal. Options can also be set in a file called glomers.toml (or .json,
// .yaml) in the data directory:
//
//	log = "debug"
//	workload = "unique-ids"
//	journal = true
//	max-io-faults = 32
//
// Logs go to stderr, never to stdout, because stdout carries the protocol.
package config
