// Package journal records the envelopes crossing the boundary of a node.
//
// A Journal is an append-only log of Records numbered from 1. InmemJournal
// keeps a bounded window of recent records in memory; BadgerJournal persists
// every record in a badger database and resumes numbering when reopened.
//
// Source and Sink wrap a transport.Source and a transport.Sink and append a
// record for every envelope successfully read or written. A failing journal
// never fails the node: errors are logged and the envelope goes through.
package journal
