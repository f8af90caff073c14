// Package node implements the run loop of a node of a line-oriented message
// protocol.
//
// A Node reads envelopes from a transport.Source, one at a time, and routes each
// of them according to its payload. Payloads implementing
// message.InitRequester are the init handshake: the node records the identifier
// and the peer roster they carry, moves from Unassigned to Assigned, and
// answers with the family's init_ok variant. Every other payload is handed to
// the application Handler, which may answer through Send and Reply.
//
// Outbound message identifiers are allocated by the node from a counter that
// starts at 1 and is never reset, so the first init_ok always carries msg_id 1.
//
// Run returns nil when the source signals transport.ErrClosed or
// transport.ErrQuit. Malformed input, handler errors and write failures are
// logged and skipped. Only a run of MaxIOFaults consecutive I/O faults makes
// Run give up with ErrTooManyFaults.
//
// An init request without msg_id cannot be acknowledged: it is a contract
// violation and the node panics with ErrMissingInitMsgID. Callers that need to
// shut down cleanly recover it with IsContractViolation.
package node
