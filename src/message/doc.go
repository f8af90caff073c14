// Package message defines the envelope exchanged between a node and the
// harness that drives it.
//
// An Envelope carries a source, a destination and a body. The body is a
// Payload drawn from a closed family of variants, one Go type per variant, and
// two optional correlation identifiers: msg_id, set by the sender, and
// in_reply_to, set on replies. On the wire the payload's own fields are merged
// flat into the body next to its "type" discriminant:
//
//	{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":1,"echo":"hi"}}
//
// A Catalog lists the variants of a family so that a Codec can turn a body
// back into the right Go type.
package message
