package message

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Codec converts envelopes to and from their wire form. Encoded envelopes
// never contain a newline.
type Codec[P Payload] interface {
	Encode(env Envelope[P]) ([]byte, error)
	Decode(data []byte) (Envelope[P], error)
}

// Names of the body fields owned by the envelope. Payload fields must not use
// them.
var reservedFields = []string{"type", "msg_id", "in_reply_to"}

type wireEnvelope struct {
	Src  *string         `json:"src"`
	Dest *string         `json:"dest"`
	Body json.RawMessage `json:"body"`
}

type wireHeader struct {
	Type      *string `json:"type"`
	MsgID     *uint64 `json:"msg_id,omitempty"`
	InReplyTo *uint64 `json:"in_reply_to,omitempty"`
}

// JSONCodec implements Codec for the line-delimited JSON protocol.
type JSONCodec[P Payload] struct {
	catalog *Catalog[P]
}

// NewJSONCodec returns a JSONCodec decoding bodies with the variants of
// catalog.
func NewJSONCodec[P Payload](catalog *Catalog[P]) *JSONCodec[P] {
	return &JSONCodec[P]{catalog: catalog}
}

// Encode implements Codec. The body starts with type, msg_id and in_reply_to,
// followed by the payload's fields in declaration order. Absent identifiers are
// left out.
func (c *JSONCodec[P]) Encode(env Envelope[P]) ([]byte, error) {
	p := env.Payload()
	if any(p) == nil {
		return nil, fmt.Errorf("envelope %s->%s has no payload", env.Src(), env.Dest())
	}

	fields, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding %q payload: %w", p.Type(), err)
	}
	fields = bytes.TrimSpace(fields)
	if len(fields) < 2 || fields[0] != '{' {
		return nil, fmt.Errorf("payload %T does not encode to a JSON object", p)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(fields, &keys); err != nil {
		return nil, fmt.Errorf("encoding %q payload: %w", p.Type(), err)
	}
	for _, r := range reservedFields {
		if _, ok := keys[r]; ok {
			return nil, fmt.Errorf("payload %T uses reserved field %q", p, r)
		}
	}

	typ := p.Type()
	header, err := json.Marshal(wireHeader{
		Type:      &typ,
		MsgID:     env.msgID,
		InReplyTo: env.inReplyTo,
	})
	if err != nil {
		return nil, err
	}

	body := make([]byte, 0, len(header)+len(fields))
	body = append(body, header[:len(header)-1]...)
	if inner := bytes.TrimSpace(fields[1 : len(fields)-1]); len(inner) > 0 {
		body = append(body, ',')
		body = append(body, inner...)
	}
	body = append(body, '}')

	src, dest := env.src, env.dest
	return json.Marshal(wireEnvelope{
		Src:  &src,
		Dest: &dest,
		Body: body,
	})
}

// Decode implements Codec. It fails with a *MalformedError.
func (c *JSONCodec[P]) Decode(data []byte) (Envelope[P], error) {
	var (
		env  Envelope[P]
		wire wireEnvelope
	)

	if err := json.Unmarshal(data, &wire); err != nil {
		return env, newMalformed(InvalidJSON, "", err)
	}
	if wire.Src == nil {
		return env, newMalformed(MissingField, "src", nil)
	}
	if wire.Dest == nil {
		return env, newMalformed(MissingField, "dest", nil)
	}
	if len(wire.Body) == 0 || bytes.Equal(wire.Body, []byte("null")) {
		return env, newMalformed(MissingField, "body", nil)
	}

	var header wireHeader
	if err := json.Unmarshal(wire.Body, &header); err != nil {
		return env, newMalformed(InvalidJSON, "body", err)
	}
	if header.Type == nil {
		return env, newMalformed(MissingField, "body.type", nil)
	}

	payload, ok := c.catalog.New(*header.Type)
	if !ok {
		return env, newMalformed(UnknownType, *header.Type, nil)
	}
	if err := json.Unmarshal(wire.Body, payload); err != nil {
		return env, newMalformed(InvalidPayload, *header.Type, err)
	}

	return Envelope[P]{
		src:       *wire.Src,
		dest:      *wire.Dest,
		msgID:     header.MsgID,
		inReplyTo: header.InReplyTo,
		payload:   payload,
	}, nil
}
