package message

// Discriminants of the handshake variants every payload family must register.
const (
	TypeInit   = "init"
	TypeInitOk = "init_ok"
)

// Payload is the body of an envelope minus the correlation identifiers. Type
// returns the discriminant carried in the "type" field on the wire.
type Payload interface {
	Type() string
}

// InitRequester is implemented by the variant of a payload family that carries
// the init handshake. The node checks every incoming payload for it.
type InitRequester interface {
	InitRequest() Init
}

// Init is the handshake request sent by the harness before anything else. It
// assigns the receiving node its identifier and the full roster of nodes,
// including itself. Payload families embed it in their own init variant.
type Init struct {
	NodeID  string   `json:"node_id"`
	NodeIDs []string `json:"node_ids"`
}

// Type implements Payload.
func (Init) Type() string { return TypeInit }

// InitRequest implements InitRequester.
func (i Init) InitRequest() Init { return i }

// InitOk acknowledges an Init. It has no fields of its own.
type InitOk struct{}

// Type implements Payload.
func (InitOk) Type() string { return TypeInitOk }
