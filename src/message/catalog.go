package message

import (
	"fmt"
	"reflect"
	"sort"
)

// Catalog is the closed set of variants of a payload family P, indexed by
// discriminant. It is populated once, before the node starts, and only read
// afterwards.
type Catalog[P Payload] struct {
	factories map[string]func() P
}

// NewCatalog returns an empty catalog.
func NewCatalog[P Payload]() *Catalog[P] {
	return &Catalog[P]{
		factories: make(map[string]func() P),
	}
}

// Register adds a variant. The factory must return a fresh value that
// encoding/json can decode into, that is a pointer to a struct. The
// discriminant is taken from the value the factory returns.
func (c *Catalog[P]) Register(factory func() P) error {
	if factory == nil {
		return fmt.Errorf("nil factory")
	}
	p := factory()
	if any(p) == nil {
		return fmt.Errorf("factory returned nil payload")
	}
	if reflect.ValueOf(p).Kind() != reflect.Ptr {
		return fmt.Errorf("payload %T must be a pointer", p)
	}
	typ := p.Type()
	if typ == "" {
		return fmt.Errorf("payload %T has an empty type", p)
	}
	if _, ok := c.factories[typ]; ok {
		return fmt.Errorf("payload type %q already registered", typ)
	}
	c.factories[typ] = factory
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// package-level catalog construction.
func (c *Catalog[P]) MustRegister(factories ...func() P) *Catalog[P] {
	for _, f := range factories {
		if err := c.Register(f); err != nil {
			panic(err)
		}
	}
	return c
}

// New returns a fresh value of the variant registered under typ.
func (c *Catalog[P]) New(typ string) (P, bool) {
	f, ok := c.factories[typ]
	if !ok {
		var zero P
		return zero, false
	}
	return f(), true
}

// NewInitOk returns the family's acknowledgement of the init handshake.
func (c *Catalog[P]) NewInitOk() (P, error) {
	p, ok := c.New(TypeInitOk)
	if !ok {
		return p, fmt.Errorf("payload family has no %q variant", TypeInitOk)
	}
	return p, nil
}

// Types returns the registered discriminants in lexical order.
func (c *Catalog[P]) Types() []string {
	types := make([]string, 0, len(c.factories))
	for t := range c.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Validate checks that the family can take part in the handshake: it must have
// an init variant implementing InitRequester and an init_ok variant.
func (c *Catalog[P]) Validate() error {
	p, ok := c.New(TypeInit)
	if !ok {
		return fmt.Errorf("payload family has no %q variant", TypeInit)
	}
	if _, ok := any(p).(InitRequester); !ok {
		return fmt.Errorf("%q variant %T does not implement InitRequester", TypeInit, p)
	}
	if _, err := c.NewInitOk(); err != nil {
		return err
	}
	return nil
}
