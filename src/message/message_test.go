package message

// Payload family shared by the tests of this package.

type testMessage interface {
	Payload
	isTestMessage()
}

type testInit struct{ Init }

type testInitOk struct{ InitOk }

type testEmpty struct{}

func (testEmpty) Type() string { return "test" }

type testPair struct {
	A int `json:"a"`
	B int `json:"b"`
}

func (testPair) Type() string { return "test2" }

type testEcho struct {
	Echo string `json:"echo"`
}

func (testEcho) Type() string { return "echo" }

type testOptional struct {
	Note  string   `json:"note,omitempty"`
	Peers []string `json:"peers,omitempty"`
}

func (testOptional) Type() string { return "optional" }

func (*testInit) isTestMessage()     {}
func (*testInitOk) isTestMessage()   {}
func (*testEmpty) isTestMessage()    {}
func (*testPair) isTestMessage()     {}
func (*testEcho) isTestMessage()     {}
func (*testOptional) isTestMessage() {}

func newTestCatalog() *Catalog[testMessage] {
	return NewCatalog[testMessage]().MustRegister(
		func() testMessage { return &testInit{} },
		func() testMessage { return &testInitOk{} },
		func() testMessage { return &testEmpty{} },
		func() testMessage { return &testPair{} },
		func() testMessage { return &testEcho{} },
		func() testMessage { return &testOptional{} },
	)
}
