package degiro

import "stockplot/internal/transport"

// TransportFunc produces a transport. The factory invokes it once per created
// client, so tests can hand every client a fresh verifying transport.
type TransportFunc func() transport.Transport

// Factory constructs unopened clients. The transport indirection is the only
// seam test code needs; client code never changes between the real transport
// and a test double.
type Factory struct {
	newTransport TransportFunc
}

// NewFactory creates a Factory around a transport-producing function.
func NewFactory(newTransport TransportFunc) *Factory {
	return &Factory{newTransport: newTransport}
}

// Create returns an unopened client for the given credentials, bound to a
// newly produced transport.
func (f *Factory) Create(username, password string) *Client {
	return NewClient(username, password, f.newTransport())
}
