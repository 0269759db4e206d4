package ports

import "context"

// Response is a frame observed on the bus in reply to a dispatched
// directive.
type Response struct {
	// ID is the responder's arbitration id.
	ID uint32

	// Data is the raw frame payload.
	Data []byte
}

// ResponseFunc is invoked for each response captured during a send's
// response window. Implementations call it from the transport's reader
// goroutine; callbacks must not block.
type ResponseFunc func(Response)

// Transport provides access to the bus. One transport is opened per run;
// each dispatched directive gets its own short-lived session bound to
// the directive's arbitration id.
type Transport interface {
	// Open binds a session to the given arbitration id.
	Open(ctx context.Context, id uint32) (Session, error)

	// Close releases the underlying bus connection.
	Close() error
}

// Session transmits frames under a single arbitration id.
type Session interface {
	// Send transmits one frame carrying data.
	Send(ctx context.Context, data []byte) error

	// SendWithCallback transmits one frame and invokes fn for every
	// response observed during the transport's configured response
	// window. It returns after the window elapses.
	SendWithCallback(ctx context.Context, data []byte, fn ResponseFunc) error

	// Close ends the session.
	Close() error
}
