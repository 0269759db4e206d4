// Package loopback provides an in-memory bus transport for tests and
// dry runs. It records every frame handed to it and can echo a canned
// response so callback paths are exercised without hardware.
package loopback

import (
	"context"
	"sync"

	"github.com/bft-labs/canfuzz/internal/ports"
)

// Frame is one recorded transmission.
type Frame struct {
	ID   uint32
	Data []byte
}

// Transport implements ports.Transport in memory.
type Transport struct {
	mu     sync.Mutex
	sent   []Frame
	echo   *ports.Response
	opens  int
	closes int
	closed bool
}

// New creates an empty loopback transport.
func New() *Transport {
	return &Transport{}
}

// NewWithEcho creates a transport that replies to every callback send
// with the given response.
func NewWithEcho(r ports.Response) *Transport {
	return &Transport{echo: &r}
}

// Open binds a session to the given arbitration id.
func (t *Transport) Open(ctx context.Context, id uint32) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.opens++
	t.mu.Unlock()
	return &session{t: t, id: id}, nil
}

// Close marks the transport released.
func (t *Transport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return nil
}

// Sent returns a copy of every frame recorded so far.
func (t *Transport) Sent() []Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Frame, len(t.sent))
	copy(out, t.sent)
	return out
}

// Opens returns the number of sessions opened.
func (t *Transport) Opens() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opens
}

// Closes returns the number of sessions closed.
func (t *Transport) Closes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closes
}

// Closed reports whether the transport itself was released.
func (t *Transport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Transport) record(id uint32, data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)
	t.mu.Lock()
	t.sent = append(t.sent, Frame{ID: id, Data: buf})
	t.mu.Unlock()
}

type session struct {
	t  *Transport
	id uint32
}

func (s *session) Send(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.t.record(s.id, data)
	return nil
}

func (s *session) SendWithCallback(ctx context.Context, data []byte, fn ports.ResponseFunc) error {
	if err := s.Send(ctx, data); err != nil {
		return err
	}
	if s.t.echo != nil && fn != nil {
		fn(*s.t.echo)
	}
	return nil
}

func (s *session) Close() error {
	s.t.mu.Lock()
	s.t.closes++
	s.t.mu.Unlock()
	return nil
}
