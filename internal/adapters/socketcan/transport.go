// Package socketcan provides the SocketCAN bus transport used for real
// hardware runs, built on go.einride.tech/can.
package socketcan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"

	"github.com/bft-labs/canfuzz/internal/ports"
)

// Transport implements ports.Transport over a SocketCAN interface.
// One connection is dialed per run; sessions share it sequentially,
// which matches the dispatch loop's one-directive-at-a-time contract.
type Transport struct {
	conn   net.Conn
	tx     *socketcan.Transmitter
	window time.Duration
}

// New dials the named CAN interface (e.g. "can0", "vcan0"). window is
// how long each callback send listens for responses after transmitting.
func New(ctx context.Context, iface string, window time.Duration) (*Transport, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", iface, err)
	}
	return &Transport{
		conn:   conn,
		tx:     socketcan.NewTransmitter(conn),
		window: window,
	}, nil
}

// Open binds a session to the given arbitration id.
func (t *Transport) Open(ctx context.Context, id uint32) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{t: t, id: id}, nil
}

// Close releases the bus connection.
func (t *Transport) Close() error {
	return t.conn.Close()
}

func (t *Transport) transmit(ctx context.Context, id uint32, data []byte) error {
	var f can.Frame
	f.ID = id
	f.Length = uint8(len(data))
	copy(f.Data[:], data)
	if err := t.tx.TransmitFrame(ctx, f); err != nil {
		return fmt.Errorf("transmit frame: %w", err)
	}
	return nil
}

// observe reads responses until the window elapses. A fresh receiver is
// used per call: frames left buffered when the window closes are meant
// to stay unobserved.
func (t *Transport) observe(fn ports.ResponseFunc) error {
	deadline := time.Now().Add(t.window)
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("set response window: %w", err)
	}

	rx := socketcan.NewReceiver(t.conn)
	for time.Now().Before(deadline) && rx.Receive() {
		if rx.HasErrorFrame() {
			continue
		}
		f := rx.Frame()
		data := make([]byte, f.Length)
		copy(data, f.Data[:f.Length])
		fn(ports.Response{ID: f.ID, Data: data})
	}
	if err := rx.Err(); err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("observe responses: %w", err)
	}
	return nil
}

type session struct {
	t  *Transport
	id uint32
}

func (s *session) Send(ctx context.Context, data []byte) error {
	return s.t.transmit(ctx, s.id, data)
}

func (s *session) SendWithCallback(ctx context.Context, data []byte, fn ports.ResponseFunc) error {
	if err := s.t.transmit(ctx, s.id, data); err != nil {
		return err
	}
	return s.t.observe(fn)
}

func (s *session) Close() error { return nil }
