// Package transport implements the connection layer: blocking and
// cooperative-async TCP, TLS, UDP, a reconnecting client wrapper, and a
// borrow/return connection pool.
//
// A multiplexed-request-over-one-socket model doesn't fit OpenIGTLink's
// peer-to-peer streaming traffic, so the shape here is a family of plain
// frame-I/O objects instead of one sequence-numbered dispatcher.
package transport

import (
	"fmt"
	"io"
	"net"

	"igtlink/codec"
	"igtlink/ierr"
	"igtlink/message"
	"igtlink/wire"
)

// SyncConn is a blocking, bidirectional frame I/O object over an established
// TCP stream (§4.6). A SyncConn is not safe for concurrent use by multiple
// goroutines without external serialization — see AsyncConn's split API for
// that.
type SyncConn struct {
	conn net.Conn
}

// NewSyncConn wraps an already-connected net.Conn.
func NewSyncConn(conn net.Conn) *SyncConn {
	return &SyncConn{conn: conn}
}

// DialSync opens a TCP connection to addr and wraps it.
func DialSync(network, addr string) (*SyncConn, error) {
	conn, err := net.Dial(network, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrIo, err)
	}
	return NewSyncConn(conn), nil
}

// Conn returns the underlying net.Conn.
func (c *SyncConn) Conn() net.Conn { return c.conn }

// Close closes the underlying connection.
func (c *SyncConn) Close() error { return c.conn.Close() }

// Send encodes content addressed to deviceName and writes the whole frame,
// using full-write semantics (io.Writer.Write on a net.Conn already retries
// short writes internally and returns a non-nil error for any short write,
// so only the returned error is checked).
func (c *SyncConn) Send(content message.Content, deviceName string) error {
	return c.SendMessage(codec.New(content, deviceName))
}

// SendMessage writes an already-built *codec.Message, re-encoding it first.
func (c *SyncConn) SendMessage(m *codec.Message) error {
	buf, err := m.Encode()
	if err != nil {
		return err
	}
	if _, err := c.conn.Write(buf); err != nil {
		return fmt.Errorf("%w: %v", ierr.ErrIo, err)
	}
	return nil
}

// Receive reads one frame and decodes it strictly as wantType using fn,
// failing if the header's type_name disagrees (§4.6).
func (c *SyncConn) Receive(wantType string, fn message.DecodeFunc, opts codec.DecodeOptions) (*codec.Message, error) {
	h, body, err := readFrame(c.conn)
	if err != nil {
		return nil, err
	}
	return decodeFrame(h, body, wantType, fn, opts)
}

// ReceiveAny reads one frame and dispatches on its type_name, dynamic-
// dispatch style: unknown types yield message.Unknown rather than an error.
func (c *SyncConn) ReceiveAny(opts codec.DecodeOptions) (*codec.Message, error) {
	h, body, err := readFrame(c.conn)
	if err != nil {
		return nil, err
	}
	return decodeAnyFrame(h, body, opts)
}

// readFrame reads exactly one header and its declared body off r.
func readFrame(r io.Reader) (wire.Header, []byte, error) {
	h, err := wire.ReadHeader(r)
	if err != nil {
		return wire.Header{}, nil, err
	}
	body, err := wire.ReadBody(r, h.BodySize)
	if err != nil {
		return wire.Header{}, nil, err
	}
	return h, body, nil
}

// frameBytes reassembles a header+body pair into the byte slice codec's
// frame-level Decode functions expect, by re-encoding the header; the codec
// then parses that header a second time.
func frameBytes(h wire.Header, body []byte) ([]byte, error) {
	hb, err := wire.EncodeHeader(h)
	if err != nil {
		return nil, err
	}
	return append(hb, body...), nil
}

func decodeFrame(h wire.Header, body []byte, wantType string, fn message.DecodeFunc, opts codec.DecodeOptions) (*codec.Message, error) {
	raw, err := frameBytes(h, body)
	if err != nil {
		return nil, err
	}
	return codec.DecodeTyped(raw, wantType, fn, opts)
}

func decodeAnyFrame(h wire.Header, body []byte, opts codec.DecodeOptions) (*codec.Message, error) {
	raw, err := frameBytes(h, body)
	if err != nil {
		return nil, err
	}
	return codec.DecodeAny(raw, opts)
}
