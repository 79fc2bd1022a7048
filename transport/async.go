package transport

import (
	"net"
	"sync"

	"igtlink/codec"
	"igtlink/message"
)

// AsyncConn is the cooperative-scheduling counterpart to SyncConn (§4.7).
// Go's goroutines already provide cooperative scheduling — a goroutine
// blocked in Read/Write yields the OS thread the way a suspended async
// task would — so AsyncConn's operations have the same
// blocking signatures as SyncConn's; what differs is that an AsyncConn can
// be split into independently usable reader/writer halves: a separate
// reader goroutine and a mutex-guarded writer, exposed to the caller
// instead of hidden behind a multiplexer.
type AsyncConn struct {
	conn net.Conn
	wmu  sync.Mutex
}

// NewAsyncConn wraps an already-connected net.Conn.
func NewAsyncConn(conn net.Conn) *AsyncConn {
	return &AsyncConn{conn: conn}
}

// Conn returns the underlying net.Conn.
func (c *AsyncConn) Conn() net.Conn { return c.conn }

// Close closes the underlying connection.
func (c *AsyncConn) Close() error { return c.conn.Close() }

// Send encodes and writes content, serialized against concurrent Send calls
// on this same handle via an internal mutex — per §4.7, a shared handle is
// not safe across concurrent callers unless serialized, so this provides
// that serialization for the common case of one handle used from several
// goroutines that only ever call Send.
func (c *AsyncConn) Send(content message.Content, deviceName string) error {
	m := codec.New(content, deviceName)
	buf, err := m.Encode()
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err = c.conn.Write(buf)
	return wrapIoErr(err)
}

// Receive reads and strictly decodes one frame as wantType.
func (c *AsyncConn) Receive(wantType string, fn message.DecodeFunc, opts codec.DecodeOptions) (*codec.Message, error) {
	h, body, err := readFrame(c.conn)
	if err != nil {
		return nil, err
	}
	return decodeFrame(h, body, wantType, fn, opts)
}

// ReceiveAny reads and dynamically dispatches one frame.
func (c *AsyncConn) ReceiveAny(opts codec.DecodeOptions) (*codec.Message, error) {
	h, body, err := readFrame(c.conn)
	if err != nil {
		return nil, err
	}
	return decodeAnyFrame(h, body, opts)
}

// AsyncReader is the read-only half produced by Split. It owns no lock: a
// single reader half is meant to be driven by one task at a time, the sole
// reader of its connection.
type AsyncReader struct {
	conn net.Conn
}

// Receive reads and strictly decodes one frame as wantType.
func (r *AsyncReader) Receive(wantType string, fn message.DecodeFunc, opts codec.DecodeOptions) (*codec.Message, error) {
	h, body, err := readFrame(r.conn)
	if err != nil {
		return nil, err
	}
	return decodeFrame(h, body, wantType, fn, opts)
}

// ReceiveAny reads and dynamically dispatches one frame.
func (r *AsyncReader) ReceiveAny(opts codec.DecodeOptions) (*codec.Message, error) {
	h, body, err := readFrame(r.conn)
	if err != nil {
		return nil, err
	}
	return decodeAnyFrame(h, body, opts)
}

// AsyncWriter is the write-only half produced by Split, serialized against
// concurrent Send calls via an internal mutex so goroutines sharing one
// socket never interleave partial frame writes.
type AsyncWriter struct {
	conn net.Conn
	mu   sync.Mutex
}

// Send encodes and writes content.
func (w *AsyncWriter) Send(content message.Content, deviceName string) error {
	m := codec.New(content, deviceName)
	buf, err := m.Encode()
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.conn.Write(buf)
	return wrapIoErr(err)
}

// SendMessage writes an already-built *codec.Message, re-encoding it first.
func (w *AsyncWriter) SendMessage(m *codec.Message) error {
	buf, err := m.Encode()
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.conn.Write(buf)
	return wrapIoErr(err)
}

// Split divides the connection into independent reader and writer halves
// (§4.9 design note), exploiting the standard library's guarantee that a
// net.Conn's Read and Write may be called concurrently from different
// goroutines. Each half can then be handed to a different task without
// external serialization between the two directions.
func (c *AsyncConn) Split() (*AsyncReader, *AsyncWriter) {
	return &AsyncReader{conn: c.conn}, &AsyncWriter{conn: c.conn}
}
