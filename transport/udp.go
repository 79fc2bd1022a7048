package transport

import (
	"fmt"
	"net"

	"igtlink/codec"
	"igtlink/ierr"
	"igtlink/message"
	"igtlink/wire"
)

// DefaultUDPMaxDatagram is the default receive buffer size: the maximum
// possible UDP/IPv4 payload (§4.9).
const DefaultUDPMaxDatagram = 65507

// UDPConn is a per-datagram transport: each outgoing datagram carries
// exactly one encoded message, and each incoming datagram is expected to
// carry exactly one. There is no fragmentation, retry, or ordering
// guarantee — that is the caller's problem if it matters.
type UDPConn struct {
	conn       *net.UDPConn
	maxDatagram int
}

// UDPOption configures a UDPConn at construction time.
type UDPOption func(*UDPConn)

// WithMaxDatagram overrides the receive buffer size (default
// DefaultUDPMaxDatagram).
func WithMaxDatagram(n int) UDPOption {
	return func(c *UDPConn) { c.maxDatagram = n }
}

// NewUDPConn wraps an already-bound *net.UDPConn.
func NewUDPConn(conn *net.UDPConn, opts ...UDPOption) *UDPConn {
	c := &UDPConn{conn: conn, maxDatagram: DefaultUDPMaxDatagram}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListenUDP binds a UDP socket for receiving and, optionally, sending.
func ListenUDP(network string, laddr *net.UDPAddr, opts ...UDPOption) (*UDPConn, error) {
	conn, err := net.ListenUDP(network, laddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrIo, err)
	}
	return NewUDPConn(conn, opts...), nil
}

// DialUDP connects a UDP socket to a fixed remote peer, enabling Send in
// addition to SendTo.
func DialUDP(network string, laddr, raddr *net.UDPAddr, opts ...UDPOption) (*UDPConn, error) {
	conn, err := net.DialUDP(network, laddr, raddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrIo, err)
	}
	return NewUDPConn(conn, opts...), nil
}

// Close closes the underlying socket.
func (c *UDPConn) Close() error { return c.conn.Close() }

// Send writes one encoded datagram to the connected peer (DialUDP only).
func (c *UDPConn) Send(content message.Content, deviceName string) error {
	buf, err := codec.New(content, deviceName).Encode()
	if err != nil {
		return err
	}
	_, err = c.conn.Write(buf)
	return wrapIoErr(err)
}

// SendTo writes one encoded datagram to addr.
func (c *UDPConn) SendTo(addr *net.UDPAddr, content message.Content, deviceName string) error {
	buf, err := codec.New(content, deviceName).Encode()
	if err != nil {
		return err
	}
	_, err = c.conn.WriteToUDP(buf, addr)
	return wrapIoErr(err)
}

// ReceiveAny reads one datagram and dynamically dispatches on its
// type_name. If the decoded header claims a body_size larger than the
// bytes actually received in this datagram, the message is dropped with
// ierr.ErrTruncated rather than blocking for more data — there is no more
// data coming for this datagram.
func (c *UDPConn) ReceiveAny(opts codec.DecodeOptions) (*codec.Message, *net.UDPAddr, error) {
	buf := make([]byte, c.maxDatagram)
	n, addr, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ierr.ErrIo, err)
	}
	datagram := buf[:n]
	if len(datagram) < wire.HeaderSize {
		return nil, addr, fmt.Errorf("%w: datagram shorter than header", ierr.ErrTruncated)
	}
	h, err := wire.DecodeHeader(datagram[:wire.HeaderSize])
	if err != nil {
		return nil, addr, err
	}
	available := uint64(len(datagram) - wire.HeaderSize)
	if h.BodySize > available {
		return nil, addr, fmt.Errorf("%w: body_size %d exceeds %d bytes received", ierr.ErrTruncated, h.BodySize, available)
	}
	m, err := codec.DecodeAny(datagram[:wire.HeaderSize+int(h.BodySize)], opts)
	if err != nil {
		return nil, addr, err
	}
	return m, addr, nil
}
