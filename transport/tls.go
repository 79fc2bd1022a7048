package transport

import (
	"crypto/tls"
	"fmt"
	"net"

	"igtlink/ierr"
)

// TLSConn wraps an AsyncConn's contract around a *tls.Conn record layer
// (§4.8). Once constructed, it exposes exactly the same frame-I/O surface
// as AsyncConn — callers never see the TLS handshake again after dialing or
// accepting.
type TLSConn struct {
	*AsyncConn
}

// TLSServerConfig configures the server side of a TLS listener: a
// certificate chain and private key, both PEM-encoded, per §4.8.
type TLSServerConfig struct {
	CertFile string
	KeyFile  string

	// MinVersion overrides the minimum negotiated TLS version. Zero means
	// the crypto/tls default.
	MinVersion uint16
}

// ListenTLS starts a TCP listener bound to addr with cfg's certificate,
// wrapping each accepted connection in the TLS record layer and performing
// the handshake before returning it from Accept.
func ListenTLS(network, addr string, cfg TLSServerConfig) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: loading key pair: %v", ierr.ErrTls, err)
	}
	tlsCfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   cfg.MinVersion,
	}
	ln, err := tls.Listen(network, addr, tlsCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrTls, err)
	}
	return ln, nil
}

// AcceptTLS accepts one connection off ln, forces the TLS handshake to
// complete (tls.Conn defers it to first I/O otherwise, which would hide
// handshake failures from the caller that expects them at accept time),
// and returns a ready-to-use TLSConn.
func AcceptTLS(ln net.Listener) (*TLSConn, error) {
	conn, err := ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrIo, err)
	}
	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return nil, fmt.Errorf("%w: listener did not produce a TLS connection", ierr.ErrInvalidConfig)
	}
	if err := tlsConn.Handshake(); err != nil {
		tlsConn.Close()
		return nil, fmt.Errorf("%w: handshake: %v", ierr.ErrTls, err)
	}
	return &TLSConn{AsyncConn: NewAsyncConn(tlsConn)}, nil
}

// DialTLS dials addr and performs a TLS client handshake using cfg, which
// carries the certificate verifier, SNI name, and ALPN protocol list.
// Certificate validation is delegated entirely to cfg per §4.8 — this
// function never second-guesses the supplied *tls.Config.
func DialTLS(network, addr string, cfg *tls.Config) (*TLSConn, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: TLS requested without a client configuration", ierr.ErrInvalidConfig)
	}
	conn, err := tls.Dial(network, addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrTls, err)
	}
	return &TLSConn{AsyncConn: NewAsyncConn(conn)}, nil
}
