package transport

import (
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"igtlink/codec"
	"igtlink/discovery"
	"igtlink/ierr"
	"igtlink/loadbalance"
	"igtlink/message"
)

// ReconnectState names the three states of the reconnecting client's state
// machine (§4.10).
type ReconnectState int

const (
	StateConnected ReconnectState = iota
	StateReconnecting
	StateFailed
)

func (s ReconnectState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ReconnectConfig parameterizes the backoff schedule and retry budget.
//
// Addr is the static fallback address. If Directory and Balancer are both
// set, every dial attempt (including the initial one) instead resolves
// DeviceName through Directory.Discover and Balancer.Pick, restricted to
// endpoints advertising Capability — so a reconnect can land on a different
// redundant endpoint for the same device than the one that just failed,
// instead of retrying the same dead address forever.
type ReconnectConfig struct {
	Network      string
	Addr         string
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter enables uniform perturbation in [0.5d, 1.5d] of each computed
	// delay. Disabled by default for deterministic tests.
	Jitter bool

	Directory  discovery.Directory
	Balancer   loadbalance.Balancer
	DeviceName string
	Capability string
}

// resolveAddr returns the address to dial: the directory/balancer pick when
// both are configured, otherwise the static Addr.
func (c ReconnectConfig) resolveAddr() (string, error) {
	if c.Directory == nil || c.Balancer == nil {
		return c.Addr, nil
	}
	endpoints, err := c.Directory.Discover(c.DeviceName)
	if err != nil {
		return "", fmt.Errorf("reconnect: discover %q: %w", c.DeviceName, err)
	}
	ep, err := c.Balancer.Pick(endpoints, c.Capability)
	if err != nil {
		return "", fmt.Errorf("reconnect: pick endpoint for %q: %w", c.DeviceName, err)
	}
	return ep.Addr, nil
}

func (c ReconnectConfig) delay(attempt int) time.Duration {
	d := float64(c.InitialDelay) * pow(c.Multiplier, float64(attempt-1))
	if max := float64(c.MaxDelay); c.MaxDelay > 0 && d > max {
		d = max
	}
	if c.Jitter {
		d = d * (0.5 + rand.Float64())
	}
	return time.Duration(d)
}

func pow(base, exp float64) float64 {
	if exp <= 0 {
		return 1
	}
	result := 1.0
	for i := 0; i < int(exp); i++ {
		result *= base
	}
	return result
}

// ReconnectingClient wraps an AsyncConn with automatic reconnection on
// send/receive failure, per the state machine in §4.10. It never replays
// in-flight operations — the call that observed the failure returns an
// error (or, on successful reconnect, the caller simply re-issues).
type ReconnectingClient struct {
	cfg ReconnectConfig

	mu             sync.Mutex
	state          ReconnectState
	attempt        int
	reconnectCount int
	conn           *AsyncConn
}

// NewReconnectingClient dials once, synchronously (cfg.Addr, or the
// directory/balancer pick when both are configured), and returns a client
// in StateConnected. If the first dial fails, the returned client starts in
// StateReconnecting(1) rather than failing outright; no further dial is
// made from that state, and Send and Receive return
// ierr.ErrConnectionClosed.
func NewReconnectingClient(cfg ReconnectConfig) *ReconnectingClient {
	c := &ReconnectingClient{cfg: cfg}
	if conn, err := dial(cfg); err == nil {
		c.conn = conn
		c.state = StateConnected
	} else {
		c.state = StateReconnecting
		c.attempt = 1
	}
	return c
}

func dial(cfg ReconnectConfig) (*AsyncConn, error) {
	addr, err := cfg.resolveAddr()
	if err != nil {
		return nil, err
	}
	conn, err := net.Dial(cfg.Network, addr)
	if err != nil {
		return nil, err
	}
	return NewAsyncConn(conn), nil
}

// State returns the current state.
func (c *ReconnectingClient) State() ReconnectState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ReconnectCount returns the number of successful reconnects so far.
func (c *ReconnectingClient) ReconnectCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconnectCount
}

// reconnect runs the Reconnecting(n) -> ... -> Connected|Failed loop
// synchronously, blocking the caller. It is invoked after a send/receive
// failure observed on the current connection.
func (c *ReconnectingClient) reconnect() error {
	c.mu.Lock()
	c.state = StateReconnecting
	if c.attempt == 0 {
		c.attempt = 1
	}
	c.mu.Unlock()

	for {
		c.mu.Lock()
		attempt := c.attempt
		c.mu.Unlock()

		conn, err := dial(c.cfg)
		if err == nil {
			c.mu.Lock()
			c.conn = conn
			c.state = StateConnected
			c.attempt = 0
			c.reconnectCount++
			c.mu.Unlock()
			return nil
		}

		if attempt >= c.cfg.MaxAttempts {
			c.mu.Lock()
			c.state = StateFailed
			c.mu.Unlock()
			return &ierr.ReconnectExhaustedError{Attempts: attempt}
		}

		time.Sleep(c.cfg.delay(attempt))

		c.mu.Lock()
		c.attempt++
		c.mu.Unlock()
	}
}

// Send encodes and writes content, triggering the reconnect state machine
// on failure. On a successful reconnect this call still returns the
// original error — the caller re-issues Send itself, per §4.10's
// no-replay rule.
func (c *ReconnectingClient) Send(content message.Content, deviceName string) error {
	c.mu.Lock()
	state := c.state
	conn := c.conn
	c.mu.Unlock()

	if state != StateConnected {
		return fmt.Errorf("%w: client is %s", ierr.ErrConnectionClosed, state)
	}

	err := conn.Send(content, deviceName)
	if err != nil {
		if rerr := c.reconnect(); rerr != nil {
			return rerr
		}
		return err
	}
	return nil
}

// Receive reads and strictly decodes one frame, triggering the reconnect
// state machine on failure.
func (c *ReconnectingClient) Receive(wantType string, fn message.DecodeFunc, opts codec.DecodeOptions) (*codec.Message, error) {
	c.mu.Lock()
	state := c.state
	conn := c.conn
	c.mu.Unlock()

	if state != StateConnected {
		return nil, fmt.Errorf("%w: client is %s", ierr.ErrConnectionClosed, state)
	}

	m, err := conn.Receive(wantType, fn, opts)
	if err != nil {
		if rerr := c.reconnect(); rerr != nil {
			return nil, rerr
		}
		return nil, err
	}
	return m, nil
}

// Close closes the current underlying connection, if any.
func (c *ReconnectingClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
