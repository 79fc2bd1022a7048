package transport

import (
	"errors"
	"net"
	"testing"
	"time"

	"igtlink/discovery"
	"igtlink/ierr"
	"igtlink/loadbalance"
	"igtlink/message"
)

func TestReconnectingClientStartsConnected(t *testing.T) {
	ln := startEchoListener(t)
	defer ln.Close()

	c := NewReconnectingClient(ReconnectConfig{Network: "tcp", Addr: ln.Addr().String(), MaxAttempts: 3, InitialDelay: time.Millisecond})
	defer c.Close()

	if c.State() != StateConnected {
		t.Fatalf("expect StateConnected, got %v", c.State())
	}
}

func TestReconnectingClientFailsImmediateDial(t *testing.T) {
	// Bind and immediately close a listener to get an address nothing is
	// listening on.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := NewReconnectingClient(ReconnectConfig{Network: "tcp", Addr: addr, MaxAttempts: 1, InitialDelay: time.Millisecond})
	defer c.Close()

	if c.State() != StateReconnecting {
		t.Fatalf("expect StateReconnecting after a failed initial dial, got %v", c.State())
	}
}

func TestReconnectingClientSendFailsWhenNotConnected(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := NewReconnectingClient(ReconnectConfig{Network: "tcp", Addr: addr, MaxAttempts: 1, InitialDelay: time.Millisecond})
	defer c.Close()

	err = c.Send(message.Ok("running"), "Tracker1")
	if !errors.Is(err, ierr.ErrConnectionClosed) {
		t.Fatalf("expect ErrConnectionClosed, got %v", err)
	}
}

func TestReconnectingClientReconnectsAfterConnectionBreaks(t *testing.T) {
	ln := startEchoListener(t)
	addr := ln.Addr().String()

	c := NewReconnectingClient(ReconnectConfig{Network: "tcp", Addr: addr, MaxAttempts: 10, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond})
	defer c.Close()

	// Force the current connection to break.
	c.mu.Lock()
	c.conn.Close()
	c.mu.Unlock()

	// First Send observes the broken pipe, triggers reconnect, and itself
	// still returns the original I/O error per the no-replay rule.
	_ = c.Send(message.Ok("running"), "Tracker1")

	if c.State() != StateConnected {
		t.Fatalf("expect StateConnected after successful reconnect, got %v", c.State())
	}
	if c.ReconnectCount() != 1 {
		t.Fatalf("expect ReconnectCount()==1, got %d", c.ReconnectCount())
	}

	// The re-issued Send should now succeed against the restored connection.
	if err := c.Send(message.Ok("running"), "Tracker1"); err != nil {
		t.Fatalf("expect re-issued Send to succeed, got %v", err)
	}
	ln.Close()
}

func TestReconnectingClientConsultsDirectoryAndBalancer(t *testing.T) {
	ln := startEchoListener(t)
	defer ln.Close()

	dir := discovery.NewMockDirectory()
	ep := discovery.DeviceEndpoint{Addr: ln.Addr().String(), DeviceName: "Tracker1", Capabilities: []string{"TDATA"}, Weight: 1}
	if err := dir.Register("Tracker1", ep, 10); err != nil {
		t.Fatal(err)
	}

	// Addr is deliberately a dead address — if the directory/balancer path
	// is not consulted, dial falls back to Addr and the initial connect
	// fails.
	deadLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	deadAddr := deadLn.Addr().String()
	deadLn.Close()

	c := NewReconnectingClient(ReconnectConfig{
		Network:      "tcp",
		Addr:         deadAddr,
		MaxAttempts:  1,
		InitialDelay: time.Millisecond,
		Directory:    dir,
		Balancer:     &loadbalance.RoundRobinBalancer{},
		DeviceName:   "Tracker1",
		Capability:   "TDATA",
	})
	defer c.Close()

	if c.State() != StateConnected {
		t.Fatalf("expect StateConnected via directory-resolved address, got %v", c.State())
	}
}

func TestReconnectConfigDelayRespectsMaxAndMultiplier(t *testing.T) {
	cfg := ReconnectConfig{InitialDelay: 10 * time.Millisecond, MaxDelay: 30 * time.Millisecond, Multiplier: 2}
	if got := cfg.delay(1); got != 10*time.Millisecond {
		t.Fatalf("expect attempt 1 delay 10ms, got %v", got)
	}
	if got := cfg.delay(2); got != 20*time.Millisecond {
		t.Fatalf("expect attempt 2 delay 20ms, got %v", got)
	}
	if got := cfg.delay(3); got != 30*time.Millisecond {
		t.Fatalf("expect attempt 3 delay capped at 30ms, got %v", got)
	}
}
