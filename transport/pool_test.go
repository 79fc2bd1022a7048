package transport

import (
	"net"
	"testing"
	"time"
)

func startEchoListener(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 4096)
				for {
					n, err := c.Read(buf)
					if err != nil {
						return
					}
					if _, err := c.Write(buf[:n]); err != nil {
						return
					}
				}
			}(conn)
		}
	}()
	return ln
}

func TestConnPoolGetPutReusesConnection(t *testing.T) {
	ln := startEchoListener(t)
	defer ln.Close()

	pool := NewTCPConnPool(ln.Addr().String(), 2)
	defer pool.Close()

	conn1, err := pool.Get()
	if err != nil {
		t.Fatal(err)
	}
	pool.Put(conn1)

	conn2, err := pool.Get()
	if err != nil {
		t.Fatal(err)
	}
	if conn2 != conn1 {
		t.Fatal("expect the returned connection to be reused rather than a fresh dial")
	}
	pool.Put(conn2)
}

func TestConnPoolGrowsUpToMax(t *testing.T) {
	ln := startEchoListener(t)
	defer ln.Close()

	pool := NewTCPConnPool(ln.Addr().String(), 2)
	defer pool.Close()

	a, err := pool.Get()
	if err != nil {
		t.Fatal(err)
	}
	b, err := pool.Get()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("expect two distinct connections under the pool max")
	}
	pool.Put(a)
	pool.Put(b)
}

func TestConnPoolDiscardsUnusableConnections(t *testing.T) {
	ln := startEchoListener(t)
	defer ln.Close()

	pool := NewTCPConnPool(ln.Addr().String(), 2)
	defer pool.Close()

	conn, err := pool.Get()
	if err != nil {
		t.Fatal(err)
	}
	conn.MarkUnusable()
	pool.Put(conn)

	fresh, err := pool.Get()
	if err != nil {
		t.Fatal(err)
	}
	if fresh == conn {
		t.Fatal("expect a connection marked unusable to never be handed out again")
	}
	pool.Put(fresh)
}

func TestConnPoolGetBlocksAtCapacityUntilPut(t *testing.T) {
	ln := startEchoListener(t)
	defer ln.Close()

	pool := NewTCPConnPool(ln.Addr().String(), 1)
	defer pool.Close()

	conn, err := pool.Get()
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan *PoolConn, 1)
	go func() {
		c, err := pool.Get()
		if err != nil {
			t.Error(err)
			return
		}
		done <- c
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("expect Get to block while the pool is exhausted")
	default:
	}

	pool.Put(conn)
	second := <-done
	pool.Put(second)
}
