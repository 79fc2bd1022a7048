// Package client implements the device-facing query client: device
// discovery → endpoint selection → pooled connection → request/response.
//
// Call flow:
//
//	Query(deviceName, GET_STATUS)
//	  → Directory.Discover(deviceName)            → endpoint list from etcd/mock
//	  → Balancer.Pick(endpoints, replyTypeName)    → select one capable endpoint
//	  → poolFor(addr)                              → shared per-address ConnPool
//	  → SyncConn.Send / Receive                    → GET_* / STATUS round trip
//
// OpenIGTLink's query family answers with a single typed reply instead of a
// JSON-unmarshaled RPC payload, so the shape here is Query/Start/Stop
// methods over codec.Message instead of a generic Call(serviceMethod, ...).
package client

import (
	"fmt"
	"sync"
	"time"

	"igtlink/codec"
	"igtlink/discovery"
	"igtlink/ierr"
	"igtlink/loadbalance"
	"igtlink/message"
	"igtlink/transport"
)

// Client resolves a device name to a live endpoint and exchanges query
// messages with it, discovering, balancing, and pooling connections the
// same way for every call.
type Client struct {
	directory discovery.Directory
	balancer  loadbalance.Balancer
	opts      codec.DecodeOptions

	mu       sync.Mutex
	pools    map[string]*transport.ConnPool // address -> pool
	poolSize int
}

// New creates a Client backed by dir for discovery and bal for endpoint
// selection. poolSize is the number of pooled connections maintained per
// resolved address.
func New(dir discovery.Directory, bal loadbalance.Balancer, poolSize int, opts codec.DecodeOptions) *Client {
	return &Client{
		directory: dir,
		balancer:  bal,
		opts:      opts,
		pools:     make(map[string]*transport.ConnPool),
		poolSize:  poolSize,
	}
}

// resolve discovers endpoints for deviceName and picks one via the
// balancer, restricted to endpoints capable of requiredCapability (a wire
// type_name, or "" for no restriction).
func (c *Client) resolve(deviceName, requiredCapability string) (discovery.DeviceEndpoint, error) {
	endpoints, err := c.directory.Discover(deviceName)
	if err != nil {
		return discovery.DeviceEndpoint{}, fmt.Errorf("client: discover %q: %w", deviceName, err)
	}
	ep, err := c.balancer.Pick(endpoints, requiredCapability)
	if err != nil {
		return discovery.DeviceEndpoint{}, fmt.Errorf("client: pick endpoint for %q: %w", deviceName, err)
	}
	return *ep, nil
}

// poolFor returns the shared connection pool for addr, creating it on
// first access.
func (c *Client) poolFor(addr string) *transport.ConnPool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pools[addr]; ok {
		return p
	}
	p := transport.NewTCPConnPool(addr, c.poolSize)
	c.pools[addr] = p
	return p
}

// Query resolves deviceName, sends an empty-body GET_* request of the
// given query type name, and waits for the single typed reply fn decodes.
// The borrowed connection is returned to the pool on success and discarded
// on any I/O error.
func (c *Client) Query(deviceName, queryTypeName, replyTypeName string, fn message.DecodeFunc) (*codec.Message, error) {
	ep, err := c.resolve(deviceName, replyTypeName)
	if err != nil {
		return nil, err
	}
	pool := c.poolFor(ep.Addr)

	conn, err := pool.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ierr.ErrIo, err)
	}
	sc := conn.Sync()

	if err := sc.Send(message.NewQuery(queryTypeName), deviceName); err != nil {
		conn.MarkUnusable()
		pool.Put(conn)
		return nil, err
	}

	reply, err := sc.Receive(replyTypeName, fn, c.opts)
	if err != nil {
		conn.MarkUnusable()
		pool.Put(conn)
		return nil, err
	}

	pool.Put(conn)
	return reply, nil
}

// Start resolves deviceName and sends an STT_* streaming-start request,
// returning once the request has been written; stream frames arrive
// asynchronously and are not consumed here.
func (c *Client) Start(deviceName string, content message.Content) error {
	ep, err := c.resolve(deviceName, content.TypeName())
	if err != nil {
		return err
	}
	pool := c.poolFor(ep.Addr)

	conn, err := pool.Get()
	if err != nil {
		return fmt.Errorf("%w: %v", ierr.ErrIo, err)
	}
	sc := conn.Sync()

	if err := sc.Send(content, deviceName); err != nil {
		conn.MarkUnusable()
		pool.Put(conn)
		return err
	}
	pool.Put(conn)
	return nil
}

// Stop resolves deviceName and sends a zero-length STP_* request for the
// given stop type name.
func (c *Client) Stop(deviceName, stopTypeName string) error {
	return c.Start(deviceName, message.NewStopStream(stopTypeName))
}

// Register advertises an endpoint in the directory, using ttl as the
// lease duration the directory implementation enforces.
func (c *Client) Register(deviceName string, endpoint discovery.DeviceEndpoint, ttl time.Duration) error {
	return c.directory.Register(deviceName, endpoint, int64(ttl.Seconds()))
}

// Close shuts down every connection pool this client has opened.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for _, p := range c.pools {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
