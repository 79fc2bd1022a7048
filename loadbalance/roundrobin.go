package loadbalance

import (
	"fmt"
	"sync/atomic"

	"igtlink/discovery"
)

// RoundRobinBalancer distributes connections evenly across all endpoints in
// order. Uses an atomic counter for lock-free, goroutine-safe operation.
//
// Best for: equal-capacity redundant endpoints that all answer the same
// requiredCapability.
type RoundRobinBalancer struct {
	counter int64 // Atomic counter, incremented on each Pick()
}

// Pick selects the next capability-matching endpoint in round-robin order.
// The atomic counter always advances, even when the capability filter
// narrows the candidate set, so a later widened requirement still sees
// rotation rather than restarting from the same endpoint.
func (b *RoundRobinBalancer) Pick(endpoints []discovery.DeviceEndpoint, requiredCapability string) (*discovery.DeviceEndpoint, error) {
	candidates := filterCapable(endpoints, requiredCapability)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no endpoints available capable of %q", requiredCapability)
	}
	index := atomic.AddInt64(&b.counter, 1) % int64(len(candidates))
	return &candidates[index], nil
}

func (b *RoundRobinBalancer) Name() string {
	return "RoundRobin"
}
