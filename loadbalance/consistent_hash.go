package loadbalance

import (
	"fmt"
	"hash/crc32"
	"sort"

	"igtlink/discovery"
)

// ConsistentHashBalancer maps keys (e.g. a client-id) to endpoints using a
// hash ring. The same key always maps to the same endpoint (until the ring
// changes), providing session affinity — useful for pinning one client's
// tracking stream to one redundant tracker.
//
// Virtual nodes: each real endpoint is mapped to N virtual nodes on the
// ring. Without virtual nodes, endpoints might cluster together on the
// ring, causing uneven load distribution. 100 virtual nodes per endpoint
// ensures statistical uniformity.
//
//	Hash Ring:
//	                  0
//	                ╱   ╲
//	              ╱       ╲
//	         B ●               ● A
//	           │    key ◆──►   │   (clockwise to nearest node → A)
//	         C ●               ● A' (virtual node of A)
//	              ╲       ╱
//	                ╲   ╱
type ConsistentHashBalancer struct {
	replicas int                                 // Virtual nodes per real endpoint
	ring     []uint32                            // Sorted hash values on the ring
	nodes    map[uint32]*discovery.DeviceEndpoint // Hash value → endpoint mapping
}

// NewConsistentHashBalancer creates a hash ring with 100 virtual nodes per endpoint.
func NewConsistentHashBalancer() *ConsistentHashBalancer {
	return &ConsistentHashBalancer{
		replicas: 100,
		ring:     []uint32{},
		nodes:    make(map[uint32]*discovery.DeviceEndpoint),
	}
}

// Add places an endpoint onto the hash ring with N virtual nodes.
// Each virtual node is hashed from "{addr}#{i}" to spread evenly across the ring.
func (b *ConsistentHashBalancer) Add(endpoint *discovery.DeviceEndpoint) {
	for i := 0; i < b.replicas; i++ {
		key := fmt.Sprintf("%s#%d", endpoint.Addr, i)
		hash := crc32.ChecksumIEEE([]byte(key))
		b.ring = append(b.ring, hash)
		b.nodes[hash] = endpoint
	}
	// Keep the ring sorted for binary search in Pick()
	sort.Slice(b.ring, func(i, j int) bool {
		return b.ring[i] < b.ring[j]
	})
}

// Pick finds the endpoint responsible for the given key, capable of
// requiredCapability.
// It hashes the key, then binary-searches for the first node >= hash on the
// ring. If the hash is larger than all nodes, it wraps around to the first
// node (ring property). If that endpoint can't serve requiredCapability —
// e.g. a tracking stream pinned to a device that has since been replaced by
// a redundant one announcing a different CAPABILITY set — Pick keeps
// walking clockwise around the ring, so a client's session affinity degrades
// to "nearest compatible endpoint" instead of failing outright.
//
// Note: Pick takes a string key (not []DeviceEndpoint) because consistent
// hashing is key-based — it doesn't implement the Balancer interface
// directly.
func (b *ConsistentHashBalancer) Pick(key string, requiredCapability string) (*discovery.DeviceEndpoint, error) {
	if len(b.ring) == 0 {
		return nil, fmt.Errorf("no endpoints on the hash ring")
	}
	hash := crc32.ChecksumIEEE([]byte(key))

	// Binary search: find first node with hash >= key's hash
	idx := sort.Search(len(b.ring), func(i int) bool {
		return b.ring[i] >= hash
	})

	// Wrap around: if key's hash > all nodes, go to the first node
	if idx == len(b.ring) {
		idx = 0
	}

	// Virtual nodes mean the same real endpoint can appear more than once
	// walking forward; cap the walk at one full lap of the ring.
	for i := 0; i < len(b.ring); i++ {
		node := b.nodes[b.ring[(idx+i)%len(b.ring)]]
		if capable(*node, requiredCapability) {
			return node, nil
		}
	}

	return nil, fmt.Errorf("no endpoint on the ring capable of %q", requiredCapability)
}

func (b *ConsistentHashBalancer) Name() string {
	return "ConsistentHash"
}
