// Package loadbalance provides load balancing strategies for picking among
// the redundant endpoints a discovery.Directory returns for one device
// name (§4.14 "Endpoint Selection").
//
// Three strategies are implemented:
//   - RoundRobin:      Equal-capacity redundant trackers
//   - WeightedRandom:  Heterogeneous endpoints (different hardware)
//   - ConsistentHash:  Session affinity, e.g. pinning one client to one tracker
//
// Every strategy is capability-aware: Pick takes the wire type_name the
// caller is about to send or expects back (e.g. "GET_TDATA", "STT_TDATA"),
// and never returns an endpoint whose advertised CAPABILITY list is known
// to exclude it — a redundant tracker that has only ever answered
// GET_STATUS should not be handed a GET_TDATA caller. An endpoint that
// hasn't announced any capabilities yet (Capabilities is empty, e.g. it
// registered before its first CAPABILITY exchange) is treated as
// compatible with everything rather than excluded.
package loadbalance

import "igtlink/discovery"

// Balancer is the interface for load balancing strategies. The client calls
// Pick() before each connection attempt to select a target endpoint.
type Balancer interface {
	// Pick selects one endpoint from the available list capable of
	// requiredCapability (a wire type_name, or "" to skip the capability
	// filter entirely). Called on every connect — must be goroutine-safe.
	Pick(endpoints []discovery.DeviceEndpoint, requiredCapability string) (*discovery.DeviceEndpoint, error)

	// Name returns the strategy name (for logging/debugging).
	Name() string
}

// capable reports whether endpoint can serve requiredCapability: true if
// the requirement is empty, the endpoint hasn't announced any
// capabilities, or the capability is in its announced list.
func capable(endpoint discovery.DeviceEndpoint, requiredCapability string) bool {
	if requiredCapability == "" || len(endpoint.Capabilities) == 0 {
		return true
	}
	for _, c := range endpoint.Capabilities {
		if c == requiredCapability {
			return true
		}
	}
	return false
}

// filterCapable returns the subset of endpoints capable of
// requiredCapability, preserving order.
func filterCapable(endpoints []discovery.DeviceEndpoint, requiredCapability string) []discovery.DeviceEndpoint {
	if requiredCapability == "" {
		return endpoints
	}
	out := make([]discovery.DeviceEndpoint, 0, len(endpoints))
	for _, e := range endpoints {
		if capable(e, requiredCapability) {
			out = append(out, e)
		}
	}
	return out
}
