// Package discovery implements the device directory (§4.13): a registry of
// reachable OpenIGTLink endpoints keyed by device name, so a client can find
// a redundant/failover tracker or imaging device instead of hardcoding an
// address, the "DeviceName -> endpoints" analogue of a service-discovery
// registry.
package discovery

// DeviceEndpoint is one reachable instance of a named OpenIGTLink device.
type DeviceEndpoint struct {
	Addr         string   // Network address, e.g. "10.0.0.5:18944"
	DeviceName   string   // OpenIGTLink device_name this endpoint answers as
	Capabilities []string // Type names this endpoint advertises via STATUS/CAPABILITY
	Weight       int      // For weighted load balancing across redundant endpoints
}

// Directory is the interface for device registration and discovery.
// Implementations include EtcdDirectory (production) and MockDirectory
// (testing).
type Directory interface {
	// Register adds a device endpoint to the directory with a TTL lease.
	// The entry is automatically removed if the keep-alive stops (e.g. the
	// device process crashes).
	Register(deviceName string, endpoint DeviceEndpoint, ttl int64) error

	// Deregister removes a device endpoint from the directory. Called
	// during graceful shutdown before closing the listener.
	Deregister(deviceName string, addr string) error

	// Discover returns all currently registered endpoints for a device
	// name.
	Discover(deviceName string) ([]DeviceEndpoint, error)

	// DiscoverCapable returns every registered endpoint, across all device
	// names, that advertises capability (a wire type_name such as
	// "GET_TDATA") in its CAPABILITY list — "any device that can stream
	// tracking data", rather than a specific device_name a caller already
	// knows to ask for.
	DiscoverCapable(capability string) ([]DeviceEndpoint, error)

	// Watch returns a channel that emits updated endpoint lists whenever a
	// device name's endpoints change.
	Watch(deviceName string) <-chan []DeviceEndpoint
}
