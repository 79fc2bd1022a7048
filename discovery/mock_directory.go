package discovery

import "sync"

// MockDirectory is an in-memory Directory for tests, ignoring TTL/lease
// semantics entirely (Register never expires on its own — call Deregister).
type MockDirectory struct {
	mu        sync.Mutex
	endpoints map[string]map[string]DeviceEndpoint // deviceName -> addr -> endpoint
	watchers  map[string][]chan []DeviceEndpoint
}

// NewMockDirectory creates an empty MockDirectory.
func NewMockDirectory() *MockDirectory {
	return &MockDirectory{
		endpoints: make(map[string]map[string]DeviceEndpoint),
		watchers:  make(map[string][]chan []DeviceEndpoint),
	}
}

func (m *MockDirectory) Register(deviceName string, endpoint DeviceEndpoint, ttl int64) error {
	m.mu.Lock()
	if m.endpoints[deviceName] == nil {
		m.endpoints[deviceName] = make(map[string]DeviceEndpoint)
	}
	m.endpoints[deviceName][endpoint.Addr] = endpoint
	m.mu.Unlock()
	m.notify(deviceName)
	return nil
}

func (m *MockDirectory) Deregister(deviceName string, addr string) error {
	m.mu.Lock()
	delete(m.endpoints[deviceName], addr)
	m.mu.Unlock()
	m.notify(deviceName)
	return nil
}

func (m *MockDirectory) Discover(deviceName string) ([]DeviceEndpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DeviceEndpoint, 0, len(m.endpoints[deviceName]))
	for _, e := range m.endpoints[deviceName] {
		out = append(out, e)
	}
	return out, nil
}

func (m *MockDirectory) DiscoverCapable(capability string) ([]DeviceEndpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []DeviceEndpoint
	for _, byAddr := range m.endpoints {
		for _, e := range byAddr {
			for _, c := range e.Capabilities {
				if c == capability {
					out = append(out, e)
					break
				}
			}
		}
	}
	return out, nil
}

func (m *MockDirectory) Watch(deviceName string) <-chan []DeviceEndpoint {
	ch := make(chan []DeviceEndpoint, 1)
	m.mu.Lock()
	m.watchers[deviceName] = append(m.watchers[deviceName], ch)
	m.mu.Unlock()
	return ch
}

func (m *MockDirectory) notify(deviceName string) {
	endpoints, _ := m.Discover(deviceName)
	m.mu.Lock()
	watchers := append([]chan []DeviceEndpoint(nil), m.watchers[deviceName]...)
	m.mu.Unlock()
	for _, ch := range watchers {
		select {
		case ch <- endpoints:
		default:
		}
	}
}
