package message

import "sync"

// registry maps a wire type_name to the DecodeFunc that parses its body.
// Populated by each type's init() — a factory-by-key pattern, except the
// key space is the fixed, closed set of documented OpenIGTLink types
// rather than a pluggable format: this package never exposes a way to
// register a user-defined type.
var (
	registryMu sync.RWMutex
	registry   = map[string]DecodeFunc{}
)

func register(typeName string, fn DecodeFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[typeName] = fn
}

// Lookup returns the DecodeFunc registered for typeName, if any.
func Lookup(typeName string) (DecodeFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[typeName]
	return fn, ok
}
