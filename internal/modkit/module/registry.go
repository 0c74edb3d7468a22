package module

import "sync"

// process registry of port sets, filled during bootstrap
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores a port set under a module name
func Register(name string, ports any) {
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// RegisterAll registers every module's ports under its name
func RegisterAll(mods ...Module) {
	for _, m := range mods {
		Register(m.Name(), m.Ports())
	}
}

// PortsAs fetches and type asserts a port set by module name
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	out, ok2 := v.(T)
	return out, ok && ok2
}

// Reset clears the registry for tests
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
