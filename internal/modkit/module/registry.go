package module

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores the port set of a mounted module, replacing any previous one
func Register(name string, ports any) {
	mu.Lock()
	reg[name] = ports
	mu.Unlock()
}

// Lookup fetches the port set registered under name as T
func Lookup[T any](name string) (T, error) {
	var zero T
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("module: %q is not registered", name)
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("module: %q ports are %T, not %v", name, v, reflect.TypeOf((*T)(nil)).Elem())
	}
	return out, nil
}

// Names lists registered module names in order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(reg))
	for k := range reg {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Reset clears the registry for tests
func Reset() {
	mu.Lock()
	reg = map[string]any{}
	mu.Unlock()
}
