package frame

import (
	"sync"

	"github.com/geof/geof/geoferr"
	"github.com/geof/geof/panel"
)

type funcKey struct{ module, function string }

// Registry resolves (module, function) references to typed per-field
// callables, populated at process start (spec 9). Unknown keys produce
// UnknownFunctionRef rather than a silent no-op.
type Registry struct {
	mu  sync.RWMutex
	fns map[funcKey]panel.PerFieldFunc
}

// NewRegistry returns an empty function registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[funcKey]panel.PerFieldFunc)}
}

// Register installs fn under (module, function).
func (r *Registry) Register(module, function string, fn panel.PerFieldFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[funcKey{module, function}] = fn
}

// Resolve looks up a per-field function by name, returning
// UnknownFunctionRef if it was never registered.
func (r *Registry) Resolve(module, function string) (panel.PerFieldFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[funcKey{module, function}]
	if !ok {
		return nil, &geoferr.UnknownFunctionRef{Module: module, Function: function}
	}
	return fn, nil
}

// Identity is the (geof, identity) built-in: every field keeps its
// pre-frame value. Useful as a test fixture and as a frame-engine
// smoke test.
func Identity(_ int, data panel.FieldValue, _ panel.Adjacents, _ panel.FieldValue) (panel.FieldValue, error) {
	return data, nil
}

// NeighbourCount is the (geof, neighbour_count) built-in: every field's
// new value is the number of present neighbours (5 for pentagons, 6 for
// hexagons).
func NeighbourCount(_ int, _ panel.FieldValue, adj panel.Adjacents, _ panel.FieldValue) (panel.FieldValue, error) {
	return len(adj), nil
}

// NewDefaultRegistry returns a Registry pre-populated with the built-in
// per-field functions under the "geof" module name.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("geof", "identity", Identity)
	r.Register("geof", "neighbour_count", NeighbourCount)
	return r
}
