package tools

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateTool = errors.New("tool already registered")
	ErrInvalidTool   = errors.New("invalid tool registration")
	ErrSealed        = errors.New("registry is sealed")
)

// Descriptor is the public description of a tool
type Descriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

type entry struct {
	descriptor Descriptor
	handler    Handler
}

// Registry maps tool names to handlers and keeps registration order.
// It is built once at startup and only read afterwards.
type Registry struct {
	entries []entry
	index   map[string]int
	sealed  bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a tool
func (r *Registry) Register(d Descriptor, h Handler) error {
	if r.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrSealed, d.Name)
	}
	if d.Name == "" || h == nil {
		return fmt.Errorf("%w: name and handler are required", ErrInvalidTool)
	}
	if _, exists := r.index[d.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, d.Name)
	}
	r.index[d.Name] = len(r.entries)
	r.entries = append(r.entries, entry{descriptor: d, handler: h})
	return nil
}

// MustRegister is Register for startup wiring; a bad registration is a
// programming error and panics.
func (r *Registry) MustRegister(d Descriptor, h Handler) {
	if err := r.Register(d, h); err != nil {
		panic(err)
	}
}

// Seal forbids further registrations
func (r *Registry) Seal() {
	r.sealed = true
}

// List returns the descriptors in registration order
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.descriptor
	}
	return out
}

// Lookup returns the handler registered under name
func (r *Registry) Lookup(name string) (Handler, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].handler, true
}

// Len returns the number of registered tools
func (r *Registry) Len() int {
	return len(r.entries)
}
