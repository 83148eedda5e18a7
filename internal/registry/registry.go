package registry

import (
	"fmt"
	"log/slog"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/blockflow/internal/block"
)

// Module is the interface all compiled-in block packages implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Factory builds a block handle for one declared instance. Arguments are
// the evaluated values of the declaration's `arguments` block.
type Factory struct {
	NewBlock func(name string, args map[string]cty.Value) (*block.Handle, error)
}

// Registry holds the block-type factories for a single application
// instance.
type Registry struct {
	factories map[string]*Factory
	types     []string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{factories: make(map[string]*Factory)}
}

// RegisterBlock registers a factory for a block type.
func (r *Registry) RegisterBlock(typeName string, f *Factory) {
	if _, exists := r.factories[typeName]; exists {
		panic(fmt.Sprintf("block factory with type '%s' already registered", typeName))
	}
	slog.Debug("Registering block factory.", "type", typeName)
	r.factories[typeName] = f
	r.types = append(r.types, typeName)
}

// Factory resolves a block type's factory.
func (r *Registry) Factory(typeName string) (*Factory, bool) {
	f, ok := r.factories[typeName]
	return f, ok
}

// Types lists registered block types in registration order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.types))
	copy(out, r.types)
	return out
}
