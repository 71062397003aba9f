package plugging

import (
	"fmt"
	"reflect"
)

// PluggableRegistry gives typed access to the core interface T across modules.
type PluggableRegistry[T any] interface {
	// GetService resolves T for the named module.
	GetService(moduleName string) (T, bool, error)

	// Supports reports whether the named module supports op on T. With
	// NoOperations it only checks that the module registers T at all.
	Supports(moduleName string, op Operations) bool
}

// Registry is the default PluggableRegistry.
type Registry[T any] struct {
	provider PluggableServiceProvider
	options  *Options
	iface    reflect.Type
}

// NewRegistry creates a registry for T over p and opts.
func NewRegistry[T any](p PluggableServiceProvider, opts *Options) (*Registry[T], error) {
	if p == nil {
		return nil, ErrProviderNil
	}
	if opts == nil {
		return nil, ErrOptionsNil
	}
	return &Registry[T]{
		provider: p,
		options:  opts,
		iface:    reflect.TypeFor[T](),
	}, nil
}

// RegistryFor builds a registry for T from the provider and options that
// Builder.AddPlugging registered in the container.
func RegistryFor[T any](c Container) (*Registry[T], error) {
	p, err := Resolve[PluggableServiceProvider](c)
	if err != nil {
		return nil, fmt.Errorf("registry for %s: %w", reflect.TypeFor[T](), err)
	}
	opts, err := Resolve[*Options](c)
	if err != nil {
		return nil, fmt.Errorf("registry for %s: %w", reflect.TypeFor[T](), err)
	}
	return NewRegistry[T](p, opts)
}

// GetService implements PluggableRegistry.
func (r *Registry[T]) GetService(moduleName string) (T, bool, error) {
	if moduleName == "" {
		var zero T
		return zero, false, ErrModuleNameEmpty
	}
	return GetService[T](r.provider, moduleName)
}

// Supports implements PluggableRegistry. An empty or unknown module name
// yields false.
func (r *Registry[T]) Supports(moduleName string, op Operations) bool {
	m, ok := r.options.Module(moduleName)
	if !ok {
		return false
	}
	supported, ok := m.SupportedOperations(r.iface)
	if !ok {
		return false
	}
	// Without an operation only the registration of T itself is checked.
	return op == NoOperations || supported.Has(op)
}

// Modules returns the names of the modules that register T, sorted.
func (r *Registry[T]) Modules() []string {
	var names []string
	for _, name := range r.options.ModuleNames() {
		if m, ok := r.options.Module(name); ok && m.Supports(r.iface) {
			names = append(names, name)
		}
	}
	return names
}
