package plugging

import (
	"fmt"
	"reflect"
)

// Register registers a typed factory for the core interface T.
func Register[T any](m *Module, factory func(c Container) (T, error), opts ...ServiceOption) error {
	if factory == nil {
		return m.Register(reflect.TypeFor[T](), nil, opts...)
	}
	return m.Register(reflect.TypeFor[T](), func(c Container) (any, error) {
		return factory(c)
	}, opts...)
}

// RegisterResolved registers the core interface T for a module whose
// implementation is the single implementation of T in the container.
func RegisterResolved[T any](m *Module, opts ...ServiceOption) error {
	return Register(m, Resolve[T], opts...)
}

// RegisterAs registers the core interface TCore for a module whose
// implementation is resolved from the container as TSpecific, typically an
// interface or struct specific to the module that also implements TCore.
func RegisterAs[TCore, TSpecific any](m *Module, opts ...ServiceOption) error {
	core := reflect.TypeFor[TCore]()
	specific := reflect.TypeFor[TSpecific]()
	if !implements(specific, core) {
		return fmt.Errorf("%w: %s does not implement %s", ErrServiceIncompatible, specific, core)
	}

	return m.Register(core, func(c Container) (any, error) {
		return Resolve[TSpecific](c)
	}, opts...)
}

// Decorate wraps the registered T factory of m with decorate.
func Decorate[T any](m *Module, decorate func(inner T, c Container) (T, error)) error {
	iface := reflect.TypeFor[T]()
	if decorate == nil {
		return m.Decorate(iface, nil)
	}
	return m.Decorate(iface, func(inner any, c Container) (any, error) {
		var typed T
		if inner != nil {
			var ok bool
			if typed, ok = inner.(T); !ok {
				return nil, fmt.Errorf("%w: decorating %s got %T", ErrServiceIncompatible, iface, inner)
			}
		}
		return decorate(typed, c)
	})
}

// SupportedOperationsOf returns the operations m supports for T.
func SupportedOperationsOf[T any](m *Module) (Operations, bool) {
	return m.SupportedOperations(reflect.TypeFor[T]())
}

// ModuleSupports reports whether m registers the core interface T.
func ModuleSupports[T any](m *Module) bool {
	return m.Supports(reflect.TypeFor[T]())
}

func implements(specific, core reflect.Type) bool {
	if core.Kind() == reflect.Interface {
		return specific.Implements(core)
	}
	return specific.AssignableTo(core)
}
