package plugging

import (
	"fmt"
	"reflect"
)

// Container is the dependency-injection container a module factory resolves
// its implementation from. The host application supplies it; plugging only
// ever calls Resolve. *container.Provider and *container.DigContainer both
// satisfy it.
type Container interface {
	Resolve(t reflect.Type) (any, error)
}

// Resolve resolves T from c.
func Resolve[T any](c Container) (T, error) {
	var zero T
	if c == nil {
		return zero, ErrContainerNil
	}
	v, err := c.Resolve(reflect.TypeFor[T]())
	if err != nil {
		return zero, fmt.Errorf("resolve %s: %w", reflect.TypeFor[T](), err)
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T is not %s", ErrServiceIncompatible, v, reflect.TypeFor[T]())
	}
	return typed, nil
}
