package container

import (
	"fmt"
	"reflect"

	"go.uber.org/dig"
)

// DigContainer adapts a *dig.Container to the Resolver interface so services
// provided to dig can be used by plugging modules, either directly or as the
// fallback of a Provider.
type DigContainer struct {
	c *dig.Container
}

// NewDigContainer wraps c. A nil c yields an empty dig container.
func NewDigContainer(c *dig.Container) *DigContainer {
	if c == nil {
		c = dig.New()
	}
	return &DigContainer{c: c}
}

// Dig returns the wrapped dig container.
func (d *DigContainer) Dig() *dig.Container {
	return d.c
}

// Resolve invokes dig with a synthesized func(t) so dig builds t and its
// dependencies.
func (d *DigContainer) Resolve(t reflect.Type) (any, error) {
	if d == nil || d.c == nil {
		return nil, ErrDigContainerNil
	}
	if t == nil {
		return nil, ErrTypeNil
	}

	var out any
	fnType := reflect.FuncOf([]reflect.Type{t}, nil, false)
	fn := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		out = args[0].Interface()
		return nil
	})

	if err := d.c.Invoke(fn.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrServiceNotRegistered, t, err)
	}
	return out, nil
}
