package container

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ProviderOption configures a Provider built from a Collection.
type ProviderOption func(*Provider)

// WithFallback makes the Provider delegate types it has no descriptor for
// to r.
func WithFallback(r Resolver) ProviderOption {
	return func(p *Provider) {
		p.fallback = r
	}
}

// Provider resolves services registered in a Collection. It is safe for
// concurrent use; singletons are constructed at most once.
type Provider struct {
	descriptors map[reflect.Type]Descriptor
	fallback    Resolver

	mu         sync.Mutex
	singletons map[reflect.Type]*singletonCell
}

type singletonCell struct {
	once  sync.Once
	value any
	err   error
}

// Resolve returns an instance of t.
func (p *Provider) Resolve(t reflect.Type) (any, error) {
	return (&resolution{provider: p}).Resolve(t)
}

// Has reports whether t can be resolved by this Provider without the fallback.
func (p *Provider) Has(t reflect.Type) bool {
	_, ok := p.descriptors[t]
	return ok
}

func (p *Provider) cell(t reflect.Type) *singletonCell {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.singletons[t]
	if !ok {
		c = &singletonCell{}
		p.singletons[t] = c
	}
	return c
}

// resolution tracks the chain of types being constructed for a single
// top-level Resolve call so that cycles fail instead of recursing forever.
type resolution struct {
	provider *Provider
	chain    []reflect.Type
}

func (r *resolution) Resolve(t reflect.Type) (any, error) {
	if t == nil {
		return nil, ErrTypeNil
	}
	for _, seen := range r.chain {
		if seen == t {
			return nil, fmt.Errorf("%w: %s", ErrCircularDependency, r.describeCycle(t))
		}
	}

	p := r.provider
	d, ok := p.descriptors[t]
	if !ok {
		if p.fallback != nil {
			return p.fallback.Resolve(t) //nolint:wrapcheck // fallback errors carry their own context
		}
		return nil, fmt.Errorf("%w: %s", ErrServiceNotRegistered, t)
	}

	next := &resolution{provider: p, chain: append(append([]reflect.Type(nil), r.chain...), t)}

	if d.Lifetime == LifetimeSingleton {
		c := p.cell(t)
		c.once.Do(func() {
			c.value, c.err = construct(next, d)
		})
		return c.value, c.err
	}
	return construct(next, d)
}

func (r *resolution) describeCycle(t reflect.Type) string {
	parts := make([]string, 0, len(r.chain)+1)
	for _, c := range r.chain {
		parts = append(parts, c.String())
	}
	parts = append(parts, t.String())
	return strings.Join(parts, " -> ")
}

func construct(r Resolver, d Descriptor) (any, error) {
	v, err := d.Constructor(r)
	if err != nil {
		return nil, fmt.Errorf("construct %s: %w", d.Type, err)
	}
	if v != nil && !reflect.TypeOf(v).AssignableTo(d.Type) {
		return nil, fmt.Errorf("%w: %T is not %s", ErrServiceWrongType, v, d.Type)
	}
	return v, nil
}

// Resolve resolves T from r and asserts the result.
func Resolve[T any](r Resolver) (T, error) {
	var zero T
	v, err := r.Resolve(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T is not %s", ErrServiceWrongType, v, reflect.TypeFor[T]())
	}
	return typed, nil
}

// Root returns the Provider behind a Resolver handed to a constructor.
// Singletons that keep a Resolver for later use should keep Root(r) rather
// than r, which only tracks the construction in progress.
func Root(r Resolver) Resolver {
	if res, ok := r.(*resolution); ok {
		return res.provider
	}
	return r
}
