// Package container provides a small, type-keyed service container.
//
// A Collection records how services are constructed during application
// startup; Build turns it into a Provider that resolves instances by type.
// Constructors receive a Resolver so they can pull their own dependencies,
// and a Provider can fall back to another Resolver (for example a dig
// container) for types it does not know about.
//
// Basic usage:
//
//	services := container.NewCollection()
//	_ = container.AddSingleton(services, func(container.Resolver) (*Config, error) {
//		return &Config{}, nil
//	})
//	_ = container.AddTransient(services, newHandler)
//	provider := services.Build()
//	handler, err := container.Resolve[*Handler](provider)
package container

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Resolver resolves a service instance by its registered type.
type Resolver interface {
	Resolve(t reflect.Type) (any, error)
}

// Constructor builds a service instance, resolving dependencies from r.
type Constructor func(r Resolver) (any, error)

// Descriptor describes how a single service type is constructed.
type Descriptor struct {
	Type        reflect.Type
	Lifetime    Lifetime
	Constructor Constructor
}

func (d Descriptor) validate() error {
	if d.Type == nil {
		return ErrTypeNil
	}
	if d.Constructor == nil {
		return fmt.Errorf("%w for %s", ErrConstructorNil, d.Type)
	}
	if !d.Lifetime.IsValid() {
		return fmt.Errorf("%w %q for %s", ErrInvalidLifetime, d.Lifetime, d.Type)
	}
	return nil
}

// Collection is the registration side of the container. It is safe for
// concurrent use, although registrations normally happen during startup.
type Collection struct {
	mu          sync.RWMutex
	descriptors map[reflect.Type]Descriptor
}

// NewCollection creates an empty service collection.
func NewCollection() *Collection {
	return &Collection{
		descriptors: make(map[reflect.Type]Descriptor),
	}
}

// Add registers d, replacing any earlier descriptor for the same type.
func (c *Collection) Add(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.descriptors[d.Type] = d
	return nil
}

// TryAdd registers d only if no descriptor exists for its type yet.
// It reports whether d was added.
func (c *Collection) TryAdd(d Descriptor) (bool, error) {
	if err := d.validate(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.descriptors[d.Type]; exists {
		return false, nil
	}
	c.descriptors[d.Type] = d
	return true, nil
}

// Contains reports whether a descriptor is registered for t.
func (c *Collection) Contains(t reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.descriptors[t]
	return exists
}

// Len returns the number of registered descriptors.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.descriptors)
}

// Descriptors returns all registered descriptors sorted by type name.
func (c *Collection) Descriptors() []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Descriptor, 0, len(c.descriptors))
	for _, d := range c.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Type.String() < out[j].Type.String()
	})
	return out
}

// Build creates a Provider from a snapshot of the current registrations.
// Later changes to the collection are not visible to the returned Provider.
func (c *Collection) Build(opts ...ProviderOption) *Provider {
	c.mu.RLock()
	descriptors := make(map[reflect.Type]Descriptor, len(c.descriptors))
	for t, d := range c.descriptors {
		descriptors[t] = d
	}
	c.mu.RUnlock()

	p := &Provider{
		descriptors: descriptors,
		singletons:  make(map[reflect.Type]*singletonCell),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddTransient registers a constructor for T that runs on every resolution.
func AddTransient[T any](c *Collection, ctor func(r Resolver) (T, error)) error {
	return c.Add(typedDescriptor(LifetimeTransient, ctor))
}

// AddSingleton registers a constructor for T that runs once per Provider.
func AddSingleton[T any](c *Collection, ctor func(r Resolver) (T, error)) error {
	return c.Add(typedDescriptor(LifetimeSingleton, ctor))
}

// TryAddSingleton registers a singleton constructor for T unless T is
// already registered.
func TryAddSingleton[T any](c *Collection, ctor func(r Resolver) (T, error)) (bool, error) {
	return c.TryAdd(typedDescriptor(LifetimeSingleton, ctor))
}

// AddInstance registers an already constructed value as a singleton.
func AddInstance[T any](c *Collection, instance T) error {
	return AddSingleton(c, func(Resolver) (T, error) {
		return instance, nil
	})
}

func typedDescriptor[T any](lifetime Lifetime, ctor func(r Resolver) (T, error)) Descriptor {
	d := Descriptor{
		Type:     reflect.TypeFor[T](),
		Lifetime: lifetime,
	}
	if ctor != nil {
		d.Constructor = func(r Resolver) (any, error) {
			return ctor(r)
		}
	}
	return d
}
