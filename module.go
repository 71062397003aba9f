// Package plugging lets an application register named modules, each of which
// declares the core service interfaces it supports, how to build them and
// which operations of each interface it honors. At runtime callers resolve a
// service by module name and interface, and ask whether a module supports a
// given operation.
//
// Modules are configured once at startup through a Builder and resolved
// through a Registry[T] afterwards:
//
//	services := container.NewCollection()
//	b, _ := plugging.NewBuilder(services)
//	mb, _ := b.AddModule("ripple")
//	_ = plugging.AddService[Gateway](mb, newRippleGateway,
//		plugging.WithUnsupportedOperations(GatewayOperations, OpWithdraw))
//	_ = b.AddPlugging()
//
//	reg, _ := plugging.RegistryFor[Gateway](services.Build())
//	gw, ok, err := reg.GetService("ripple")
//	canWithdraw := reg.Supports("ripple", OpWithdraw)
package plugging

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Factory builds a service instance for a module from the container.
type Factory func(c Container) (any, error)

// DecoratorFunc wraps an already built service instance.
type DecoratorFunc func(inner any, c Container) (any, error)

// ServiceOption customizes a service registration.
type ServiceOption func(*service)

// WithSupportedOperations restricts the operations the service honors.
// Without it every operation is considered supported.
func WithSupportedOperations(ops Operations) ServiceOption {
	return func(s *service) {
		s.supported = ops
	}
}

// WithOperationSet attaches the operation universe of the core interface so
// the operations can be reported by name.
func WithOperationSet(set *OperationSet) ServiceOption {
	return func(s *service) {
		s.set = set
	}
}

// WithUnsupportedOperations declares the operations of set the service does
// not honor; everything else in set is supported. A nil set leaves the
// registration supporting all operations.
func WithUnsupportedOperations(set *OperationSet, unsupported Operations) ServiceOption {
	return func(s *service) {
		if set == nil {
			return
		}
		s.set = set
		s.supported = set.Supported(unsupported)
	}
}

type service struct {
	factory    Factory
	supported  Operations
	set        *OperationSet
	decorators int
}

// ServiceInfo describes a service registered on a module.
type ServiceInfo struct {
	Interface    reflect.Type
	Supported    Operations
	OperationSet *OperationSet
	Decorators   int
}

// SupportedNames returns the supported operation names when the registration
// carries an operation set.
func (i ServiceInfo) SupportedNames() []string {
	if i.OperationSet == nil {
		return nil
	}
	return i.OperationSet.Names(i.Supported)
}

// Module holds the metadata of one named module: the core interfaces it
// supports and free-form properties such as a typed config object.
//
// A Module is populated during startup and must be treated as read-only once
// services are being resolved; it does no locking of its own. The zero value
// is a usable module without a name; NewModule is the usual constructor.
type Module struct {
	name       string
	services   map[reflect.Type]*service
	properties *Properties
}

// NewModule creates an empty module.
func NewModule(name string) (*Module, error) {
	if name == "" {
		return nil, ErrModuleNameEmpty
	}
	return &Module{
		name:       name,
		services:   make(map[reflect.Type]*service),
		properties: newProperties(),
	}, nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Properties returns the module's property bag.
func (m *Module) Properties() *Properties {
	if m.properties == nil {
		m.properties = newProperties()
	}
	return m.properties
}

// Services returns the core interfaces registered on the module, sorted by
// type name.
func (m *Module) Services() []reflect.Type {
	out := make([]reflect.Type, 0, len(m.services))
	for t := range m.services {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Register registers factory as the way to build iface for this module.
// An interface can be registered only once per module.
func (m *Module) Register(iface reflect.Type, factory Factory, opts ...ServiceOption) error {
	if iface == nil {
		return ErrInterfaceTypeNil
	}
	if factory == nil {
		return fmt.Errorf("%w: %s on module %s", ErrFactoryNil, iface, m.name)
	}
	if _, exists := m.services[iface]; exists {
		return fmt.Errorf("%w: %s on module %s", ErrServiceAlreadyRegistered, iface, m.name)
	}

	s := &service{factory: factory, supported: AllOperations}
	for _, opt := range opts {
		opt(s)
	}
	if m.services == nil {
		m.services = make(map[reflect.Type]*service)
	}
	m.services[iface] = s
	return nil
}

// Decorate wraps the factory registered for iface so every resolution passes
// the built instance through decorate. Decorators apply in the order they were
// added: the last one added is the outermost.
func (m *Module) Decorate(iface reflect.Type, decorate DecoratorFunc) error {
	if iface == nil {
		return ErrInterfaceTypeNil
	}
	if decorate == nil {
		return fmt.Errorf("%w: %s on module %s", ErrDecoratorNil, iface, m.name)
	}
	s, ok := m.services[iface]
	if !ok {
		return fmt.Errorf("%w: %s on module %s", ErrServiceNotSupported, iface, m.name)
	}

	inner := s.factory
	s.factory = func(c Container) (any, error) {
		instance, err := inner(c)
		if err != nil {
			return nil, err
		}
		return decorate(instance, c)
	}
	s.decorators++
	return nil
}

// SupportedOperations returns the operations supported for iface. ok is false
// when iface is not registered on the module.
func (m *Module) SupportedOperations(iface reflect.Type) (Operations, bool) {
	s, ok := m.services[iface]
	if !ok {
		return NoOperations, false
	}
	return s.supported, true
}

// ServiceFactory returns the factory registered for iface.
func (m *Module) ServiceFactory(iface reflect.Type) (Factory, bool) {
	s, ok := m.services[iface]
	if !ok {
		return nil, false
	}
	return s.factory, true
}

// ServiceInfo returns the registration details for iface.
func (m *Module) ServiceInfo(iface reflect.Type) (ServiceInfo, bool) {
	s, ok := m.services[iface]
	if !ok {
		return ServiceInfo{}, false
	}
	return ServiceInfo{
		Interface:    iface,
		Supported:    s.supported,
		OperationSet: s.set,
		Decorators:   s.decorators,
	}, true
}

// Supports reports whether iface is registered on the module.
func (m *Module) Supports(iface reflect.Type) bool {
	_, ok := m.services[iface]
	return ok
}

// String implements fmt.Stringer for debugging.
func (m *Module) String() string {
	names := make([]string, 0, len(m.services))
	for _, t := range m.Services() {
		names = append(names, t.String())
	}
	return fmt.Sprintf("Name = %s Services = [%s]", m.name, strings.Join(names, ", "))
}
