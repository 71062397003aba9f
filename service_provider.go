package plugging

import (
	"fmt"
	"reflect"
)

// PluggableServiceProvider resolves services of a module.
type PluggableServiceProvider interface {
	// Service resolves iface for the named module. ok is false when the module
	// is unknown, does not register iface, or produced a value that is not an
	// iface. err is reserved for factory failures.
	Service(moduleName string, iface reflect.Type) (svc any, ok bool, err error)
}

// ProviderOption configures a ServiceProvider.
type ProviderOption func(*ServiceProvider)

// WithProviderLogger sets the logger used for resolution diagnostics.
func WithProviderLogger(logger Logger) ProviderOption {
	return func(p *ServiceProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// ServiceProvider is the default PluggableServiceProvider. It looks the module
// up in the options and invokes its factory against the container.
type ServiceProvider struct {
	container Container
	options   *Options
	logger    Logger
}

// NewServiceProvider creates a provider over c and opts. Neither is owned by
// the provider.
func NewServiceProvider(c Container, opts *Options, options ...ProviderOption) (*ServiceProvider, error) {
	if c == nil {
		return nil, ErrContainerNil
	}
	if opts == nil {
		return nil, ErrOptionsNil
	}

	p := &ServiceProvider{
		container: c,
		options:   opts,
		logger:    NopLogger(),
	}
	for _, o := range options {
		o(p)
	}
	return p, nil
}

// Options returns the options the provider resolves against.
func (p *ServiceProvider) Options() *Options {
	return p.options
}

// Service implements PluggableServiceProvider.
func (p *ServiceProvider) Service(moduleName string, iface reflect.Type) (any, bool, error) {
	if iface == nil {
		return nil, false, ErrInterfaceTypeNil
	}

	m, ok := p.options.Module(moduleName)
	if !ok {
		p.logger.Debug("Module not found", "module", moduleName, "service", iface.String())
		return nil, false, nil
	}
	factory, ok := m.ServiceFactory(iface)
	if !ok {
		p.logger.Debug("Service not supported by module", "module", m.Name(), "service", iface.String())
		return nil, false, nil
	}

	instance, err := factory(p.container)
	if err != nil {
		p.logger.Error("Service factory failed", "module", m.Name(), "service", iface.String(), "error", err)
		return nil, false, fmt.Errorf("%w: %s for module %s: %w", ErrServiceFactoryFailed, iface, m.Name(), err)
	}
	if instance == nil || !reflect.TypeOf(instance).AssignableTo(iface) {
		p.logger.Warn("Service instance has unexpected type", "module", m.Name(), "service", iface.String(), "type", fmt.Sprintf("%T", instance))
		return nil, false, nil
	}
	return instance, true, nil
}

// GetService resolves the core interface T for the named module.
func GetService[T any](p PluggableServiceProvider, moduleName string) (T, bool, error) {
	var zero T
	if p == nil {
		return zero, false, ErrProviderNil
	}
	v, ok, err := p.Service(moduleName, reflect.TypeFor[T]())
	if err != nil || !ok {
		return zero, false, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false, nil
	}
	return typed, true, nil
}
