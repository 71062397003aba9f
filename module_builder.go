package plugging

import (
	"context"
	"fmt"
	"reflect"

	"github.com/GoCodeAlone/plugging/container"
)

// ModuleBuilder configures the services of one module.
type ModuleBuilder struct {
	builder *Builder
	module  *Module
	logger  Logger
}

// Module returns the module being configured.
func (mb *ModuleBuilder) Module() *Module {
	return mb.module
}

// Services returns the collection implementations are registered in.
func (mb *ModuleBuilder) Services() *container.Collection {
	return mb.builder.services
}

// SetProperty stores a module property and returns the builder for chaining.
func (mb *ModuleBuilder) SetProperty(key string, value any) *ModuleBuilder {
	mb.module.Properties().Set(key, value)
	return mb
}

// AddService makes newImpl the module's factory for the core interface
// TService. Every resolution calls newImpl, and the factory belongs to this
// module alone, so modules may share an implementation type.
// Pass WithUnsupportedOperations to declare the operations the
// implementation does not honor.
func AddService[TService, TImpl any](mb *ModuleBuilder, newImpl func(c Container) (TImpl, error), opts ...ServiceOption) error {
	if mb == nil {
		return ErrModuleBuilderNil
	}
	if newImpl == nil {
		return fmt.Errorf("%w: %s on module %s", ErrFactoryNil, reflect.TypeFor[TImpl](), mb.module.Name())
	}

	if !implements(reflect.TypeFor[TImpl](), reflect.TypeFor[TService]()) {
		return fmt.Errorf("%w: %s does not implement %s", ErrServiceIncompatible, reflect.TypeFor[TImpl](), reflect.TypeFor[TService]())
	}
	if err := Register(mb.module, func(c Container) (TService, error) {
		impl, err := newImpl(c)
		if err != nil {
			var zero TService
			return zero, err
		}
		svc, _ := any(impl).(TService)
		return svc, nil
	}, opts...); err != nil {
		return err
	}

	mb.serviceEvent(EventTypeServiceRegistered, reflect.TypeFor[TService]())
	return nil
}

// DecorateService wraps the module's TService implementation with decorate.
func DecorateService[TService any](mb *ModuleBuilder, decorate func(inner TService, c Container) (TService, error)) error {
	if mb == nil {
		return ErrModuleBuilderNil
	}
	if err := Decorate(mb.module, decorate); err != nil {
		return err
	}
	mb.serviceEvent(EventTypeServiceDecorated, reflect.TypeFor[TService]())
	return nil
}

func (mb *ModuleBuilder) serviceEvent(eventType string, iface reflect.Type) {
	info, _ := mb.module.ServiceInfo(iface)
	data := ServiceEventData{
		Module:     mb.module.Name(),
		Service:    iface.String(),
		Supported:  info.Supported.String(),
		Operations: info.SupportedNames(),
	}
	mb.logger.Debug("Module service configured", "event", eventType, "service", data.Service, "supported", data.Supported)
	mb.builder.notifier.emit(context.Background(), eventType, data)
}
