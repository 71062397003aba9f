package plugging

import (
	"context"
	"fmt"

	"github.com/GoCodeAlone/plugging/config"
	"github.com/GoCodeAlone/plugging/container"
)

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used by the builder and by the provider it
// registers.
func WithLogger(logger Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithObservers registers observers notified of configuration events.
func WithObservers(observers ...Observer) BuilderOption {
	return func(b *Builder) {
		b.observers = append(b.observers, observers...)
	}
}

// Builder configures modules and their services during application startup.
type Builder struct {
	services  *container.Collection
	options   *Options
	logger    Logger
	observers []Observer
	notifier  *notifier
}

// NewBuilder creates a builder that registers implementations in services.
func NewBuilder(services *container.Collection, opts ...BuilderOption) (*Builder, error) {
	if services == nil {
		return nil, ErrServiceCollectionNil
	}

	b := &Builder{
		services: services,
		options:  NewOptions(),
		logger:   NopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.notifier = &notifier{observers: b.observers, logger: b.logger}
	return b, nil
}

// Services returns the collection implementations are registered in.
func (b *Builder) Services() *container.Collection {
	return b.services
}

// Options returns the options being configured.
func (b *Builder) Options() *Options {
	return b.options
}

// Logger returns the builder's logger.
func (b *Builder) Logger() Logger {
	return b.logger
}

// AddModule registers the named module (or returns the existing one) and a
// builder to configure it.
func (b *Builder) AddModule(name string) (*ModuleBuilder, error) {
	if name == "" {
		return nil, ErrModuleNameEmpty
	}

	_, existed := b.options.Module(name)
	m, err := b.options.AddModule(name)
	if err != nil {
		return nil, err
	}
	if !existed {
		b.logger.Debug("Module added", "module", m.Name())
		b.notifier.emit(context.Background(), EventTypeModuleAdded, ModuleEventData{Module: m.Name()})
	}
	return &ModuleBuilder{
		builder: b,
		module:  m,
		logger:  NewScopedLogger(b.logger, "module", m.Name()),
	}, nil
}

// Configure adds every module declared in cfg and copies the declared
// properties onto the modules and the options.
func (b *Builder) Configure(cfg *config.Config) error {
	if cfg == nil {
		return ErrConfigNil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid plugging config: %w", err)
	}

	for _, mc := range cfg.Modules {
		mb, err := b.AddModule(mc.Name)
		if err != nil {
			return fmt.Errorf("configure module %q: %w", mc.Name, err)
		}
		mb.module.Properties().Merge(mc.Properties)
	}
	b.options.Properties().Merge(cfg.Properties)

	b.logger.Info("Plugging configuration applied", "modules", len(cfg.Modules), "properties", len(cfg.Properties))
	return nil
}

// AddPlugging registers the options together with the PluggableServiceProvider
// in the service collection, so that registries can be obtained from the built
// container with RegistryFor. The options are snapshotted when they are first
// resolved, so modules added after AddPlugging are still included until then.
// Registrations that already exist are kept.
func (b *Builder) AddPlugging() error {
	options := b.options
	if _, err := container.TryAddSingleton(b.services, func(container.Resolver) (*Options, error) {
		return options.snapshot(), nil
	}); err != nil {
		return fmt.Errorf("register plugging options: %w", err)
	}

	logger := b.logger
	if _, err := container.TryAddSingleton(b.services, func(r container.Resolver) (*ServiceProvider, error) {
		opts, err := container.Resolve[*Options](r)
		if err != nil {
			return nil, err //nolint:wrapcheck // wrapped by the container
		}
		return NewServiceProvider(container.Root(r), opts, WithProviderLogger(logger))
	}); err != nil {
		return fmt.Errorf("register service provider: %w", err)
	}

	if _, err := container.TryAddSingleton(b.services, func(r container.Resolver) (PluggableServiceProvider, error) {
		sp, err := container.Resolve[*ServiceProvider](r)
		if err != nil {
			return nil, err //nolint:wrapcheck // wrapped by the container
		}
		return sp, nil
	}); err != nil {
		return fmt.Errorf("register pluggable service provider: %w", err)
	}

	names := b.options.ModuleNames()
	b.logger.Info("Plugging registered", "modules", names)
	b.notifier.emit(context.Background(), EventTypePluggingAdded, PluggingEventData{Modules: names})
	return nil
}
