package plugging

import (
	"sort"
	"strings"
)

// Options is the configuration of all modules and their services. Module
// names are case-insensitive. The zero value is empty options ready to use.
type Options struct {
	modules    map[string]*Module
	properties *Properties
}

// NewOptions creates empty options.
func NewOptions() *Options {
	return &Options{
		modules:    make(map[string]*Module),
		properties: newProperties(),
	}
}

// AddModule returns the module registered under name, creating it first if
// it does not exist yet.
func (o *Options) AddModule(name string) (*Module, error) {
	if name == "" {
		return nil, ErrModuleNameEmpty
	}

	key := strings.ToLower(name)
	if m, ok := o.modules[key]; ok {
		return m, nil
	}
	m, err := NewModule(name)
	if err != nil {
		return nil, err
	}
	if o.modules == nil {
		o.modules = make(map[string]*Module)
	}
	o.modules[key] = m
	return m, nil
}

// AddModules stores every module by name, replacing modules already present
// under the same name. Nil modules are skipped.
func (o *Options) AddModules(modules ...*Module) {
	for _, m := range modules {
		if m == nil {
			continue
		}
		if o.modules == nil {
			o.modules = make(map[string]*Module)
		}
		o.modules[strings.ToLower(m.Name())] = m
	}
}

// Module looks up a module by name.
func (o *Options) Module(name string) (*Module, bool) {
	m, ok := o.modules[strings.ToLower(name)]
	return m, ok
}

// Modules returns a copy of the registered modules keyed by module name.
func (o *Options) Modules() map[string]*Module {
	out := make(map[string]*Module, len(o.modules))
	for _, m := range o.modules {
		out[m.Name()] = m
	}
	return out
}

// ModuleNames returns the registered module names in sorted order.
func (o *Options) ModuleNames() []string {
	names := make([]string, 0, len(o.modules))
	for _, m := range o.modules {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered modules.
func (o *Options) Len() int {
	return len(o.modules)
}

// Properties holds values used by extensions built on top of the options,
// for instance infrastructure services shared by every module.
func (o *Options) Properties() *Properties {
	if o.properties == nil {
		o.properties = newProperties()
	}
	return o.properties
}

// snapshot returns new options holding the same modules and properties.
func (o *Options) snapshot() *Options {
	out := NewOptions()
	for _, m := range o.modules {
		out.AddModules(m)
	}
	out.properties.Merge(o.Properties().Map())
	return out
}
