package plugging

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/golobby/cast"
)

// Properties is a case-insensitive bag of named configuration values attached
// to a module or to the options. Keys keep the spelling they were first set
// with. Rather than reading the bag directly, packages usually expose typed
// accessors built on PropertyAs.
type Properties struct {
	values map[string]property
}

type property struct {
	key   string
	value any
}

var durationType = reflect.TypeFor[time.Duration]()

func newProperties() *Properties {
	return &Properties{values: make(map[string]property)}
}

// Set stores value under key.
func (p *Properties) Set(key string, value any) {
	if p.values == nil {
		p.values = make(map[string]property)
	}
	norm := strings.ToLower(key)
	if existing, ok := p.values[norm]; ok {
		key = existing.key
	}
	p.values[norm] = property{key: key, value: value}
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (any, bool) {
	v, ok := p.values[strings.ToLower(key)]
	return v.value, ok
}

// Delete removes key from the bag.
func (p *Properties) Delete(key string) {
	delete(p.values, strings.ToLower(key))
}

// Keys returns the stored keys in sorted order.
func (p *Properties) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for _, v := range p.values {
		keys = append(keys, v.key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored values.
func (p *Properties) Len() int {
	return len(p.values)
}

// Map returns a copy of the bag keyed by the original key spelling.
func (p *Properties) Map() map[string]any {
	out := make(map[string]any, len(p.values))
	for _, v := range p.values {
		out[v.key] = v.value
	}
	return out
}

// Merge copies every entry of values into the bag.
func (p *Properties) Merge(values map[string]any) {
	for k, v := range values {
		p.Set(k, v)
	}
}

// PropertyAs returns the property stored under key as T. Values already of
// type T are returned as is; strings (as produced by environment variables or
// loosely typed config files) are converted with golobby/cast. ok is false
// when the key is absent.
func PropertyAs[T any](p *Properties, key string) (value T, ok bool, err error) {
	raw, exists := p.Get(key)
	if !exists {
		return value, false, nil
	}
	if typed, isT := raw.(T); isT {
		return typed, true, nil
	}

	target := reflect.TypeFor[T]()
	var str string
	switch v := raw.(type) {
	case string:
		str = v
	case fmt.Stringer:
		str = v.String()
	default:
		str = fmt.Sprint(v)
	}

	if target == durationType {
		d, err := time.ParseDuration(str)
		if err != nil {
			return value, true, fmt.Errorf("property %q: %w", key, err)
		}
		return any(d).(T), true, nil
	}

	converted, err := cast.FromType(str, target)
	if err != nil {
		return value, true, fmt.Errorf("property %q: cannot convert %T to %s: %w", key, raw, target, err)
	}
	cv := reflect.ValueOf(converted)
	if !cv.IsValid() || !cv.Type().ConvertibleTo(target) {
		return value, true, fmt.Errorf("property %q: converted value %T is not %s", key, converted, target)
	}
	return cv.Convert(target).Interface().(T), true, nil
}
