package modkit

import "reflect"

// Built is a plain struct with the fields modules care about
type Built struct {
	Name  string
	Ports any
}

// Option mutates build configuration for a module
type Option func(*Built)

// WithName sets a module name used in logs
func WithName(name string) Option {
	return func(b *Built) { b.Name = name }
}

// WithPorts injects ports another module exposes
// the concrete type is owned by the importing module
func WithPorts[T any](p T) Option {
	return func(b *Built) { b.Ports = p }
}

// Build applies opts in order
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	return b
}

// PortsOf pulls T out of a module's Ports, either the bundle itself or one of its exported fields
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	if m == nil || m.Ports() == nil {
		return zero, false
	}
	p := m.Ports()
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf panics when m does not expose T
func MustPortsOf[T any](m Module) T {
	if v, ok := PortsOf[T](m); ok {
		return v
	}
	name := "<nil>"
	if m != nil {
		name = m.Name()
	}
	panic("modkit: requested port not found on module " + name)
}
