package container

import "fmt"

// Lifetime defines how long a constructed service lives inside a Provider.
type Lifetime string

const (
	// LifetimeTransient creates a new instance every time the service is resolved.
	LifetimeTransient Lifetime = "transient"

	// LifetimeSingleton creates one instance on first resolution and reuses it
	// for the lifetime of the Provider.
	LifetimeSingleton Lifetime = "singleton"
)

// String returns the string representation of the lifetime.
func (l Lifetime) String() string {
	return string(l)
}

// IsValid reports whether l is one of the defined lifetimes.
func (l Lifetime) IsValid() bool {
	switch l {
	case LifetimeTransient, LifetimeSingleton:
		return true
	default:
		return false
	}
}

// ParseLifetime parses a string into a Lifetime.
func ParseLifetime(s string) (Lifetime, error) {
	l := Lifetime(s)
	if !l.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidLifetime, s)
	}
	return l, nil
}
