package container

import "errors"

// Static errors for the container package
var (
	ErrTypeNil              = errors.New("container: type is nil")
	ErrConstructorNil       = errors.New("container: constructor is nil")
	ErrInvalidLifetime      = errors.New("container: invalid lifetime")
	ErrServiceNotRegistered = errors.New("container: service not registered")
	ErrCircularDependency   = errors.New("container: circular dependency detected")
	ErrServiceWrongType     = errors.New("container: constructed value does not satisfy registered type")
	ErrDigContainerNil      = errors.New("container: dig container is nil")
)
