package plugging

import (
	"errors"
)

// Plugging errors
var (
	// Argument errors
	ErrModuleNameEmpty      = errors.New("module name is empty")
	ErrInterfaceTypeNil     = errors.New("interface type is nil")
	ErrFactoryNil           = errors.New("service factory is nil")
	ErrDecoratorNil         = errors.New("service decorator is nil")
	ErrContainerNil         = errors.New("container is nil")
	ErrOptionsNil           = errors.New("plugging options are nil")
	ErrProviderNil          = errors.New("pluggable service provider is nil")
	ErrServiceCollectionNil = errors.New("service collection is nil")
	ErrModuleBuilderNil     = errors.New("module builder is nil")
	ErrConfigNil            = errors.New("plugging config is nil")

	// Registration errors
	ErrServiceAlreadyRegistered = errors.New("service already registered for module")
	ErrServiceNotSupported      = errors.New("service is not supported by module")
	ErrServiceIncompatible      = errors.New("service implementation does not satisfy core interface")

	// Resolution errors
	ErrServiceFactoryFailed = errors.New("service factory failed")

	// Operation errors
	ErrOperationSetNameEmpty = errors.New("operation set name is empty")
	ErrOperationNameEmpty    = errors.New("operation name is empty")
	ErrOperationNotSingleBit = errors.New("operation must be a single bit")
	ErrOperationDuplicate    = errors.New("operation defined twice in set")
	ErrUnknownOperation      = errors.New("unknown operation")
)
