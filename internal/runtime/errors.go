package runtime

import "errors"

var (
	// ErrNotInitialized is returned when an operation needs an initialized core.
	ErrNotInitialized = errors.New("runtime core is not initialized")
	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("runtime core is already initialized")
	// ErrInvalidState is returned when an operation is not allowed in the current state.
	ErrInvalidState = errors.New("invalid runtime state")
	// ErrDuplicateModule is returned when a module name is reused.
	ErrDuplicateModule = errors.New("module already exists")
	// ErrDuplicateService is returned when a service name is registered twice.
	ErrDuplicateService = errors.New("service already registered")
	// ErrInvalidService is returned for malformed service registrations.
	ErrInvalidService = errors.New("invalid service registration")
	// ErrInvalidConfig is returned when runtime configuration fails validation.
	ErrInvalidConfig = errors.New("invalid runtime config")
)
