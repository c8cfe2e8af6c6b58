package di

import (
	"github.com/sectrean/di-chain/internal/errors"
)

var (
	// ErrTypeNotRegistered is returned when a type is not registered with the
	// Container, its parents, or its fallback.
	ErrTypeNotRegistered = errors.New("type not registered")

	// ErrDependencyCycle is returned when a service depends on itself, directly or indirectly.
	ErrDependencyCycle = errors.New("dependency cycle detected")

	// ErrContainerClosed is returned when a closed Container is used.
	ErrContainerClosed = errors.New("container closed")

	errOpenKeyNeedsGeneric = errors.New("open generic keys must be registered with WithGenericService")
)
