package di

import "fmt"

// Lifetime specifies how services are created when resolved.
//
// Available lifetimes:
//   - [Singleton] specifies that a service is created once and subsequent requests return the same instance.
//   - [Transient] specifies that a service is created for each request.
//   - [Scoped] specifies that a service is created once per scope.
type Lifetime uint8

const (
	// Singleton specifies that a service is created once and subsequent requests to resolve return the same instance.
	//
	// The instance is owned by the Container the service was registered with
	// and is shared by every child scope.
	//
	// This is the default lifetime for services.
	Singleton Lifetime = iota

	// Transient specifies that a service is created for each request.
	Transient

	// Scoped specifies that a service is created once per scope.
	//
	// A Scoped service resolved from the root Container behaves like a Singleton.
	Scoped
)

// WithLifetime is used to configure the lifetime of a service when calling [WithService],
// [WithFactory], or [WithGenericService].
//
// Example:
//
//	c, err := di.NewContainer(
//		di.WithService(NewService, di.WithLifetime(di.Transient)),
//		// Lifetime can also be used directly as an option
//		di.WithService(NewService, di.Transient),
//	)
func WithLifetime(lifetime Lifetime) ServiceOption {
	return lifetime
}

func (l Lifetime) applyService(s service) error {
	return s.setLifetime(l)
}

var _ ServiceOption = Singleton

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "Singleton"
	case Transient:
		return "Transient"
	case Scoped:
		return "Scoped"
	default:
		return fmt.Sprintf("Unknown Lifetime %d", l)
	}
}
