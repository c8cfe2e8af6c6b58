package di

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sectrean/di-chain/internal/errors"
)

// Observer receives notifications about Container activity.
//
// Observers are called synchronously and must be safe for concurrent use.
// See the diprom package for a Prometheus implementation.
type Observer interface {
	// ServiceCreated is called after a constructor, factory, or value returned.
	ServiceCreated(key TypeKey, lifetime Lifetime, elapsed time.Duration, err error)

	// FallbackResolved is called after a key was delegated to the fallback.
	FallbackResolved(key TypeKey, err error)

	// ScopeOpened is called when a Container or child scope is created.
	ScopeOpened(id uuid.UUID, root bool)

	// ScopeClosed is called after a Container released its services.
	ScopeClosed(id uuid.UUID, released int, err error)
}

// WithObserver sets the [Observer] notified about the Container activity.
// Child scopes inherit the observer of their parent.
func WithObserver(o Observer) ContainerOption {
	return newContainerOption(orderConfig, func(c *Container) error {
		if isNil(o) {
			return errors.New("with observer: observer is nil")
		}

		c.observer = o
		return nil
	})
}

// WithLogger sets the logger used for Container diagnostics.
// Child scopes inherit the logger of their parent.
//
// By default, nothing is logged.
func WithLogger(logger *slog.Logger) ContainerOption {
	return newContainerOption(orderConfig, func(c *Container) error {
		if logger == nil {
			return errors.New("with logger: logger is nil")
		}

		c.logger = logger
		return nil
	})
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type nopObserver struct{}

func (nopObserver) ServiceCreated(TypeKey, Lifetime, time.Duration, error) {}
func (nopObserver) FallbackResolved(TypeKey, error)                         {}
func (nopObserver) ScopeOpened(uuid.UUID, bool)                             {}
func (nopObserver) ScopeClosed(uuid.UUID, int, error)                       {}

var _ Observer = nopObserver{}
