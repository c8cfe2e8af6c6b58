package di

import (
	"context"
	"reflect"
	"sync"

	"github.com/sectrean/di-chain/internal/errors"
)

// Closer is used to close a service when closing the Container.
//
// If a resolved service implements Closer, or one of the other compatible function signatures,
// the Close function will be called when the Container that resolved it is closed.
//
// Any of these Close method signatures are supported:
//
//	Close(context.Context) error
//	Close(context.Context)
//	Close() error
//	Close()
//
// See related options:
//   - [IgnoreCloser]
//   - [WithCloser]
//   - [WithCloseFunc]
type Closer interface {
	Close(ctx context.Context) error
}

// WithCloser is used to close a service when the Container is closed.
//
// Value services are not closed by default. To close a value service, use this option.
func WithCloser() ServiceOption {
	return serviceOption(func(s service) error {
		s.setCloserFactory(getCloser)
		return nil
	})
}

// IgnoreCloser is used when you do not want a service that implements Closer, or another
// supported Close function signature, to be closed when the Container is closed.
//
// This is useful when you want to manage the lifecycle of a service outside of the Container.
func IgnoreCloser() ServiceOption {
	return serviceOption(func(s service) error {
		s.setCloserFactory(nil)
		return nil
	})
}

type closerFactory func(val any) Closer

// WithCloseFunc can be used to set a custom function to call for a service when the Container is closed.
//
// This is useful if a service has a method called Shutdown or Stop instead of Close.
//
// Example:
//
//	di.WithCloseFunc(func(ctx context.Context, s *http.Server) error {
//		return s.Shutdown(ctx)
//	})
//
// This option will return an error if the service type is not assignable to T.
func WithCloseFunc[T any](f func(context.Context, T) error) ServiceOption {
	return serviceOption(func(s service) error {
		closerType := reflect.TypeFor[T]()

		if ts, ok := s.(typedService); ok && !ts.Type().AssignableTo(closerType) {
			return errors.Errorf("with close func: service type %s is not assignable to %s",
				ts.Type(), closerType)
		}

		s.setCloserFactory(func(val any) Closer {
			typed, ok := val.(T)
			if !ok {
				return nil
			}

			return closeFunc(func(ctx context.Context) error {
				return f(ctx, typed)
			})
		})
		return nil
	})
}

// getCloser returns the Closer interface if the given value implements it,
// or any of the compatible Close function signatures.
func getCloser(val any) Closer {
	switch c := val.(type) {
	case Closer:
		return c
	case closerWithContextNoError:
		return closerWithContextNoErrorWrapper{c}
	case closerNoContextWithError:
		return closerNoContextWithErrorWrapper{c}
	case closerNoContextNoError:
		return closerNoContextNoErrorWrapper{c}

	default:
		return nil
	}
}

type closerWithContextNoError interface {
	Close(ctx context.Context)
}

type closerNoContextWithError interface {
	Close() error
}

type closerNoContextNoError interface {
	Close()
}

type closerNoContextNoErrorWrapper struct {
	c closerNoContextNoError
}

func (w closerNoContextNoErrorWrapper) Close(context.Context) error {
	w.c.Close()
	return nil
}

type closerWithContextNoErrorWrapper struct {
	c closerWithContextNoError
}

func (w closerWithContextNoErrorWrapper) Close(ctx context.Context) error {
	w.c.Close(ctx)
	return nil
}

type closerNoContextWithErrorWrapper struct {
	c closerNoContextWithError
}

func (w closerNoContextWithErrorWrapper) Close(context.Context) error {
	return w.c.Close()
}

type closeFunc func(context.Context) error

func (f closeFunc) Close(ctx context.Context) error {
	return f(ctx)
}

// disposalTracker records the closers of the instances a Container created
// and closes them in reverse order.
type disposalTracker struct {
	mu      sync.Mutex
	closers []Closer
}

// track records the closer. Nil closers are ignored.
func (t *disposalTracker) track(c Closer) {
	if c == nil {
		return
	}

	t.mu.Lock()
	t.closers = append(t.closers, c)
	t.mu.Unlock()
}

// len returns the number of closers waiting to be released.
func (t *disposalTracker) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.closers)
}

// releaseAll closes every tracked closer in LIFO order, since later services
// may depend on earlier ones. Every closer runs even if some fail.
//
// Closers are released once. Calling releaseAll again does nothing.
func (t *disposalTracker) releaseAll(ctx context.Context) error {
	t.mu.Lock()
	closers := t.closers
	t.closers = nil
	t.mu.Unlock()

	var errs errors.MultiError
	for i := len(closers) - 1; i >= 0; i-- {
		errs = errs.Append(closeSafely(ctx, closers[i]))
	}

	return errs.Join()
}

// closeSafely turns a panic in a closer into an error so the remaining
// closers still run.
func closeSafely(ctx context.Context, c Closer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("close panicked: %v", r)
		}
	}()

	return c.Close(ctx)
}
