package di

import (
	"context"
	"sync"

	"github.com/sectrean/di-chain/internal/errors"
)

// Fallback is a secondary resolver consulted when a type is not registered
// with the Container or any of its parents.
//
// Only Resolve is required. Fallbacks that cannot resolve collections or create
// scopes return [errors.ErrUnsupported] from ResolveAll or NewScope, and the
// Container degrades:
//   - without ResolveAll, a collection request wraps the result of Resolve.
//   - without NewScope, child scopes share the parent's fallback.
//
// Use [FallbackFunc] to adapt a plain function and [ContainerFallback] to chain
// another Container.
type Fallback interface {
	// Resolve returns the service for the key.
	// Returning (nil, nil) means the key is not known to the fallback.
	Resolve(ctx context.Context, key TypeKey) (any, error)

	// ResolveAll returns every service registered for the element key.
	ResolveAll(ctx context.Context, key TypeKey) ([]any, error)

	// NewScope returns a fallback bound to a new child scope.
	//
	// If the returned Fallback implements [Closer], or a compatible Close method,
	// it is closed together with the Container scope that requested it.
	NewScope() (Fallback, error)
}

// WithFallback sets the [Fallback] used when a type is not registered.
//
// When used with [Container.NewScope], it replaces the fallback the scope
// would otherwise derive from its parent.
func WithFallback(f Fallback) ContainerOption {
	return newContainerOption(orderConfig, func(c *Container) error {
		if isNil(f) {
			return errors.New("with fallback: fallback is nil")
		}

		c.fallbackProvider = f
		return nil
	})
}

// FallbackFunc adapts a function to a [Fallback] that supports neither
// collections nor scopes.
type FallbackFunc func(ctx context.Context, key TypeKey) (any, error)

// Resolve calls f.
func (f FallbackFunc) Resolve(ctx context.Context, key TypeKey) (any, error) {
	return f(ctx, key)
}

// ResolveAll is not supported.
func (FallbackFunc) ResolveAll(context.Context, TypeKey) ([]any, error) {
	return nil, errors.ErrUnsupported
}

// NewScope is not supported.
func (FallbackFunc) NewScope() (Fallback, error) {
	return nil, errors.ErrUnsupported
}

var _ Fallback = FallbackFunc(nil)

// ContainerFallback returns a [Fallback] that resolves from another Container.
//
// Every capability is supported: collections resolve from the Container and
// child scopes of the chained Container are created with
// [Container.NewScope] and closed with the requesting scope.
func ContainerFallback(c *Container) Fallback {
	return containerFallback{c: c}
}

type containerFallback struct {
	c *Container
}

func (f containerFallback) Resolve(ctx context.Context, key TypeKey) (any, error) {
	val, found, err := f.c.TryResolve(ctx, key)
	if !found {
		return nil, err
	}

	return val, err
}

func (f containerFallback) ResolveAll(ctx context.Context, key TypeKey) ([]any, error) {
	val, err := f.c.Resolve(ctx, CollectionOf(key))
	if err != nil {
		return nil, err
	}

	vals, _ := val.([]any)
	return vals, nil
}

func (f containerFallback) NewScope() (Fallback, error) {
	scope, err := f.c.NewScope()
	if err != nil {
		return nil, err
	}

	return containerFallback{c: scope}, nil
}

// Close closes the chained Container.
// Only scopes returned by NewScope are closed by the requesting Container.
func (f containerFallback) Close(ctx context.Context) error {
	return f.c.Close(ctx)
}

// fallbackLink returns the function a Container uses to obtain its fallback handle.
//
// A root Container uses its configured fallback. A child scope asks its
// parent's handle for a new scope once, on first use, so each nesting level
// adds one scope to the fallback chain.
func (c *Container) fallbackLink() func() (Fallback, error) {
	if c.fallbackProvider != nil || c.parent == nil {
		f := c.fallbackProvider
		return func() (Fallback, error) { return f, nil }
	}

	parent := c.parent
	return sync.OnceValues(func() (Fallback, error) {
		parentFallback, err := parent.fallback()
		if err != nil || parentFallback == nil {
			return nil, err
		}

		scoped, err := parentFallback.NewScope()
		if errors.Is(err, errors.ErrUnsupported) {
			// Reuse the parent's fallback without a scope
			return parentFallback, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "new fallback scope")
		}
		if isNil(scoped) {
			return parentFallback, nil
		}

		c.tracker.track(getCloser(scoped))
		return scoped, nil
	})
}
