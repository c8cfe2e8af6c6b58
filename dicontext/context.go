// Package dicontext carries a [di.Scope] on a [context.Context] and resolves
// services from it.
package dicontext

import (
	"context"

	"github.com/sectrean/di-chain"
	"github.com/sectrean/di-chain/internal/errors"
)

type scopeContextKey struct{}

// WithScope returns a new [context.Context] that carries the provided [di.Scope].
func WithScope(ctx context.Context, s di.Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, s)
}

// Scope returns the [di.Scope] stored on the [context.Context], if present.
func Scope(ctx context.Context) di.Scope {
	if s, ok := ctx.Value(scopeContextKey{}).(di.Scope); ok {
		return s
	}
	return nil
}

// Resolve a service of type Service from the [di.Scope] stored on the
// [context.Context].
func Resolve[Service any](ctx context.Context) (Service, error) {
	var val Service

	s := Scope(ctx)
	if s == nil {
		return val, errors.Errorf("resolve %s from context: scope not found on context", di.TypeOf[Service]())
	}

	val, err := di.Resolve[Service](ctx, s)
	return val, errors.Wrap(err, "resolve from context")
}

// MustResolve resolves a service of the given type from the [di.Scope] stored on the
// [context.Context].
func MustResolve[Service any](ctx context.Context) Service {
	val, err := Resolve[Service](ctx)
	if err != nil {
		panic(err)
	}
	return val
}

// TryResolve resolves a service of type Service from the [di.Scope] stored on the
// [context.Context], if it is available.
func TryResolve[Service any](ctx context.Context) (Service, bool, error) {
	var val Service

	s := Scope(ctx)
	if s == nil {
		return val, false, errors.Errorf("try resolve %s from context: scope not found on context", di.TypeOf[Service]())
	}

	val, found, err := di.TryResolve[Service](ctx, s)
	return val, found, errors.Wrap(err, "try resolve from context")
}
