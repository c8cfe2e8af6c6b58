package di

import (
	"context"
	"reflect"
	"sync/atomic"

	"github.com/sectrean/di-chain/internal/errors"
)

// Scope allows you to resolve services.
//
// A Scope can be injected into functions to allow them to resolve services. However,
// it cannot be used within the constructor function. It can be stored in a struct or
// used in a closure after the constructor function has returned.
//
// Scope is implemented by *Container.
type Scope interface {
	// Contains returns true if the Scope has a service registered for the key.
	Contains(key TypeKey) bool

	// Resolve returns the service for the key from the Scope.
	Resolve(ctx context.Context, key TypeKey) (any, error)

	// TryResolve returns the service for the key if the Scope can provide it.
	TryResolve(ctx context.Context, key TypeKey) (any, bool, error)
}

// Resolve a service of type T from the [Scope].
//
// If T is a slice type []E, every service registered as E is returned.
func Resolve[T any](ctx context.Context, s Scope) (T, error) {
	val, err := s.Resolve(ctx, TypeOf[T]())
	if err != nil {
		var zero T
		return zero, err
	}

	return convert[T](val)
}

// MustResolve resolves a service of type T from the [Scope].
//
// If the service cannot be resolved, this function will panic.
func MustResolve[T any](ctx context.Context, s Scope) T {
	val, err := Resolve[T](ctx, s)
	if err != nil {
		panic(err)
	}
	return val
}

// ResolveAll resolves every service registered as T from the [Scope].
//
// The result is empty, not an error, if no service is registered.
func ResolveAll[T any](ctx context.Context, s Scope) ([]T, error) {
	return Resolve[[]T](ctx, s)
}

// TryResolve resolves a service of type T from the [Scope] if it is available.
//
// found is false, with no error, if the type is not registered.
func TryResolve[T any](ctx context.Context, s Scope) (val T, found bool, err error) {
	anyVal, found, err := s.TryResolve(ctx, TypeOf[T]())
	if err != nil || !found {
		return val, found, err
	}

	val, err = convert[T](anyVal)
	return val, found, err
}

// convert asserts a resolved value to T. Collections are resolved as []any
// and are copied into a slice of T.
func convert[T any](val any) (T, error) {
	var zero T
	if val == nil {
		return zero, nil
	}

	if typed, ok := val.(T); ok {
		return typed, nil
	}

	t := reflect.TypeFor[T]()
	if vals, ok := val.([]any); ok && t.Kind() == reflect.Slice {
		slice, err := argValue(t, vals)
		if err != nil {
			return zero, err
		}

		return slice.Interface().(T), nil
	}

	return zero, errors.Errorf("resolved %T is not assignable to %s", val, t)
}

func newInjectedScope(key TypeKey, s Scope) (*injectedScope, func()) {
	wrapper := &injectedScope{
		key:   key,
		scope: s,
	}

	return wrapper, wrapper.setReady
}

// injectedScope wraps a Container to be injected as a Scope dependency.
type injectedScope struct {
	// key is the service the Scope is getting injected into
	key   TypeKey
	scope Scope
	ready atomic.Bool
}

func (s *injectedScope) setReady() {
	s.ready.Store(true)
}

func (s *injectedScope) Contains(key TypeKey) bool {
	return s.scope.Contains(key)
}

func (s *injectedScope) Resolve(ctx context.Context, key TypeKey) (any, error) {
	if err := s.checkReady(key); err != nil {
		return nil, err
	}

	return s.scope.Resolve(ctx, key)
}

func (s *injectedScope) TryResolve(ctx context.Context, key TypeKey) (any, bool, error) {
	if err := s.checkReady(key); err != nil {
		return nil, false, err
	}

	return s.scope.TryResolve(ctx, key)
}

func (s *injectedScope) checkReady(key TypeKey) error {
	if s.ready.Load() {
		return nil
	}

	return errors.Errorf(
		"resolve %s: "+
			"resolve not supported on di.Scope while resolving %s: "+
			"the scope must be stored and used later",
		key, s.key,
	)
}

var _ Scope = (*injectedScope)(nil)
