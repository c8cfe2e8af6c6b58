package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/sectrean/di-chain/internal/errors"
)

func resolveKey(
	ctx context.Context,
	scope *Container,
	key TypeKey,
	visitor *resolveVisitor,
) (any, error) {
	if key.IsCollection() {
		return resolveCollection(ctx, scope, key.Elem(), visitor)
	}

	val, found, err := resolveOptional(ctx, scope, key, visitor)
	if err == nil && !found {
		return nil, ErrTypeNotRegistered
	}

	return val, err
}

// resolveOptional resolves a single key. found is false when neither the scope
// chain nor the fallback knows the key.
func resolveOptional(
	ctx context.Context,
	scope *Container,
	key TypeKey,
	visitor *resolveVisitor,
) (val any, found bool, err error) {
	if key.IsCollection() {
		val, err = resolveCollection(ctx, scope, key.Elem(), visitor)
		return val, true, err
	}

	svc := scope.lookupService(key)
	if svc == nil {
		return resolveFallback(ctx, scope, key)
	}

	val, err = resolveService(ctx, scope, key, svc, visitor)
	return val, true, err
}

// resolveFallback delegates a key that is not registered anywhere in the
// scope chain. The fallback's result is returned as-is.
func resolveFallback(ctx context.Context, scope *Container, key TypeKey) (any, bool, error) {
	fallback, err := scope.fallback()
	if err != nil {
		return nil, false, err
	}
	if fallback == nil {
		return nil, false, nil
	}

	val, err := fallback.Resolve(ctx, key)
	scope.observer.FallbackResolved(key, err)

	if err != nil {
		return nil, true, err
	}
	if val == nil {
		return nil, false, nil
	}

	return val, true, nil
}

// resolveCollection resolves every service registered for the element key.
//
// The local registrations win: the fallback is only asked when there are none.
// There is one element per registration, including nil results.
// An empty collection is not an error.
func resolveCollection(
	ctx context.Context,
	scope *Container,
	elem TypeKey,
	visitor *resolveVisitor,
) ([]any, error) {
	svcs := scope.lookupServices(elem)
	if len(svcs) == 0 {
		return resolveFallbackCollection(ctx, scope, elem)
	}

	vals := make([]any, 0, len(svcs))
	for _, svc := range svcs {
		val, err := resolveService(ctx, scope, elem, svc, visitor)
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}

	return vals, nil
}

func resolveFallbackCollection(ctx context.Context, scope *Container, elem TypeKey) ([]any, error) {
	fallback, err := scope.fallback()
	if err != nil {
		return nil, err
	}
	if fallback == nil {
		return []any{}, nil
	}

	vals, err := fallback.ResolveAll(ctx, elem)
	if errors.Is(err, errors.ErrUnsupported) {
		// Wrap the single service, if the fallback has one
		val, found, singleErr := resolveFallback(ctx, scope, elem)
		if errors.Is(singleErr, ErrTypeNotRegistered) || (singleErr == nil && !found) {
			return []any{}, nil
		}
		if singleErr != nil {
			return nil, singleErr
		}

		return []any{val}, nil
	}
	scope.observer.FallbackResolved(CollectionOf(elem), err)

	if err != nil {
		return nil, err
	}
	if vals == nil {
		vals = []any{}
	}

	return vals, nil
}

func resolveService(
	ctx context.Context,
	scope *Container,
	key TypeKey,
	svc service,
	visitor *resolveVisitor,
) (any, error) {
	// Singletons belong to the Container the service is registered with.
	// Scoped and Transient services belong to the current scope.
	lifetime := svc.Lifetime()
	if lifetime == Singleton {
		scope = svc.Scope()
	}

	// Aliases share the instance of the service they are registered for
	instKey := instanceKey(svc, key)

	// For Singleton or Scoped services, we store the result.
	// See if this service has already been resolved.
	if lifetime != Transient {
		if res, ok := scope.cache.load(svc, instKey); ok {
			return res.val, res.err
		}
	}

	// Throw an error if we've already visited this service
	if !visitor.Enter(svc, instKey) {
		return nil, errors.Wrap(ErrDependencyCycle, visitor.Trail(key))
	}
	defer visitor.Leave(svc, instKey)

	// Recursively resolve dependencies
	deps := svc.Dependencies(key)
	depVals := make([]any, len(deps))
	for i, depKey := range deps {
		switch {
		case depKey.Equal(keyContext):
			depVals[i] = ctx

		case depKey.Equal(keyScope):
			injected, ready := newInjectedScope(key, scope)
			defer ready()
			depVals[i] = injected

		default:
			val, err := resolveKey(ctx, scope, depKey, visitor)
			if err != nil {
				// Stop at the first error
				return nil, errors.Wrapf(err, "dependency %s", depKey)
			}
			depVals[i] = val
		}
	}

	create := func() (any, error) {
		return scope.create(ctx, key, svc, depVals)
	}

	if lifetime == Transient {
		return create()
	}

	// The cache runs create at most once, even if another goroutine resolved
	// the same dependencies concurrently. The losing goroutine's work is dropped.
	res, _ := scope.cache.getOrCreate(svc, instKey, create)
	return res.val, res.err
}

// instanceKey returns the key an instance is stored under: the registered key
// for a closed service, or the instantiation of the registered family for an
// open generic service.
func instanceKey(svc service, key TypeKey) TypeKey {
	primary := svc.Key()
	if !primary.IsOpen() {
		return primary
	}

	for _, k := range serviceKeys(svc) {
		if args, ok := k.Matches(key); ok {
			return primary.instantiate(args)
		}
	}

	return key
}

// create calls the service constructor and tracks the instance for closing.
func (c *Container) create(ctx context.Context, key TypeKey, svc service, deps []any) (any, error) {
	start := time.Now()
	val, err := svc.New(ctx, key, deps)
	elapsed := time.Since(start)

	c.observer.ServiceCreated(key, svc.Lifetime(), elapsed, err)

	if err != nil {
		return val, err
	}

	// Values are tracked when they are registered
	if _, ok := svc.(*valueService); !ok {
		c.tracker.track(svc.CloserFor(val))
	}

	c.logger.DebugContext(ctx, "service created",
		slog.String("scope_id", c.id.String()),
		slog.String("service", key.String()),
		slog.String("lifetime", svc.Lifetime().String()),
		slog.Duration("elapsed", elapsed),
	)

	return val, nil
}
