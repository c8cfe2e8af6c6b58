package di

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/sectrean/di-chain/internal/errors"
)

// Container is a dependency injection container.
// It is used to resolve services by first resolving their dependencies.
//
// A Container created with [NewContainer] is the root scope. Child scopes are
// created with [Container.NewScope]; they share the registrations and
// Singleton instances of their parents and keep their own Scoped instances.
type Container struct {
	id               uuid.UUID
	parent           *Container
	services         *registry
	cache            *instanceCache
	tracker          disposalTracker
	fallbackProvider Fallback
	fallback         func() (Fallback, error)
	logger           *slog.Logger
	observer         Observer
	closedMu         sync.RWMutex
	closed           bool
}

var _ Scope = (*Container)(nil)

// NewContainer creates a new [Container] with the provided options.
//
// Available options:
//   - [WithService] registers a service with a value or constructor function.
//   - [WithFactory] registers a factory function for an explicit key.
//   - [WithGenericService] registers an open generic service.
//   - [WithModule] applies a group of options.
//   - [WithFallback] sets the resolver used for types that are not registered.
//   - [WithLogger] and [WithObserver] configure diagnostics.
func NewContainer(opts ...ContainerOption) (*Container, error) {
	c := newContainer(nil)

	err := c.applyOptions(opts)
	if err != nil {
		return nil, errors.Wrap(err, "di.NewContainer")
	}

	c.fallback = c.fallbackLink()
	c.observer.ScopeOpened(c.id, true)

	return c, nil
}

func newContainer(parent *Container) *Container {
	c := &Container{
		id:       uuid.New(),
		parent:   parent,
		services: newRegistry(),
		cache:    newInstanceCache(),
		logger:   discardLogger,
		observer: nopObserver{},
	}

	if parent != nil {
		c.logger = parent.logger
		c.observer = parent.observer
	}

	return c
}

// ContainerOption is used to configure a new [Container] when calling [NewContainer]
// or [Container.NewScope].
type ContainerOption interface {
	order() optionOrder
	applyContainer(*Container) error
}

func (c *Container) applyOptions(opts []ContainerOption) error {
	// Flatten any modules before sorting and applying options
	opts = flattenModules(opts)

	// Use stable sort because the registration order of services matters
	slices.SortStableFunc(opts, func(a, b ContainerOption) int {
		return cmp.Compare(a.order(), b.order())
	})

	return applyOptions(opts, func(o ContainerOption) error {
		return o.applyContainer(c)
	})
}

func (c *Container) register(svc service) {
	c.services.register(svc)

	// Values are created up front, so their closers are added on registration
	if vs, ok := svc.(*valueService); ok {
		c.tracker.track(svc.CloserFor(vs.val))
	}
}

// lookupService returns the service used to resolve a single key.
//
// A closed registration anywhere in the scope chain is preferred over an open
// generic registration. Within each pass, the nearest scope wins.
func (c *Container) lookupService(key TypeKey) service {
	for scope := c; scope != nil; scope = scope.parent {
		if svc := scope.services.lookupExact(key); svc != nil {
			return svc
		}
	}

	for scope := c; scope != nil; scope = scope.parent {
		if svc := scope.services.lookupOpen(key); svc != nil {
			return svc
		}
	}

	return nil
}

// lookupServices returns every registration for the key across the scope chain,
// starting with the root so services are in registration order.
func (c *Container) lookupServices(key TypeKey) []service {
	var chain []*Container
	for scope := c; scope != nil; scope = scope.parent {
		chain = append(chain, scope)
	}

	var svcs []service
	for i := len(chain) - 1; i >= 0; i-- {
		svcs = append(svcs, chain[i].services.lookup(key)...)
	}

	return svcs
}

// ID returns the unique id of the Container scope.
func (c *Container) ID() uuid.UUID {
	return c.id
}

// NewScope creates a new [Container] with a child scope.
//
// Services registered with the parent [Container] will be inherited by the child [Container].
// Additional services can be registered with the new scope if needed and they will be isolated from
// the parent and sibling containers.
//
// If the parent has a [Fallback] that supports scopes, the child asks it for a
// scoped fallback the first time the fallback is needed.
//
// Available options:
//   - [WithService] registers a service with a value or a function.
//   - [WithFactory] and [WithGenericService] register services for explicit keys.
//   - [WithFallback] replaces the fallback derived from the parent.
func (c *Container) NewScope(opts ...ContainerOption) (*Container, error) {
	c.closedMu.RLock()
	defer c.closedMu.RUnlock()

	if c.closed {
		return nil, errors.Wrap(ErrContainerClosed, "di.Container.NewScope")
	}

	scope := newContainer(c)

	err := scope.applyOptions(opts)
	if err != nil {
		return nil, errors.Wrap(err, "di.Container.NewScope")
	}

	scope.fallback = scope.fallbackLink()
	scope.observer.ScopeOpened(scope.id, false)

	return scope, nil
}

// Contains returns true if the [Container] or one of its parents has a service
// registered for the key.
//
// The [Fallback] is not consulted.
// For a collection key, the element key is checked.
func (c *Container) Contains(key TypeKey) bool {
	if key.IsCollection() {
		key = key.Elem()
	}

	for scope := c; scope != nil; scope = scope.parent {
		if scope.services.contains(key) {
			return true
		}
	}

	return false
}

// Resolve a service for the given [TypeKey].
//
// The type must be registered with the [Container], or resolvable by the [Fallback].
// A collection key returns []any with every service registered for the element key,
// which may be empty. A registration that produces nil adds a nil element.
//
// This will return an error if the [Container] has been closed.
func (c *Container) Resolve(ctx context.Context, key TypeKey) (any, error) {
	c.closedMu.RLock()
	defer c.closedMu.RUnlock()

	if c.closed {
		return nil, errors.Wrapf(ErrContainerClosed, "di.Container.Resolve %s", key)
	}

	val, err := resolveKey(ctx, c, key, newResolveVisitor())
	if err != nil {
		return val, errors.Wrapf(err, "di.Container.Resolve %s", key)
	}

	return val, nil
}

// TryResolve resolves a service for the given [TypeKey] if it is available.
//
// found is false, with no error, when neither the Container nor the [Fallback]
// knows the key. An error is still returned if the service is registered but
// one of its dependencies cannot be resolved.
func (c *Container) TryResolve(ctx context.Context, key TypeKey) (val any, found bool, err error) {
	c.closedMu.RLock()
	defer c.closedMu.RUnlock()

	if c.closed {
		return nil, false, errors.Wrapf(ErrContainerClosed, "di.Container.TryResolve %s", key)
	}

	val, found, err = resolveOptional(ctx, c, key, newResolveVisitor())
	if err != nil {
		return val, found, errors.Wrapf(err, "di.Container.TryResolve %s", key)
	}

	return val, found, nil
}

// Close the [Container] and the services it created.
//
// Services are closed in the reverse order they were created.
// Singleton services are closed by the Container they were registered with.
// Errors returned from closing services are joined together.
//
// Close will return an error if called more than once.
func (c *Container) Close(ctx context.Context) error {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()

	if c.closed {
		return errors.Wrap(ErrContainerClosed, "di.Container.Close: closed already")
	}
	c.closed = true

	released := c.tracker.len()
	err := c.tracker.releaseAll(ctx)

	c.observer.ScopeClosed(c.id, released, err)
	if err != nil {
		c.logger.WarnContext(ctx, "error closing services",
			slog.String("scope_id", c.id.String()),
			slog.Any("error", err),
		)
	} else {
		c.logger.DebugContext(ctx, "scope closed",
			slog.String("scope_id", c.id.String()),
			slog.Int("released", released),
		)
	}

	return errors.Wrap(err, "di.Container.Close")
}

type optionOrder int8

const (
	orderConfig optionOrder = iota
	orderService
)

func newContainerOption(order optionOrder, fn func(*Container) error) ContainerOption {
	return containerOption{fn: fn, ord: order}
}

type containerOption struct {
	fn  func(*Container) error
	ord optionOrder
}

func (o containerOption) order() optionOrder {
	return o.ord
}

func (o containerOption) applyContainer(c *Container) error {
	return o.fn(c)
}
