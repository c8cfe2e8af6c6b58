package di

import (
	"context"
	"reflect"

	"github.com/sectrean/di-chain/internal/errors"
)

// WithService registers the provided function or value with a new Container
// when calling [NewContainer] or [Container.NewScope].
//
// If a function is provided, it will be called to create the service when resolved.
//
// This function can take any number of arguments which will also be resolved from the Container.
// A slice argument []T receives every service registered as T.
// The function may also accept a [context.Context] or [di.Scope].
//
// The function must return a service, or the service and an error.
// The service will be registered as the return type of the function (struct, pointer, or interface).
//
// If the resolved service implements [Closer], or a compatible Close method signature,
// it will be closed when the Container is closed.
//
// If a value is provided, it will be returned as the service when resolved.
// The value can be a struct or pointer.
// (It will be registered as the actual type even if the the variable was declared as an interface.)
//
// Available options:
//   - [Lifetime] is used to specify how services are created when resolved.
//   - [As] and [AsKey] register an alias for a service.
//   - [WithCloseFunc] specifies a function to be called when the service is closed.
//   - [IgnoreCloser] specifies that the service should not be closed by the Container.
//   - [WithCloser] specifies that the service should be closed by the Container.
//     This is the default for function services. Value services will not be closed by default.
func WithService(funcOrValue any, opts ...ServiceOption) ContainerOption {
	// A single WithService function for both function and value services
	// is harder to misuse than separate functions:
	//
	// WithService(NewService) // This works as a func
	// WithService(NewService()) // This works as a value

	return newContainerOption(orderService, func(c *Container) error {
		if isNil(funcOrValue) {
			return errors.New("with service: funcOrValue is nil")
		}

		if _, ok := funcOrValue.(ServiceOption); ok {
			return errors.Errorf("with service %T: unexpected ServiceOption as funcOrValue", funcOrValue)
		}

		var svc service
		var err error
		if reflect.TypeOf(funcOrValue).Kind() == reflect.Func {
			svc, err = newFuncService(c, funcOrValue, opts...)
		} else {
			svc, err = newValueService(c, funcOrValue, opts...)
		}

		if err != nil {
			return errors.Wrapf(err, "with service %T", funcOrValue)
		}

		c.register(svc)
		return nil
	})
}

// FactoryFunc creates a service registered with [WithFactory].
//
// deps holds the resolved dependencies declared with [DependsOn], in order.
type FactoryFunc func(ctx context.Context, deps []any) (any, error)

// WithFactory registers a factory function for the service key.
//
// Use WithFactory when the service is identified by an explicit key, such as
// [Named] or [Generic], rather than by a Go type.
// Dependencies are declared with [DependsOn].
//
// Available options:
//   - [Lifetime], [DependsOn], [AsKey], [WithCloseFunc], [IgnoreCloser], [WithCloser].
func WithFactory(key TypeKey, fn FactoryFunc, opts ...ServiceOption) ContainerOption {
	return newContainerOption(orderService, func(c *Container) error {
		if fn == nil {
			return errors.Errorf("with factory %s: fn is nil", key)
		}

		svc, err := newFactoryService(c, key, fn, opts...)
		if err != nil {
			return errors.Wrapf(err, "with factory %s", key)
		}

		c.register(svc)
		return nil
	})
}

func validateServiceKey(key TypeKey) error {
	switch {
	case key.IsZero():
		return errors.New("service key is empty")
	case key.IsCollection():
		return errors.New("invalid service type")
	case key.kind == paramKey:
		return errors.New("type parameter cannot be a service type")
	}

	// These are the only special types used by the Container.
	for _, special := range []TypeKey{keyContext, keyScope, keyError} {
		if key.Equal(special) {
			return errors.New("invalid service type")
		}
	}

	return nil
}

func validateServiceType(t reflect.Type) error {
	switch t {
	case typeContext, typeScope, typeError:
		return errors.New("invalid service type")
	}

	switch t.Kind() {
	case reflect.Interface,
		reflect.Ptr,
		reflect.Struct,
		reflect.Map,
		reflect.String:
		return nil
	}

	return errors.New("invalid service type")
}

// ServiceOption can be used when calling [WithService], [WithFactory], or [WithGenericService].
//
// Available options:
//   - [Lifetime] specifies how services are created when resolved.
//   - [As] and [AsKey] register an alias for a service.
//   - [DependsOn] declares dependencies of a factory or generic service.
//   - [WithCloseFunc] specifies a function to be called when the service is closed.
//   - [IgnoreCloser] specifies that the service should not be closed by the Container.
//   - [WithCloser] specifies that the service should be closed by the Container.
type ServiceOption interface {
	applyService(s service) error
}

type serviceOption func(service) error

func (o serviceOption) applyService(s service) error {
	return o(s)
}

// As registers an alias for a service, usually an interface the service implements.
func As[T any]() ServiceOption {
	alias := reflect.TypeFor[T]()

	return serviceOption(func(s service) error {
		if ts, ok := s.(typedService); ok && !ts.Type().AssignableTo(alias) {
			return errors.Errorf("as %s: type %s not assignable to %s", alias, ts.Type(), alias)
		}

		return errors.Wrapf(s.addAlias(keyOfType(alias)), "as %s", alias)
	})
}

// AsKey registers an additional service key for a service.
//
// An open generic service may only be aliased by an open key with the same arity.
func AsKey(key TypeKey) ServiceOption {
	return serviceOption(func(s service) error {
		return errors.Wrapf(s.addAlias(key), "as key %s", key)
	})
}

// DependsOn declares the dependencies passed to a [FactoryFunc] or [GenericFunc].
//
// Keys may contain [Param] placeholders in a generic registration.
// Function services infer their dependencies from their parameters.
func DependsOn(keys ...TypeKey) ServiceOption {
	return serviceOption(func(s service) error {
		ds, ok := s.(declaredDepsService)
		if !ok {
			return errors.New("depends on: dependencies are inferred from function parameters")
		}

		for _, key := range keys {
			if err := key.validateParams(); err != nil {
				return errors.Wrapf(err, "depends on %s", key)
			}
		}

		ds.addDependencies(keys)
		return nil
	})
}

// service provides information about a registration and how to create it.
type service interface {
	// Key returns the primary key the service is registered as.
	Key() TypeKey

	// Aliases returns the additional keys this service can be resolved as.
	Aliases() []TypeKey
	addAlias(TypeKey) error

	// Lifetime returns the lifetime of the service.
	Lifetime() Lifetime
	setLifetime(Lifetime) error

	// Scope returns the Container the service was registered with.
	Scope() *Container

	// Dependencies returns the keys of the services this service depends on
	// when resolved as the closed key.
	Dependencies(key TypeKey) []TypeKey

	// New uses the dependencies to create a new instance of the service.
	New(ctx context.Context, key TypeKey, deps []any) (any, error)

	// CloserFor returns a Closer for the service instance, if it needs to be closed.
	CloserFor(val any) Closer
	setCloserFactory(closerFactory)
}

// typedService is implemented by services backed by a Go type.
type typedService interface {
	Type() reflect.Type
}

// declaredDepsService is implemented by services whose dependencies are declared with DependsOn.
type declaredDepsService interface {
	addDependencies([]TypeKey)
}

// serviceBase holds the registration fields shared by every service kind.
type serviceBase struct {
	key           TypeKey
	aliases       []TypeKey
	lifetime      Lifetime
	scope         *Container
	closerFactory closerFactory
}

func (s *serviceBase) Key() TypeKey {
	return s.key
}

func (s *serviceBase) Aliases() []TypeKey {
	return s.aliases
}

func (s *serviceBase) addAlias(alias TypeKey) error {
	if err := validateServiceKey(alias); err != nil {
		return err
	}
	if alias.IsOpen() != s.key.IsOpen() || (s.key.IsOpen() && alias.Arity() != s.key.Arity()) {
		return errors.Errorf("alias %s does not match the generic shape of %s", alias, s.key)
	}

	s.aliases = append(s.aliases, alias)
	return nil
}

func (s *serviceBase) Lifetime() Lifetime {
	return s.lifetime
}

func (s *serviceBase) setLifetime(l Lifetime) error {
	if l > Scoped {
		return errors.Errorf("invalid lifetime %s", l)
	}

	s.lifetime = l
	return nil
}

func (s *serviceBase) Scope() *Container {
	return s.scope
}

func (s *serviceBase) CloserFor(val any) Closer {
	if isNil(val) || s.closerFactory == nil {
		return nil
	}

	return s.closerFactory(val)
}

func (s *serviceBase) setCloserFactory(cf closerFactory) {
	s.closerFactory = cf
}

// serviceKeys returns every key a service is registered as.
func serviceKeys(svc service) []TypeKey {
	return append([]TypeKey{svc.Key()}, svc.Aliases()...)
}

func applyServiceOptions(svc service, opts []ServiceOption) error {
	return applyOptions(opts, func(opt ServiceOption) error {
		return opt.applyService(svc)
	})
}
