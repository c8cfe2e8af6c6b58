package di

import (
	"context"

	"github.com/sectrean/di-chain/internal/errors"
)

// GenericFunc creates a closed instantiation of an open generic service
// registered with [WithGenericService].
//
// typeArgs holds the type arguments of the requested key and deps holds the
// resolved dependencies declared with [DependsOn], after [Param] substitution.
type GenericFunc func(ctx context.Context, typeArgs []TypeKey, deps []any) (any, error)

// WithGenericService registers a constructor for every instantiation of the
// open generic family.
//
// A request for a closed key such as Generic("Repository", TypeOf[User]())
// matches the registration for Open("Repository", 1). Closed registrations of
// the same key are always preferred over the open registration.
//
// Example:
//
//	c, err := di.NewContainer(
//		di.WithGenericService(di.Open("Repository", 1), newRepository,
//			di.DependsOn(di.TypeOf[*sql.DB](), di.Param(0)),
//		),
//	)
//
// Each instantiation is cached separately according to the [Lifetime].
func WithGenericService(open TypeKey, fn GenericFunc, opts ...ServiceOption) ContainerOption {
	return newContainerOption(orderService, func(c *Container) error {
		if fn == nil {
			return errors.Errorf("with generic service %s: fn is nil", open)
		}

		svc, err := newGenericService(c, open, fn, opts...)
		if err != nil {
			return errors.Wrapf(err, "with generic service %s", open)
		}

		c.register(svc)
		return nil
	})
}

type genericService struct {
	serviceBase
	fn   GenericFunc
	deps []TypeKey
}

func newGenericService(scope *Container, open TypeKey, fn GenericFunc, opts ...ServiceOption) (*genericService, error) {
	if !open.IsOpen() || open.Arity() < 1 {
		return nil, errors.New("service key must be an open generic type")
	}

	svc := &genericService{
		serviceBase: serviceBase{
			key:           open,
			scope:         scope,
			closerFactory: getCloser,
		},
		fn: fn,
	}

	if err := applyServiceOptions(svc, opts); err != nil {
		return nil, err
	}

	return svc, nil
}

func (s *genericService) addDependencies(keys []TypeKey) {
	s.deps = append(s.deps, keys...)
}

func (s *genericService) typeArgs(key TypeKey) []TypeKey {
	for _, k := range serviceKeys(s) {
		if args, ok := k.Matches(key); ok {
			return args
		}
	}

	return nil
}

func (s *genericService) Dependencies(key TypeKey) []TypeKey {
	args := s.typeArgs(key)

	deps := make([]TypeKey, len(s.deps))
	for i, dep := range s.deps {
		deps[i] = dep.Substitute(args)
	}

	return deps
}

func (s *genericService) New(ctx context.Context, key TypeKey, deps []any) (any, error) {
	return s.fn(ctx, s.typeArgs(key), deps)
}

func (s *genericService) String() string {
	return "generic " + s.key.String()
}

var _ service = (*genericService)(nil)
var _ declaredDepsService = (*genericService)(nil)
