package di

import "context"

// factoryService is a Factory registration: a function of its declared
// dependencies, registered for an explicit key.
type factoryService struct {
	serviceBase
	fn   FactoryFunc
	deps []TypeKey
}

func newFactoryService(scope *Container, key TypeKey, fn FactoryFunc, opts ...ServiceOption) (*factoryService, error) {
	if err := validateServiceKey(key); err != nil {
		return nil, err
	}
	if key.IsOpen() {
		return nil, errOpenKeyNeedsGeneric
	}

	svc := &factoryService{
		serviceBase: serviceBase{
			key:           key,
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

func (s *factoryService) addDependencies(keys []TypeKey) {
	s.deps = append(s.deps, keys...)
}

func (s *factoryService) Dependencies(TypeKey) []TypeKey {
	return s.deps
}

func (s *factoryService) New(ctx context.Context, _ TypeKey, deps []any) (any, error) {
	return s.fn(ctx, deps)
}

func (s *factoryService) String() string {
	return "factory " + s.key.String()
}

var _ service = (*factoryService)(nil)
var _ declaredDepsService = (*factoryService)(nil)
