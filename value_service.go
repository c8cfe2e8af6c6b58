package di

import (
	"context"
	"reflect"
)

// valueService is an Instance registration: a value supplied up front.
type valueService struct {
	serviceBase
	t   reflect.Type
	val any
}

func newValueService(scope *Container, val any, opts ...ServiceOption) (*valueService, error) {
	t := reflect.TypeOf(val)
	if err := validateServiceType(t); err != nil {
		return nil, err
	}

	// The container is not responsible for closing values by default.
	svc := &valueService{
		serviceBase: serviceBase{
			key:   keyOfType(t),
			scope: scope,
		},
		t:   t,
		val: val,
	}

	if err := applyServiceOptions(svc, opts); err != nil {
		return nil, err
	}

	return svc, nil
}

func (s *valueService) Type() reflect.Type {
	return s.t
}

func (*valueService) setLifetime(Lifetime) error {
	// Values are always singletons.
	return nil
}

func (*valueService) Dependencies(TypeKey) []TypeKey {
	return nil
}

func (s *valueService) New(context.Context, TypeKey, []any) (any, error) {
	return s.val, nil
}

func (s *valueService) String() string {
	return s.t.String()
}

var _ service = (*valueService)(nil)
var _ typedService = (*valueService)(nil)
