package di

import (
	"context"
	"reflect"

	"github.com/sectrean/di-chain/internal/errors"
)

// funcService is a ConcreteType registration: a constructor function whose
// parameters are its dependencies.
type funcService struct {
	serviceBase
	t      reflect.Type
	fn     reflect.Value
	params []reflect.Type
	deps   []TypeKey
}

func newFuncService(scope *Container, fn any, opts ...ServiceOption) (*funcService, error) {
	fnType := reflect.TypeOf(fn)

	// Get the return type
	var t reflect.Type
	switch {
	case fnType.NumOut() == 1:
		t = fnType.Out(0)
	case fnType.NumOut() == 2 && fnType.Out(1) == typeError:
		t = fnType.Out(0)
	default:
		return nil, errors.New("function must return Service or (Service, error)")
	}

	if err := validateServiceType(t); err != nil {
		return nil, err
	}

	// Get the dependencies
	params := make([]reflect.Type, fnType.NumIn())
	deps := make([]TypeKey, fnType.NumIn())
	for i := range fnType.NumIn() {
		params[i] = fnType.In(i)
		deps[i] = keyOfType(params[i])
	}

	svc := &funcService{
		serviceBase: serviceBase{
			key:           keyOfType(t),
			scope:         scope,
			closerFactory: getCloser,
		},
		t:      t,
		fn:     reflect.ValueOf(fn),
		params: params,
		deps:   deps,
	}

	if err := applyServiceOptions(svc, opts); err != nil {
		return nil, err
	}

	return svc, nil
}

func (s *funcService) Type() reflect.Type {
	return s.t
}

func (s *funcService) Dependencies(TypeKey) []TypeKey {
	return s.deps
}

// IsVariadic returns true if the last parameter is variadic.
// Registration of a variadic dependency is optional.
func (s *funcService) IsVariadic() bool {
	return s.fn.Type().IsVariadic()
}

func (s *funcService) New(_ context.Context, _ TypeKey, deps []any) (any, error) {
	in := make([]reflect.Value, len(deps))
	for i, dep := range deps {
		arg, err := argValue(s.params[i], dep)
		if err != nil {
			return nil, errors.Wrapf(err, "dependency %s", s.deps[i])
		}
		in[i] = arg
	}

	var out []reflect.Value
	if s.IsVariadic() {
		out = s.fn.CallSlice(in)
	} else {
		out = s.fn.Call(in)
	}

	// Extract the return value and error, if any
	val := out[0].Interface()

	var err error
	if len(out) == 2 {
		err, _ = out[1].Interface().(error)
	}

	return val, err
}

func (s *funcService) String() string {
	return s.fn.Type().String()
}

var _ service = (*funcService)(nil)
var _ typedService = (*funcService)(nil)
