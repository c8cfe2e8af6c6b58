package di

import (
	"context"
	"reflect"

	"github.com/sectrean/di-chain/internal/errors"
)

// These are commonly used types.
var (
	typeError   = reflect.TypeFor[error]()
	typeContext = reflect.TypeFor[context.Context]()
	typeScope   = reflect.TypeFor[Scope]()

	keyError   = keyOfType(typeError)
	keyContext = keyOfType(typeContext)
	keyScope   = keyOfType(typeScope)
)

// argValue converts a resolved dependency into an argument of type t.
// Collections are converted element by element.
func argValue(t reflect.Type, val any) (reflect.Value, error) {
	if vals, ok := val.([]any); ok && t.Kind() == reflect.Slice {
		slice := reflect.MakeSlice(t, 0, len(vals))
		for _, v := range vals {
			elem, err := argValue(t.Elem(), v)
			if err != nil {
				return reflect.Value{}, err
			}
			slice = reflect.Append(slice, elem)
		}

		return slice, nil
	}

	if val == nil {
		return reflect.Zero(t), nil
	}
	if !reflect.TypeOf(val).AssignableTo(t) {
		return reflect.Value{}, errors.Errorf("resolved %T is not assignable to %s", val, t)
	}

	return reflect.ValueOf(val), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// Apply functional options and join any errors together.
func applyOptions[O any](opts []O, f func(O) error) error {
	var errs errors.MultiError

	for _, o := range opts {
		errs = errs.Append(f(o))
	}

	return errs.Join()
}
