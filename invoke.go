package di

import (
	"context"
	"reflect"

	"github.com/sectrean/di-chain/internal/errors"
)

// Invoke calls the given function with parameters resolved from the provided Scope.
//
// The function may take any number of parameters which will be resolved from the container,
// and may return any number of results.
// A slice parameter []T receives every service registered as T.
// An [error] return parameter will be passed along and any other return parameters are ignored.
func Invoke(ctx context.Context, s Scope, fn any) error {
	if fn == nil {
		return errors.New("di.Invoke: fn is nil")
	}

	fnType := reflect.TypeOf(fn)
	fnVal := reflect.ValueOf(fn)

	// Make sure fn is a function
	if fnType.Kind() != reflect.Func {
		return errors.Errorf("di.Invoke %T: fn must be a function", fn)
	}

	// Resolve deps from the Scope
	in := make([]reflect.Value, fnType.NumIn())
	for i := range fnType.NumIn() {
		depType := fnType.In(i)

		var depVal any
		var depErr error

		switch depType {
		case typeContext:
			depVal = ctx
		case typeScope:
			depVal = s
		default:
			depVal, depErr = s.Resolve(ctx, keyOfType(depType))
		}

		if depErr != nil {
			// Stop at the first error
			return errors.Wrapf(depErr, "di.Invoke %T", fn)
		}

		arg, err := argValue(depType, depVal)
		if err != nil {
			return errors.Wrapf(err, "di.Invoke %T: dependency %s", fn, keyOfType(depType))
		}
		in[i] = arg
	}

	// Invoke the function
	var out []reflect.Value
	if fnType.IsVariadic() {
		out = fnVal.CallSlice(in)
	} else {
		out = fnVal.Call(in)
	}

	// Return the first error return value, if any.
	// Don't wrap the error, return it as-is.
	for i := range fnType.NumOut() {
		if fnType.Out(i) == typeError {
			err, _ := out[i].Interface().(error)
			return err
		}
	}

	return nil
}
