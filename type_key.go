package di

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/sectrean/di-chain/internal/errors"
)

// TypeKey identifies a service type in the [Container].
//
// Available keys:
//   - [TypeOf] is the key for a Go type.
//   - [Named] is a key with an explicit identity.
//   - [Generic] is a closed instantiation of a generic family, such as Repository[User].
//   - [Open] is an unbound generic family, such as Repository[T]. It is only used for registration.
//   - [Param] refers to a type argument of an open generic registration in its dependency list.
//   - [CollectionOf] requests every registered service of the element type.
//
// TypeKeys are compared by identity. Use [TypeKey.Equal] rather than ==.
type TypeKey struct {
	kind  keyKind
	name  string
	label string
	args  []TypeKey
	n     int
}

type keyKind uint8

const (
	closedKey keyKind = iota
	openKey
	paramKey
	collectionKey
)

// TypeOf returns the [TypeKey] for the Go type T.
//
// Slice types are treated as collections of their element type.
func TypeOf[T any]() TypeKey {
	return keyOfType(reflect.TypeFor[T]())
}

// SliceOf returns the collection [TypeKey] for T. It is the same as TypeOf[[]T]().
func SliceOf[T any]() TypeKey {
	return CollectionOf(TypeOf[T]())
}

func keyOfType(t reflect.Type) TypeKey {
	if t.Kind() == reflect.Slice {
		return CollectionOf(keyOfType(t.Elem()))
	}

	return TypeKey{
		kind:  closedKey,
		name:  qualifiedName(t),
		label: t.String(),
	}
}

// qualifiedName includes the full package path so two packages with the same
// name do not collide.
func qualifiedName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	if t.Kind() == reflect.Pointer {
		return "*" + qualifiedName(t.Elem())
	}
	return t.String()
}

// Named returns a closed [TypeKey] with the given identity.
func Named(id string) TypeKey {
	return TypeKey{
		kind:  closedKey,
		name:  id,
		label: id,
	}
}

// Generic returns the closed instantiation of the generic family genericID
// with the given type arguments.
//
// Arguments may contain [Param] placeholders when used as a dependency of an
// open generic registration.
func Generic(genericID string, args ...TypeKey) TypeKey {
	return TypeKey{
		kind:  closedKey,
		name:  genericID,
		label: genericID,
		args:  args,
	}
}

// Open returns the open generic family genericID with the given number of type parameters.
func Open(genericID string, arity int) TypeKey {
	return TypeKey{
		kind:  openKey,
		name:  genericID,
		label: genericID,
		n:     arity,
	}
}

// Param returns a placeholder for the i-th type argument of an open generic registration.
//
// A negative index is rejected by [DependsOn].
func Param(i int) TypeKey {
	return TypeKey{
		kind: paramKey,
		n:    i,
	}
}

// CollectionOf returns a key that resolves every service registered for elem.
func CollectionOf(elem TypeKey) TypeKey {
	return TypeKey{
		kind: collectionKey,
		args: []TypeKey{elem},
	}
}

// instantiate returns the closed key of an open family for the type arguments.
func (k TypeKey) instantiate(args []TypeKey) TypeKey {
	return TypeKey{
		kind:  closedKey,
		name:  k.name,
		label: k.label,
		args:  args,
	}
}

// IsZero returns true for the zero TypeKey.
func (k TypeKey) IsZero() bool {
	return k.kind == closedKey && k.name == "" && len(k.args) == 0
}

// IsOpen returns true if the key is an open generic family.
func (k TypeKey) IsOpen() bool {
	return k.kind == openKey
}

// IsCollection returns true if the key requests a collection.
func (k TypeKey) IsCollection() bool {
	return k.kind == collectionKey
}

// Elem returns the element key of a collection key.
func (k TypeKey) Elem() TypeKey {
	if k.kind != collectionKey {
		return TypeKey{}
	}
	return k.args[0]
}

// Args returns the type arguments of a closed generic key.
func (k TypeKey) Args() []TypeKey {
	if k.kind != closedKey {
		return nil
	}
	return k.args
}

// Arity returns the number of type parameters of an open key,
// or the number of type arguments of a closed generic key.
func (k TypeKey) Arity() int {
	if k.kind == openKey {
		return k.n
	}
	if k.kind == closedKey {
		return len(k.args)
	}
	return 0
}

// Equal returns true if both keys have the same identity.
func (k TypeKey) Equal(other TypeKey) bool {
	return k.id() == other.id()
}

// Matches returns the type arguments of closed if k is an open generic family
// that closed instantiates.
func (k TypeKey) Matches(closed TypeKey) ([]TypeKey, bool) {
	if k.kind != openKey || closed.kind != closedKey {
		return nil, false
	}
	if k.name != closed.name || k.n != len(closed.args) || k.n == 0 {
		return nil, false
	}
	return closed.args, true
}

// Substitute replaces [Param] placeholders with the given type arguments.
func (k TypeKey) Substitute(typeArgs []TypeKey) TypeKey {
	switch k.kind {
	case paramKey:
		if k.n >= 0 && k.n < len(typeArgs) {
			return typeArgs[k.n]
		}
		return k
	case closedKey, collectionKey:
		if len(k.args) == 0 {
			return k
		}
		args := make([]TypeKey, len(k.args))
		for i, arg := range k.args {
			args[i] = arg.Substitute(typeArgs)
		}
		k.args = args
		return k
	default:
		return k
	}
}

// validateParams returns an error if the key contains a negative [Param] index.
func (k TypeKey) validateParams() error {
	if k.kind == paramKey && k.n < 0 {
		return errors.Errorf("invalid type parameter index %d", k.n)
	}

	for _, arg := range k.args {
		if err := arg.validateParams(); err != nil {
			return err
		}
	}

	return nil
}

// id is the canonical identity used for map lookups.
func (k TypeKey) id() string {
	return k.format(func(k TypeKey) string { return k.name })
}

// String returns a readable name for the key.
func (k TypeKey) String() string {
	return k.format(func(k TypeKey) string { return k.label })
}

func (k TypeKey) format(name func(TypeKey) string) string {
	switch k.kind {
	case paramKey:
		return fmt.Sprintf("$%d", k.n)
	case openKey:
		return name(k) + "[" + strings.Repeat(",", max(k.n-1, 0)) + "]"
	case collectionKey:
		return "[]" + k.args[0].format(name)
	}

	if len(k.args) == 0 {
		return name(k)
	}

	args := make([]string, len(k.args))
	for i, arg := range k.args {
		args[i] = arg.format(name)
	}
	return name(k) + "[" + strings.Join(args, ",") + "]"
}
