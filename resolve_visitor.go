package di

import "strings"

// resolveVisitor tracks the services being resolved in a single call chain
// so a dependency cycle is reported instead of recursing forever.
type resolveVisitor struct {
	visited map[cacheKey]struct{}
	trail   []TypeKey
}

func newResolveVisitor() *resolveVisitor {
	return &resolveVisitor{
		visited: make(map[cacheKey]struct{}),
	}
}

// Enter returns false if the service is already being resolved.
func (v *resolveVisitor) Enter(svc service, key TypeKey) bool {
	ck := cacheKey{svc: svc, key: key.id()}
	if _, ok := v.visited[ck]; ok {
		return false
	}

	v.visited[ck] = struct{}{}
	v.trail = append(v.trail, key)
	return true
}

// Leave must be called after a successful Enter.
func (v *resolveVisitor) Leave(svc service, key TypeKey) {
	delete(v.visited, cacheKey{svc: svc, key: key.id()})
	v.trail = v.trail[:len(v.trail)-1]
}

// Trail returns the dependency chain ending with key, such as "A -> B -> A".
func (v *resolveVisitor) Trail(key TypeKey) string {
	names := make([]string, 0, len(v.trail)+1)
	for _, k := range v.trail {
		names = append(names, k.String())
	}
	names = append(names, key.String())

	return strings.Join(names, " -> ")
}
