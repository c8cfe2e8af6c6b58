package testtypes

import (
	"context"
	"sync"

	"github.com/sectrean/di-chain"
)

// Services used to check resolution and disposal across scopes.

type FakeService interface {
	SimpleMethod() string
}

type FakeScopedService interface {
	FakeService
}

type FakeSingletonService interface {
	FakeService
}

// DisposableService records when it is closed.
type DisposableService struct {
	Name     string
	Disposed bool
	log      *CloseLog
}

func NewDisposableService(log *CloseLog, name string) *DisposableService {
	return &DisposableService{Name: name, log: log}
}

func (s *DisposableService) SimpleMethod() string {
	return s.Name
}

func (s *DisposableService) Close() {
	s.Disposed = true
	if s.log != nil {
		s.log.Add(s.Name)
	}
}

// CloseLog records the order services are closed in.
type CloseLog struct {
	mu    sync.Mutex
	names []string
}

func (l *CloseLog) Add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, name)
}

func (l *CloseLog) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}

type FakeMultipleService interface {
	SimpleMethod() string
}

type FakeOneMultipleService struct{}

func (FakeOneMultipleService) SimpleMethod() string { return "FakeOneMultipleService" }

type FakeTwoMultipleService struct{}

func (FakeTwoMultipleService) SimpleMethod() string { return "FakeTwoMultipleService" }

// Wrapper is the instance created for every instantiation of the generic Wrapper family.
type Wrapper struct {
	TypeArg di.TypeKey
	Inner   any
}

const WrapperID = "Wrapper"

// NewWrapper is a [di.GenericFunc] that wraps its first dependency.
func NewWrapper(_ context.Context, typeArgs []di.TypeKey, deps []any) (any, error) {
	w := &Wrapper{TypeArg: typeArgs[0]}
	if len(deps) > 0 {
		w.Inner = deps[0]
	}
	return w, nil
}

// ScopingFallback prefixes every string it resolves with "scope-" for each
// level of nesting, and with "disposed-" once its scope is closed.
type ScopingFallback struct {
	Prefix   string
	mu       sync.Mutex
	disposed bool
	children []*ScopingFallback
}

func (f *ScopingFallback) Resolve(_ context.Context, key di.TypeKey) (any, error) {
	if !key.Equal(di.TypeOf[string]()) {
		return nil, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.disposed {
		return "disposed-" + f.name(), nil
	}
	return f.Prefix + f.name(), nil
}

func (f *ScopingFallback) name() string {
	return "FakeFallbackServiceProvider"
}

func (f *ScopingFallback) ResolveAll(ctx context.Context, key di.TypeKey) ([]any, error) {
	val, err := f.Resolve(ctx, key)
	if err != nil || val == nil {
		return []any{}, err
	}
	return []any{val}, nil
}

func (f *ScopingFallback) NewScope() (di.Fallback, error) {
	child := &ScopingFallback{Prefix: "scope-" + f.Prefix}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.children = append(f.children, child)

	return child, nil
}

// Children returns the scopes created with NewScope.
func (f *ScopingFallback) Children() []*ScopingFallback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*ScopingFallback(nil), f.children...)
}

// Disposed reports whether Close was called.
func (f *ScopingFallback) Disposed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disposed
}

func (f *ScopingFallback) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.disposed = true
}
