package di

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// instanceCache stores Singleton and Scoped instances for a single Container.
//
// Entries are keyed by registration and closed service key, since several
// registrations may share a key and an open generic registration has one
// instance per instantiation.
type instanceCache struct {
	entries *xsync.MapOf[cacheKey, *cacheEntry]
}

type cacheKey struct {
	svc service
	key string
}

type cacheEntry struct {
	mu  sync.Mutex
	res *resolveResult
}

type resolveResult struct {
	val any
	err error
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		entries: xsync.NewMapOf[cacheKey, *cacheEntry](),
	}
}

func (c *instanceCache) entry(svc service, key TypeKey) *cacheEntry {
	e, _ := c.entries.LoadOrCompute(cacheKey{svc: svc, key: key.id()}, func() *cacheEntry {
		return &cacheEntry{}
	})
	return e
}

// load returns the stored result, if any.
func (c *instanceCache) load(svc service, key TypeKey) (resolveResult, bool) {
	e, ok := c.entries.Load(cacheKey{svc: svc, key: key.id()})
	if !ok {
		return resolveResult{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.res == nil {
		return resolveResult{}, false
	}
	return *e.res, true
}

// getOrCreate returns the stored result, or calls create and stores its result.
//
// create runs with the entry locked, so it is called at most once per entry
// even when several goroutines race on the first access. created reports
// whether this call produced the result.
func (c *instanceCache) getOrCreate(svc service, key TypeKey, create func() (any, error)) (res resolveResult, created bool) {
	e := c.entry(svc, key)

	e.mu.Lock()
	defer e.mu.Unlock()

	// Another goroutine may have created the instance since the last check
	if e.res != nil {
		return *e.res, false
	}

	val, err := create()
	e.res = &resolveResult{val: val, err: err}

	return *e.res, true
}

// len returns the number of stored entries.
func (c *instanceCache) len() int {
	return c.entries.Size()
}
