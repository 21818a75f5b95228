package secret

import (
	"context"
	"sync"

	"github.com/dreams-labs/datacore/pkg/core"
	"golang.org/x/sync/singleflight"
)

// Memoize wraps a provider with a process-lifetime cache. Concurrent
// fetches of the same name collapse into a single backend call.
// Failures are not cached. Memoization is explicit opt-in; bare
// providers fetch on every call.
func Memoize(p Provider) Provider {
	return &memoProvider{
		inner: p,
		cache: make(map[string]core.Secret),
	}
}

type memoProvider struct {
	inner Provider
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]core.Secret
}

// Get implements Provider.
func (m *memoProvider) Get(ctx context.Context, name string) (core.Secret, error) {
	m.mu.RLock()
	cached, ok := m.cache[name]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := m.group.Do(name, func() (any, error) {
		s, err := m.inner.Get(ctx, name)
		if err != nil {
			return core.Secret{}, err
		}
		m.mu.Lock()
		m.cache[name] = s
		m.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return core.Secret{}, err
	}
	return v.(core.Secret), nil
}
