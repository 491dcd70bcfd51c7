package lock

import (
	"sync"
	"sync/atomic"
)

// Registry hands out one mutex per user id. Entries are never evicted.
type Registry struct {
	locks sync.Map // int64 -> *sync.Mutex
	size  atomic.Int64
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// For returns the mutex owned by id, creating it on first use.
// Concurrent first callers for the same id always receive the same instance.
func (r *Registry) For(id int64) *sync.Mutex {
	if l, ok := r.locks.Load(id); ok {
		return l.(*sync.Mutex)
	}
	l, loaded := r.locks.LoadOrStore(id, &sync.Mutex{})
	if !loaded {
		r.size.Add(1)
	}
	return l.(*sync.Mutex)
}

// WithLock runs fn while holding the mutex for id.
// The mutex is released however fn exits, panics included.
func (r *Registry) WithLock(id int64, fn func() error) error {
	l := r.For(id)
	l.Lock()
	defer l.Unlock()
	return fn()
}

// Len reports how many ids have a mutex.
func (r *Registry) Len() int {
	return int(r.size.Load())
}
