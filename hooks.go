package activestate

import (
	"sort"
	"sync"
)

// DeregisterFunc removes a previously registered hook. Calling it more than once is a no-op.
type DeregisterFunc func()

// HookRegistry keeps callbacks keyed by a registration handle.
// Callbacks fire in registration order. The zero value is ready to use.
type HookRegistry[T any] struct {
	mu     sync.Mutex
	nextID uint64
	hooks  map[uint64]func(T)
}

// Add registers fn and returns the function that removes it.
func (r *HookRegistry[T]) Add(fn func(T)) DeregisterFunc {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hooks == nil {
		r.hooks = make(map[uint64]func(T))
	}
	r.nextID++
	id := r.nextID
	r.hooks[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.hooks, id)
			r.mu.Unlock()
		})
	}
}

// Fire calls every registered hook with v.
// The hook set is snapshotted first, so hooks may add or remove hooks while firing.
// A hook removed by an earlier hook in the same round is skipped.
func (r *HookRegistry[T]) Fire(v T) {
	for _, id := range r.ids() {
		r.mu.Lock()
		fn, ok := r.hooks[id]
		r.mu.Unlock()
		if ok {
			fn(v)
		}
	}
}

// Len returns the number of live registrations.
func (r *HookRegistry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hooks)
}

func (r *HookRegistry[T]) ids() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint64, 0, len(r.hooks))
	for id := range r.hooks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
