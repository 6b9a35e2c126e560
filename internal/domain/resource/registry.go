package resource

import (
	"fmt"
	"iter"
	"sync"
)

// Registry tracks every declared resource in declaration order
type Registry struct {
	mu    sync.RWMutex
	order []Resource
	byKey map[string]Resource
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[string]Resource),
	}
}

// Add declares resources. Keys must be unique across the registry and the
// batch; on a duplicate nothing from the batch is added.
func (r *Registry) Add(rs ...Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[string]struct{}, len(rs))
	for _, res := range rs {
		key := res.Key()
		if _, ok := r.byKey[key]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicate, key)
		}
		if _, ok := batch[key]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicate, key)
		}
		batch[key] = struct{}{}
	}

	for _, res := range rs {
		r.byKey[res.Key()] = res
		r.order = append(r.order, res)
	}
	return nil
}

// Get returns the resource registered under key
func (r *Registry) Get(key string) (Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.byKey[key]
	return res, ok
}

// Len returns the number of declared resources
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// All yields every declared resource
func (r *Registry) All() iter.Seq[Resource] {
	return func(yield func(Resource) bool) {
		r.mu.RLock()
		snapshot := make([]Resource, len(r.order))
		copy(snapshot, r.order)
		r.mu.RUnlock()

		for _, res := range snapshot {
			if !yield(res) {
				return
			}
		}
	}
}

// Unloaded returns the resources that have not finished loading
func (r *Registry) Unloaded() []Resource {
	var out []Resource
	for res := range r.All() {
		if !res.IsLoaded() {
			out = append(out, res)
		}
	}
	return out
}
