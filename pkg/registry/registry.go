package registry

import (
	"sort"

	"github.com/cuemby/arenafeed/pkg/types"
)

// Registry is a reference-counted set of consumers per entity.
// A key is present if and only if at least one consumer holds it.
//
// Registry is not safe for concurrent use; it is owned by one engine and
// mutated only from that engine's event loop.
type Registry struct {
	name    string
	entries map[string]map[types.ConsumerID]struct{}
}

// New creates an empty registry. The name is used for logging and metrics.
func New(name string) *Registry {
	return &Registry{
		name:    name,
		entries: make(map[string]map[types.ConsumerID]struct{}),
	}
}

// Name returns the registry name
func (r *Registry) Name() string {
	return r.name
}

// Acquire adds consumer to the set for id. It reports whether this call
// created the key, in which case the caller must issue the remote subscribe.
// Adding a consumer that is already present is a no-op.
func (r *Registry) Acquire(id types.EntityID, consumer types.ConsumerID) bool {
	key := id.String()
	set, exists := r.entries[key]
	if !exists {
		set = make(map[types.ConsumerID]struct{})
		r.entries[key] = set
	}
	set[consumer] = struct{}{}
	return !exists
}

// Release removes consumer from the set for id. It reports whether the key
// was removed, in which case the caller must issue the remote unsubscribe.
// Releasing an unknown key or consumer is a no-op.
func (r *Registry) Release(id types.EntityID, consumer types.ConsumerID) bool {
	key := id.String()
	set, exists := r.entries[key]
	if !exists {
		return false
	}
	if _, held := set[consumer]; !held {
		return false
	}
	delete(set, consumer)
	if len(set) > 0 {
		return false
	}
	delete(r.entries, key)
	return true
}

// IsActive reports whether any consumer holds id
func (r *Registry) IsActive(id types.EntityID) bool {
	_, exists := r.entries[id.String()]
	return exists
}

// Len returns the number of active keys
func (r *Registry) Len() int {
	return len(r.entries)
}

// Consumers returns the consumers holding id, sorted
func (r *Registry) Consumers(id types.EntityID) []types.ConsumerID {
	set := r.entries[id.String()]
	out := make([]types.ConsumerID, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Keys returns every active identity, sorted by canonical key
func (r *Registry) Keys() []types.EntityID {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ids := make([]types.EntityID, 0, len(keys))
	for _, k := range keys {
		id, err := types.ParseEntityID(k)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
