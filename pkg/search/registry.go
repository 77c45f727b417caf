package search

import (
	"log/slog"

	"github.com/vango-dev/registry/pkg/registry"
	"github.com/vango-dev/registry/pkg/urlparam"
)

// Registry holds the search entries of one provider scope.
type Registry struct {
	store  *registry.Store[Entry]
	nav    urlparam.Navigator
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithNavigator sets the navigator used by the URL sync operations.
func WithNavigator(nav urlparam.Navigator) Option {
	return func(r *Registry) {
		r.nav = nav
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		store:  registry.NewStore[Entry](),
		logger: slog.Default().With("component", "search"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Navigator returns the configured navigator, or nil.
func (r *Registry) Navigator() urlparam.Navigator {
	return r.nav
}

// Add inserts or fully replaces the entry at id.
func (r *Registry) Add(id string, query registry.Optional[string], sync bool) {
	r.AddBulk(map[string]Entry{id: {Query: query, HasURLSync: sync}})
}

// AddBulk merges every supplied entry into the registry in one transition.
func (r *Registry) AddBulk(entries map[string]Entry) {
	r.merge(entries)
}

// UpdateBulk has the same merge semantics as AddBulk.
func (r *Registry) UpdateBulk(entries map[string]Entry) {
	r.merge(entries)
}

func (r *Registry) merge(entries map[string]Entry) {
	if len(entries) == 0 {
		return
	}
	r.store.Replace(func(cur map[string]Entry) (map[string]Entry, bool) {
		next := registry.Clone(cur)
		for id, e := range entries {
			next[id] = e
		}
		return next, true
	})
}

// Update replaces only the query of id. An existing sync flag is kept; a new
// id is created with sync disabled.
func (r *Registry) Update(id string, query registry.Optional[string]) {
	r.store.Replace(func(cur map[string]Entry) (map[string]Entry, bool) {
		next := registry.Clone(cur)
		next[id] = Entry{Query: query, HasURLSync: cur[id].HasURLSync}
		return next, true
	})
}

// Get returns the entry at id.
func (r *Registry) Get(id string) (Entry, bool) {
	return r.store.Get(id)
}

// GetBulk returns the entries for the ids that exist. Missing ids are
// omitted.
func (r *Registry) GetBulk(ids ...string) map[string]Entry {
	out := make(map[string]Entry, len(ids))
	r.store.View(func(entries map[string]Entry) {
		for _, id := range ids {
			if e, ok := entries[id]; ok {
				out[id] = e
			}
		}
	})
	return out
}

// Has reports whether id is registered, whatever its query.
func (r *Registry) Has(id string) bool {
	return r.store.Has(id)
}

// HasAll reports whether every id is registered. It is true for no ids.
func (r *Registry) HasAll(ids ...string) bool {
	all := true
	r.store.View(func(entries map[string]Entry) {
		for _, id := range ids {
			if _, ok := entries[id]; !ok {
				all = false
				return
			}
		}
	})
	return all
}

// HasAny reports whether the registry is non-empty.
func (r *Registry) HasAny() bool {
	return r.store.Len() > 0
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return r.store.Len()
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	return r.store.IDs()
}

// Snapshot returns a copy of all entries.
func (r *Registry) Snapshot() map[string]Entry {
	return r.store.Snapshot()
}

// Remove deletes id.
func (r *Registry) Remove(id string) {
	r.RemoveBulk(id)
}

// RemoveBulk deletes every listed id. Unknown ids are ignored.
func (r *Registry) RemoveBulk(ids ...string) {
	r.store.Replace(func(cur map[string]Entry) (map[string]Entry, bool) {
		var next map[string]Entry
		for _, id := range ids {
			if _, ok := cur[id]; !ok {
				continue
			}
			if next == nil {
				next = registry.Clone(cur)
			}
			delete(next, id)
		}
		return next, next != nil
	})
}

// RemoveAll empties the registry.
func (r *Registry) RemoveAll() {
	r.store.Replace(func(cur map[string]Entry) (map[string]Entry, bool) {
		return map[string]Entry{}, len(cur) > 0
	})
}

// Reset clears the query of id, keeping the id and its sync flag. Unknown
// ids are ignored.
func (r *Registry) Reset(id string) {
	r.ResetBulk(id)
}

// ResetBulk resets every listed id that exists. Unknown ids are not created.
func (r *Registry) ResetBulk(ids ...string) {
	r.store.Replace(func(cur map[string]Entry) (map[string]Entry, bool) {
		var next map[string]Entry
		for _, id := range ids {
			e, ok := cur[id]
			if !ok {
				continue
			}
			if next == nil {
				next = registry.Clone(cur)
			}
			next[id] = Entry{Query: registry.None[string](), HasURLSync: e.HasURLSync}
		}
		return next, next != nil
	})
}

// ResetAll resets the query of every entry. The set of ids is unchanged.
func (r *Registry) ResetAll() {
	r.store.Replace(func(cur map[string]Entry) (map[string]Entry, bool) {
		if len(cur) == 0 {
			return cur, false
		}
		next := make(map[string]Entry, len(cur))
		for id, e := range cur {
			next[id] = Entry{Query: registry.None[string](), HasURLSync: e.HasURLSync}
		}
		return next, true
	})
}

// Subscribe registers fn for one call per published change.
func (r *Registry) Subscribe(fn registry.Listener[Entry]) (unsubscribe func()) {
	return r.store.Subscribe(fn)
}

// Close drops all entries and listeners. Providers call it when their scope
// is disposed.
func (r *Registry) Close() {
	r.RemoveAll()
	r.store.UnsubscribeAll()
}
