package filter

import (
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"

	"github.com/vango-dev/registry/pkg/registry"
)

// Entry is one named filter.
type Entry struct {
	Value    registry.Optional[any] `json:"value"`
	Category string                 `json:"category"`
}

// NewEntry returns an entry holding value.
func NewEntry(value any, category string) Entry {
	return Entry{Value: registry.Some(value), Category: category}
}

// IDsOf returns the ids of entries, sorted.
func IDsOf(entries map[string]Entry) []string {
	return slices.Sorted(maps.Keys(entries))
}

// RemoveHook runs before an id is removed. A non-nil error, or a panic,
// keeps the id in the registry.
type RemoveHook func(id string, e Entry) error

// Registry holds the filter entries of one provider scope.
type Registry struct {
	store    *registry.Store[Entry]
	onRemove RemoveHook
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRemoveHook sets a hook that runs for each id before it is removed.
func WithRemoveHook(fn RemoveHook) Option {
	return func(r *Registry) {
		r.onRemove = fn
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		store:  registry.NewStore[Entry](),
		logger: slog.Default().With("component", "filter"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add merges entries into the registry in one transition.
func (r *Registry) Add(entries map[string]Entry) {
	r.merge(entries)
}

// AddOne adds a single entry.
func (r *Registry) AddOne(id string, e Entry) {
	r.merge(map[string]Entry{id: e})
}

// Update is an alias of Add.
func (r *Registry) Update(entries map[string]Entry) {
	r.merge(entries)
}

// UpdateOne is an alias of AddOne.
func (r *Registry) UpdateOne(id string, e Entry) {
	r.merge(map[string]Entry{id: e})
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

// Get returns the entry at id.
func (r *Registry) Get(id string) (Entry, bool) {
	return r.store.Get(id)
}

// GetBulk returns the entries for the ids that exist.
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

// Has reports whether id is registered.
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

// Subscribe registers fn for one call per published change.
func (r *Registry) Subscribe(fn registry.Listener[Entry]) (unsubscribe func()) {
	return r.store.Subscribe(fn)
}

// Remove deletes the listed ids in one transition. Unknown ids are ignored.
// It returns the ids that were kept, either because their remove hook failed
// or because the entry was replaced while its hook ran.
func (r *Registry) Remove(ids ...string) (kept []string) {
	current := r.GetBulk(ids...)
	if len(current) == 0 {
		return nil
	}

	doomed := make(map[string]Entry, len(current))
	for _, id := range slices.Sorted(maps.Keys(current)) {
		if err := r.runHook(id, current[id]); err != nil {
			r.logger.Warn("filter removal failed", "id", id, "error", err)
			kept = append(kept, id)
			continue
		}
		doomed[id] = current[id]
	}

	var replaced []string
	r.store.Replace(func(cur map[string]Entry) (map[string]Entry, bool) {
		replaced = replaced[:0]
		var next map[string]Entry
		for id, seen := range doomed {
			e, ok := cur[id]
			if !ok {
				continue
			}
			// Only delete the entry the hook saw.
			if !reflect.DeepEqual(e, seen) {
				replaced = append(replaced, id)
				continue
			}
			if next == nil {
				next = registry.Clone(cur)
			}
			delete(next, id)
		}
		return next, next != nil
	})
	for _, id := range replaced {
		r.logger.Debug("filter replaced during removal", "id", id)
	}

	kept = append(kept, replaced...)
	slices.Sort(kept)
	return kept
}

// RemoveOne deletes id.
func (r *Registry) RemoveOne(id string) {
	r.Remove(id)
}

// RemoveAll deletes every entry, subject to the remove hook.
func (r *Registry) RemoveAll() {
	if r.onRemove != nil {
		r.Remove(r.IDs()...)
		return
	}
	r.store.Replace(func(cur map[string]Entry) (map[string]Entry, bool) {
		return map[string]Entry{}, len(cur) > 0
	})
}

func (r *Registry) runHook(id string, e Entry) (err error) {
	if r.onRemove == nil {
		return nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return r.onRemove(id, e)
}

// Reset clears the value of every listed id that exists, keeping its
// category. Unknown ids are not created.
func (r *Registry) Reset(ids ...string) {
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
			next[id] = Entry{Value: registry.None[any](), Category: e.Category}
		}
		return next, next != nil
	})
}

// ResetOne resets id.
func (r *Registry) ResetOne(id string) {
	r.Reset(id)
}

// ResetAll clears every value. The set of ids is unchanged.
func (r *Registry) ResetAll() {
	r.store.Replace(func(cur map[string]Entry) (map[string]Entry, bool) {
		if len(cur) == 0 {
			return cur, false
		}
		next := make(map[string]Entry, len(cur))
		for id, e := range cur {
			next[id] = Entry{Value: registry.None[any](), Category: e.Category}
		}
		return next, true
	})
}

// Close drops all entries and listeners without running the remove hook.
func (r *Registry) Close() {
	r.store.Replace(func(cur map[string]Entry) (map[string]Entry, bool) {
		return map[string]Entry{}, len(cur) > 0
	})
	r.store.UnsubscribeAll()
}
