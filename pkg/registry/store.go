package registry

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

// Change describes one published snapshot.
// Previous and Current are read-only; they are shared with other readers.
type Change[E any] struct {
	Version  uint64
	Previous map[string]E
	Current  map[string]E
}

// Listener receives a Change after each published snapshot.
type Listener[E any] func(Change[E])

type snapshot[E any] struct {
	version uint64
	entries map[string]E
}

type subscriber[E any] struct {
	id uint64
	fn Listener[E]
}

// Store holds the authoritative id→entry mapping of one registry instance.
// It is safe for concurrent use; writes are applied one at a time in the
// order they acquire the writer lock.
//
// Listeners are called one at a time, in version order. A Replace that
// publishes while another goroutine is delivering changes queues its change
// for that goroutine and returns without waiting for its listeners.
type Store[E any] struct {
	// writeMu serializes compute-and-publish and guards pending/draining.
	writeMu sync.Mutex

	current atomic.Pointer[snapshot[E]]

	pending  []Change[E]
	draining bool

	subs   []subscriber[E]
	subMu  sync.RWMutex
	nextID uint64
}

// NewStore creates an empty store.
func NewStore[E any]() *Store[E] {
	s := &Store[E]{}
	s.current.Store(&snapshot[E]{entries: map[string]E{}})
	return s
}

// Clone returns a shallow copy of m that the caller may mutate.
func Clone[E any](m map[string]E) map[string]E {
	next := make(map[string]E, len(m))
	maps.Copy(next, m)
	return next
}

func (s *Store[E]) load() *snapshot[E] {
	return s.current.Load()
}

// Get returns the entry for id.
func (s *Store[E]) Get(id string) (E, bool) {
	e, ok := s.load().entries[id]
	return e, ok
}

// Has reports whether id is a key in the store.
func (s *Store[E]) Has(id string) bool {
	_, ok := s.load().entries[id]
	return ok
}

// Len returns the number of entries.
func (s *Store[E]) Len() int {
	return len(s.load().entries)
}

// Version returns the number of snapshots published so far.
func (s *Store[E]) Version() uint64 {
	return s.load().version
}

// IDs returns the ids in the current snapshot, sorted.
func (s *Store[E]) IDs() []string {
	return slices.Sorted(maps.Keys(s.load().entries))
}

// Snapshot returns a copy of the current mapping.
func (s *Store[E]) Snapshot() map[string]E {
	return Clone(s.load().entries)
}

// View calls fn with the current mapping without copying it.
// fn must not mutate or retain the map.
func (s *Store[E]) View(fn func(entries map[string]E)) {
	fn(s.load().entries)
}

// Replace computes a new mapping from the current one and publishes it.
//
// fn receives the current mapping read-only and must return a new map (see
// Clone) plus whether anything changed. When changed is false nothing is
// published and no listener runs. Replace reports whether a snapshot was
// published.
func (s *Store[E]) Replace(fn func(cur map[string]E) (next map[string]E, changed bool)) bool {
	s.writeMu.Lock()
	prev := s.load()
	next, changed := fn(prev.entries)
	if !changed {
		s.writeMu.Unlock()
		return false
	}
	if next == nil {
		next = map[string]E{}
	}
	published := &snapshot[E]{version: prev.version + 1, entries: next}
	s.current.Store(published)
	s.pending = append(s.pending, Change[E]{
		Version:  published.version,
		Previous: prev.entries,
		Current:  published.entries,
	})
	if s.draining {
		s.writeMu.Unlock()
		return true
	}
	s.draining = true
	s.writeMu.Unlock()

	s.drain()
	return true
}

// drain delivers queued changes until the queue is empty. A panicking
// listener releases the drainer role so later writes can deliver the rest.
func (s *Store[E]) drain() {
	done := false
	defer func() {
		if !done {
			s.writeMu.Lock()
			s.draining = false
			s.writeMu.Unlock()
		}
	}()

	for {
		s.writeMu.Lock()
		if len(s.pending) == 0 {
			s.draining = false
			s.pending = nil
			s.writeMu.Unlock()
			done = true
			return
		}
		c := s.pending[0]
		s.pending[0] = Change[E]{}
		s.pending = s.pending[1:]
		s.writeMu.Unlock()

		s.notify(c)
	}
}

// Subscribe registers fn for change notifications and returns a function that
// removes it.
func (s *Store[E]) Subscribe(fn Listener[E]) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[E]{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = slices.Delete(s.subs, i, i+1)
					return
				}
			}
		})
	}
}

// UnsubscribeAll drops every listener.
func (s *Store[E]) UnsubscribeAll() {
	s.subMu.Lock()
	s.subs = nil
	s.subMu.Unlock()
}

// notify copies the subscriber list before calling out so listeners may
// subscribe or unsubscribe from inside the callback.
func (s *Store[E]) notify(c Change[E]) {
	s.subMu.RLock()
	subs := make([]subscriber[E], len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.fn(c)
	}
}
