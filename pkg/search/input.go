package search

import (
	"sync"

	"github.com/vango-dev/registry/pkg/registry"
	"github.com/vango-dev/registry/pkg/scope"
)

// InputOptions configures a mounted Input.
type InputOptions struct {
	// Sync mirrors committed values into the URL and seeds the initial
	// value from the URL parameter named by the input id.
	Sync bool
}

// Input is a headless search input bound to one registry entry. It keeps
// the text being typed separate from the committed query.
type Input struct {
	id   string
	reg  *Registry
	sync bool

	mu        sync.Mutex
	text      string
	unmounted bool
}

// Mount registers an entry named id in the registry provided above owner.
// With Sync enabled, the entry starts with the current value of the URL
// parameter id when one is present. The entry is removed when owner is
// disposed. Mount panics like Use when no registry is in scope.
func Mount(owner *scope.Owner, id string, opts InputOptions) *Input {
	reg := Use(owner)

	initial := registry.None[string]()
	if opts.Sync && reg.nav != nil {
		if v, ok := reg.nav.Params().Get(id); ok {
			initial = registry.Some(v)
		}
	}
	reg.Add(id, initial, opts.Sync)

	in := &Input{
		id:   id,
		reg:  reg,
		sync: opts.Sync,
		text: initial.OrElse(""),
	}
	owner.OnCleanup(in.Unmount)
	return in
}

// ID returns the entry id.
func (in *Input) ID() string {
	return in.id
}

// Text returns the current display value.
func (in *Input) Text() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.text
}

// Input records a keystroke. The registry entry is not touched until Commit.
func (in *Input) Input(text string) {
	in.mu.Lock()
	in.text = text
	in.mu.Unlock()
}

// Commit publishes the display value to the registry, and to the URL when
// the input is synced.
func (in *Input) Commit() {
	in.mu.Lock()
	text, gone := in.text, in.unmounted
	in.mu.Unlock()
	if gone {
		return
	}
	in.reg.Commit(in.id, text)
}

// Unmount removes the entry. Calling it more than once is safe.
func (in *Input) Unmount() {
	in.mu.Lock()
	if in.unmounted {
		in.mu.Unlock()
		return
	}
	in.unmounted = true
	in.mu.Unlock()
	in.reg.Remove(in.id)
}
