package search

import (
	"github.com/vango-dev/registry/internal/errors"
	"github.com/vango-dev/registry/pkg/scope"
)

// Context is the scope context carrying the search registry.
var Context = scope.CreateContext[*Registry]("SearchProvider")

// Provide creates a registry on owner and makes it visible to every
// descendant scope. The registry is closed when owner is disposed.
func Provide(owner *scope.Owner, opts ...Option) *Registry {
	r := New(opts...)
	Context.Provide(owner, r)
	owner.OnCleanup(r.Close)
	return r
}

// Use returns the registry of the nearest SearchProvider above owner.
// It panics with an E201 usage error when there is none, or E203 when owner
// has already been disposed.
func Use(owner *scope.Owner) *Registry {
	if owner != nil && owner.IsDisposed() {
		panic(errors.New("E203"))
	}
	r, ok := TryUse(owner)
	if !ok {
		panic(errors.New("E201"))
	}
	return r
}

// TryUse is like Use but reports absence instead of panicking.
func TryUse(owner *scope.Owner) (*Registry, bool) {
	return Context.Lookup(owner)
}
