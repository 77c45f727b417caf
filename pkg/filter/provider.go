package filter

import (
	"github.com/vango-dev/registry/internal/errors"
	"github.com/vango-dev/registry/pkg/scope"
)

// Context is the scope context carrying the filter registry.
var Context = scope.CreateContext[*Registry]("FiltersProvider")

// Provide creates a registry on owner for its descendants. The registry is
// closed when owner is disposed.
func Provide(owner *scope.Owner, opts ...Option) *Registry {
	r := New(opts...)
	Context.Provide(owner, r)
	owner.OnCleanup(r.Close)
	return r
}

// Use returns the nearest provided registry. It panics with E202 when no
// FiltersProvider is in scope and E203 when owner is disposed.
func Use(owner *scope.Owner) *Registry {
	if owner != nil && owner.IsDisposed() {
		panic(errors.New("E203"))
	}
	r, ok := Context.Lookup(owner)
	if !ok {
		panic(errors.New("E202"))
	}
	return r
}

// TryUse is like Use but reports absence instead of panicking.
func TryUse(owner *scope.Owner) (*Registry, bool) {
	return Context.Lookup(owner)
}
