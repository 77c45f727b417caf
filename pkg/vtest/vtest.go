package vtest

import (
	"reflect"
	"testing"

	"github.com/vango-dev/registry/pkg/filter"
	"github.com/vango-dev/registry/pkg/registry"
	"github.com/vango-dev/registry/pkg/scope"
	"github.com/vango-dev/registry/pkg/search"
	"github.com/vango-dev/registry/pkg/urlparam"
)

// ScopeBuilder allows fluent construction of test scopes.
type ScopeBuilder struct {
	url     string
	search  map[string]search.Entry
	filters map[string]filter.Entry
	opts    []filter.Option
}

// Harness is a provider scope with both registries and an in-memory
// navigator.
type Harness struct {
	Owner   *scope.Owner
	Search  *search.Registry
	Filters *filter.Registry
	Nav     *urlparam.Memory
}

// NewScope creates a new scope builder positioned at "/".
//
// Example:
//
//	h := vtest.NewScope().WithURL("/items?q=x").Build(t)
func NewScope() *ScopeBuilder {
	return &ScopeBuilder{
		url:     "/",
		search:  make(map[string]search.Entry),
		filters: make(map[string]filter.Entry),
	}
}

// WithURL sets the initial location of the navigator.
func (b *ScopeBuilder) WithURL(target string) *ScopeBuilder {
	b.url = target
	return b
}

// WithSearch pre-registers a search entry.
//
// Example:
//
//	h := vtest.NewScope().WithSearch("q", "potions", true).Build(t)
func (b *ScopeBuilder) WithSearch(id, query string, sync bool) *ScopeBuilder {
	b.search[id] = search.NewEntry(query, sync)
	return b
}

// WithFilter pre-registers a filter entry.
func (b *ScopeBuilder) WithFilter(id string, e filter.Entry) *ScopeBuilder {
	b.filters[id] = e
	return b
}

// WithFilterOptions passes options to the filter registry.
func (b *ScopeBuilder) WithFilterOptions(opts ...filter.Option) *ScopeBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build creates the scope and registers its disposal with t.Cleanup.
func (b *ScopeBuilder) Build(t testing.TB) *Harness {
	t.Helper()

	nav := urlparam.NewMemory(b.url)
	owner := scope.NewOwner(nil)
	h := &Harness{
		Owner:   owner,
		Search:  search.Provide(owner, search.WithNavigator(nav)),
		Filters: filter.Provide(owner, b.opts...),
		Nav:     nav,
	}
	h.Search.AddBulk(b.search)
	h.Filters.Add(b.filters)

	t.Cleanup(owner.Dispose)
	return h
}

// Child returns a new scope below the harness root, as a widget would have.
func (h *Harness) Child() *scope.Owner {
	return scope.NewOwner(h.Owner)
}

// ExpectQuery asserts that the search entry id holds want.
//
// Example:
//
//	vtest.ExpectQuery(t, h.Search, "q", "potions")
func ExpectQuery(t testing.TB, reg *search.Registry, id, want string) {
	t.Helper()
	e, ok := reg.Get(id)
	if !ok {
		t.Errorf("search entry %q not registered", id)
		return
	}
	if got, valid := e.Query.Get(); !valid || got != want {
		t.Errorf("search entry %q query = %v, want %q", id, e.Query, want)
	}
}

// ExpectNoQuery asserts that the search entry id exists with no query.
func ExpectNoQuery(t testing.TB, reg *search.Registry, id string) {
	t.Helper()
	e, ok := reg.Get(id)
	if !ok {
		t.Errorf("search entry %q not registered", id)
		return
	}
	if e.Query.Valid {
		t.Errorf("search entry %q query = %v, want absent", id, e.Query)
	}
}

// ExpectFilter asserts that the filter entry id holds want.
func ExpectFilter(t testing.TB, reg *filter.Registry, id string, want any) {
	t.Helper()
	e, ok := reg.Get(id)
	if !ok {
		t.Errorf("filter entry %q not registered", id)
		return
	}
	if !e.Value.Valid || !reflect.DeepEqual(e.Value.Value, want) {
		t.Errorf("filter entry %q value = %v, want %v", id, e.Value, registry.Some(want))
	}
}

// ExpectURL asserts the current location of nav.
//
// Example:
//
//	vtest.ExpectURL(t, h.Nav, "/items?q=elixir")
func ExpectURL(t testing.TB, nav *urlparam.Memory, want string) {
	t.Helper()
	if got := nav.URL(); got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}

// ExpectNavigations asserts how many navigations nav has recorded.
func ExpectNavigations(t testing.TB, nav *urlparam.Memory, want int) {
	t.Helper()
	if got := len(nav.History()); got != want {
		t.Errorf("navigations = %d (%v), want %d", got, nav.History(), want)
	}
}
