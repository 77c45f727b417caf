// Package vtest provides testing helpers for code built on the search and
// filter registries.
//
// The vtest package reduces boilerplate by building a provider scope with
// both registries and an in-memory navigator, and by offering assertions
// on entries and on the URL.
//
// # Quick Start
//
//	func TestResultsWidget(t *testing.T) {
//	    h := vtest.NewScope().WithURL("/items?q=potions").Build(t)
//	    in := search.Mount(h.Child(), "q", search.InputOptions{Sync: true})
//	    vtest.ExpectQuery(t, h.Search, "q", "potions")
//
//	    in.Input("elixir")
//	    in.Commit()
//	    vtest.ExpectURL(t, h.Nav, "/items?q=elixir")
//	}
//
// # Fluent Scope Builder
//
// The scope builder allows chaining multiple setup operations:
//
//	h := vtest.NewScope().
//	    WithURL("/items?page=2").
//	    WithSearch("q", "potions", true).
//	    WithFilter("color", filter.NewEntry("red", "attr")).
//	    Build(t)
//
// The scope is disposed automatically when the test ends.
package vtest
