package search

import (
	"maps"
	"slices"

	"github.com/vango-dev/registry/pkg/registry"
)

// Entry is one named search query.
type Entry struct {
	Query      registry.Optional[string] `json:"query"`
	HasURLSync bool                      `json:"hasUrlSync"`
}

// NewEntry returns an entry holding query.
func NewEntry(query string, sync bool) Entry {
	return Entry{Query: registry.Some(query), HasURLSync: sync}
}

// QueryString returns the query, or "" when absent.
func (e Entry) QueryString() string {
	return e.Query.OrElse("")
}

// IDsOf returns the ids of entries, sorted. Use it to pass a mapping to the
// bulk remove and reset operations.
func IDsOf(entries map[string]Entry) []string {
	return slices.Sorted(maps.Keys(entries))
}
