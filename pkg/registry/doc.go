// Package registry provides the snapshot store shared by the search and
// filter registries.
//
// A Store maps string ids to entry values. It never mutates a published
// mapping: every write computes a brand-new map from the current one and
// swaps it in atomically, so readers always see a fully applied snapshot.
// Subscribers are notified once per published snapshot, which makes bulk
// operations observable as a single transition.
//
// Optional[T] is the explicit "no value" marker used for entry payloads. It
// is distinct from an id being absent from the store.
//
// Usage:
//
//	store := registry.NewStore[Entry]()
//	store.Replace(func(cur map[string]Entry) (map[string]Entry, bool) {
//	    next := registry.Clone(cur)
//	    next["q"] = Entry{Query: registry.Some("potions")}
//	    return next, true
//	})
//
//	e, ok := store.Get("q")
package registry
