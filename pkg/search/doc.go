// Package search provides the search registry: named search queries shared
// by independent widgets, optionally mirrored into the URL query string.
//
// A registry is created by a provider scope and read by any descendant:
//
//	root := scope.NewOwner(nil)
//	search.Provide(root, search.WithNavigator(nav))
//
//	// in a widget rendered under root
//	reg := search.Use(owner)
//	reg.Add("q", registry.Some("potions"), true)
//	reg.SyncOne("q", true) // navigates to /items?q=potions
//
// Entries whose HasURLSync flag is set are written to the query string by
// SyncOne and SyncAll; other entries never touch the URL. Resetting an entry
// clears its query but keeps both the id and its sync flag.
//
// Input is a headless input adapter: it registers an entry on mount, seeds
// it from the URL, keeps a local display value while the user types, and
// publishes on commit.
package search
