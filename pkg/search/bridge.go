package search

import (
	"maps"
	"slices"

	"github.com/vango-dev/registry/pkg/registry"
	"github.com/vango-dev/registry/pkg/urlparam"
)

// SyncOne writes one entry into the URL parameter named id and navigates to
// the current path with the updated parameters. It does nothing when enabled
// is false.
//
// The written value is value[0] when supplied, else the stored query, else "".
func (r *Registry) SyncOne(id string, enabled bool, value ...string) {
	if !enabled {
		return
	}

	var v string
	if len(value) > 0 {
		v = value[0]
	} else {
		e, _ := r.Get(id)
		v = e.QueryString()
	}

	r.navigate(func(params *urlparam.Values) bool {
		params.Set(id, v)
		return true
	})
}

// SyncAll writes every entry whose HasURLSync is set into the URL with a
// single navigation. Nothing is navigated when no entry opts in.
func (r *Registry) SyncAll() {
	synced := make(map[string]string)
	r.store.View(func(entries map[string]Entry) {
		for id, e := range entries {
			if e.HasURLSync {
				synced[id] = e.QueryString()
			}
		}
	})
	if len(synced) == 0 {
		return
	}

	r.navigate(func(params *urlparam.Values) bool {
		// New parameters are appended in id order.
		for _, id := range slices.Sorted(maps.Keys(synced)) {
			params.Set(id, synced[id])
		}
		return true
	})
}

// Commit stores value as the query of id and, when the entry has URL sync
// enabled, writes it to the URL.
func (r *Registry) Commit(id, value string) {
	r.Update(id, registry.Some(value))
	e, _ := r.Get(id)
	r.SyncOne(id, e.HasURLSync, value)
}

func (r *Registry) navigate(apply func(params *urlparam.Values) bool) {
	if r.nav == nil {
		r.logger.Debug("url sync skipped: no navigator")
		return
	}

	params := r.nav.Params()
	if !apply(params) {
		return
	}

	target := urlparam.Target(r.nav.Path(), params)
	r.logger.Debug("url sync", "target", target)
	r.nav.Navigate(target)
}
