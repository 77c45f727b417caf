package search

import (
	"testing"

	"github.com/vango-dev/registry/pkg/scope"
	"github.com/vango-dev/registry/pkg/urlparam"
)

func TestInputSeedsFromURL(t *testing.T) {
	nav := urlparam.NewMemory("/items?q=potions")
	root := scope.NewOwner(nil)
	defer root.Dispose()
	reg := Provide(root, WithNavigator(nav))

	synced := Mount(scope.NewOwner(root), "q", InputOptions{Sync: true})
	local := Mount(scope.NewOwner(root), "other", InputOptions{})

	if synced.Text() != "potions" {
		t.Errorf("synced Text() = %q", synced.Text())
	}
	if e, _ := reg.Get("q"); e.QueryString() != "potions" || !e.HasURLSync {
		t.Errorf("Get(q) = %+v", e)
	}
	if e, ok := reg.Get("other"); !ok || e.Query.Valid {
		t.Errorf("Get(other) = %+v, %v", e, ok)
	}
	if local.Text() != "" {
		t.Errorf("local Text() = %q", local.Text())
	}
}

func TestInputMissingParamIsAbsent(t *testing.T) {
	nav := urlparam.NewMemory("/items")
	root := scope.NewOwner(nil)
	defer root.Dispose()
	reg := Provide(root, WithNavigator(nav))

	Mount(root, "q", InputOptions{Sync: true})
	if e, ok := reg.Get("q"); !ok || e.Query.Valid {
		t.Errorf("Get(q) = %+v, %v", e, ok)
	}
}

func TestInputCommitLifecycle(t *testing.T) {
	nav := urlparam.NewMemory("/items")
	root := scope.NewOwner(nil)
	defer root.Dispose()
	reg := Provide(root, WithNavigator(nav))

	owner := scope.NewOwner(root)
	in := Mount(owner, "q", InputOptions{Sync: true})

	in.Input("pot")
	in.Input("potion")
	if e, _ := reg.Get("q"); e.Query.Valid {
		t.Error("typing changed the registry before commit")
	}
	if len(nav.History()) != 0 {
		t.Error("typing navigated")
	}

	in.Commit()
	if e, _ := reg.Get("q"); e.QueryString() != "potion" {
		t.Errorf("Get(q) = %+v", e)
	}
	if nav.URL() != "/items?q=potion" {
		t.Errorf("URL() = %q", nav.URL())
	}

	owner.Dispose()
	if reg.Has("q") {
		t.Error("entry still registered after unmount")
	}

	in.Commit()
	if reg.Has("q") {
		t.Error("commit after unmount re-registered the entry")
	}
	in.Unmount()
}

func TestMountOutsideProviderPanics(t *testing.T) {
	owner := scope.NewOwner(nil)
	defer owner.Dispose()
	defer func() {
		if recover() == nil {
			t.Error("Mount did not panic")
		}
	}()
	Mount(owner, "q", InputOptions{})
}
