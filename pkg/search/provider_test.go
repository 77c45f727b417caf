package search

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/registry/internal/errors"
	"github.com/vango-dev/registry/pkg/registry"
	"github.com/vango-dev/registry/pkg/scope"
)

func TestUseOutsideProvider(t *testing.T) {
	owner := scope.NewOwner(nil)
	defer owner.Dispose()

	defer func() {
		r := recover()
		err, ok := r.(*errors.RegistryError)
		if !ok {
			t.Fatalf("panic value = %#v, want *RegistryError", r)
		}
		if err.Code != "E201" {
			t.Errorf("Code = %q, want E201", err.Code)
		}
		if err.Message != "useSearch must be used within a SearchProvider" {
			t.Errorf("Message = %q", err.Message)
		}
		if !stderrors.Is(err, errors.ErrNoProvider) {
			t.Error("error does not match ErrNoProvider")
		}
	}()
	Use(owner)
	t.Fatal("Use did not panic")
}

func TestProviderSharedByDescendants(t *testing.T) {
	root := scope.NewOwner(nil)
	defer root.Dispose()

	provided := Provide(root)
	a := scope.NewOwner(root)
	b := scope.NewOwner(scope.NewOwner(root))

	Use(a).Add("q", registry.Some("x"), false)
	if got, _ := Use(b).Get("q"); got.QueryString() != "x" {
		t.Errorf("sibling scope saw %+v", got)
	}
	if Use(b) != provided {
		t.Error("Use returned a different registry")
	}
}

func TestNestedProvidersAreIndependent(t *testing.T) {
	root := scope.NewOwner(nil)
	defer root.Dispose()
	outer := Provide(root)

	child := scope.NewOwner(root)
	inner := Provide(child)

	inner.Add("q", registry.Some("inner"), false)
	if outer.Has("q") {
		t.Error("nested provider leaked into outer registry")
	}
	if Use(scope.NewOwner(child)) != inner {
		t.Error("nearest provider should win")
	}
}

func TestProviderDisposed(t *testing.T) {
	root := scope.NewOwner(nil)
	r := Provide(root)
	r.Add("q", registry.Some("x"), false)

	root.Dispose()

	if r.Len() != 0 {
		t.Error("registry not cleared on dispose")
	}
	if _, ok := TryUse(root); ok {
		t.Error("TryUse found a registry on a disposed owner")
	}
}

func TestTryUse(t *testing.T) {
	owner := scope.NewOwner(nil)
	defer owner.Dispose()

	if r, ok := TryUse(owner); ok || r != nil {
		t.Errorf("TryUse = %v, %v", r, ok)
	}
	Provide(owner)
	if _, ok := TryUse(owner); !ok {
		t.Error("TryUse missed the provider")
	}
}

func TestUseOnDisposedOwner(t *testing.T) {
	root := scope.NewOwner(nil)
	Provide(root)
	root.Dispose()

	defer func() {
		err, ok := recover().(*errors.RegistryError)
		if !ok || err.Code != "E203" {
			t.Errorf("panic = %v, want E203", err)
		}
	}()
	Use(root)
}
