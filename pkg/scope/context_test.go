package scope

import (
	"testing"

	"github.com/vango-dev/registry/internal/errors"
)

func TestContextProvideAndUse(t *testing.T) {
	ctx := CreateContext[string]("ThemeProvider")
	root := NewOwner(nil)
	ctx.Provide(root, "dark")

	child := NewOwner(root)
	if got := ctx.Use(child); got != "dark" {
		t.Errorf("Use() = %q, want dark", got)
	}
	if ctx.Name() != "ThemeProvider" {
		t.Errorf("Name() = %q", ctx.Name())
	}
}

func TestNestedProviders(t *testing.T) {
	ctx := CreateContext[string]("ThemeProvider")
	root := NewOwner(nil)
	ctx.Provide(root, "outer")

	inner := NewOwner(root)
	ctx.Provide(inner, "inner")

	deepest := NewOwner(inner)
	if ctx.Use(deepest) != "inner" {
		t.Errorf("expected inherited 'inner', got %q", ctx.Use(deepest))
	}
	if ctx.Use(root) != "outer" {
		t.Errorf("expected 'outer' at root, got %q", ctx.Use(root))
	}

	sibling := NewOwner(root)
	if ctx.Use(sibling) != "outer" {
		t.Error("sibling should not see inner provider")
	}
}

func TestMultipleContexts(t *testing.T) {
	theme := CreateContext[string]("ThemeProvider")
	count := CreateContext[int]("CountProvider")

	root := NewOwner(nil)
	theme.Provide(root, "dark")
	count.Provide(root, 42)

	if theme.Use(root) != "dark" || count.Use(root) != 42 {
		t.Error("contexts should not collide")
	}
}

func TestContextLookupMissing(t *testing.T) {
	ctx := CreateContext[*int]("CounterProvider")

	if _, ok := ctx.Lookup(nil); ok {
		t.Error("Lookup(nil) should miss")
	}
	if _, ok := ctx.Lookup(NewOwner(nil)); ok {
		t.Error("Lookup without provider should miss")
	}

	root := NewOwner(nil)
	n := 1
	ctx.Provide(root, &n)
	root.Dispose()
	if _, ok := ctx.Lookup(root); ok {
		t.Error("Lookup on disposed owner should miss")
	}
}

func TestContextUsePanicsWithoutProvider(t *testing.T) {
	ctx := CreateContext[string]("ThemeProvider")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Use() without provider should panic")
		}
		err, ok := r.(*errors.RegistryError)
		if !ok {
			t.Fatalf("panic value = %T, want *errors.RegistryError", r)
		}
		if err.Code != "E200" || !errors.IsUsage(err) {
			t.Errorf("panic = %v, want E200 usage error", err)
		}
	}()

	ctx.Use(NewOwner(nil))
}
