package filter

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/vango-dev/registry/pkg/registry"
)

func TestFilterScenario(t *testing.T) {
	r := New()
	r.Add(map[string]Entry{
		"color": NewEntry("red", "attr"),
		"size":  NewEntry("M", "attr"),
	})

	r.Update(map[string]Entry{"color": NewEntry("blue", "attr")})
	if e, _ := r.Get("color"); e.Value.OrElse(nil) != "blue" {
		t.Errorf("color = %v", e.Value)
	}
	if e, _ := r.Get("size"); e.Value.OrElse(nil) != "M" {
		t.Error("merge touched an unlisted id")
	}

	r.ResetOne("color")
	e, ok := r.Get("color")
	if !ok || e.Value.Valid || e.Category != "attr" {
		t.Errorf("after reset color = %+v, %v", e, ok)
	}

	r.RemoveAll()
	if r.HasAny() {
		t.Error("HasAny() after RemoveAll")
	}
}

func TestAddAndUpdateAreTheSameMerge(t *testing.T) {
	a, b := New(), New()
	start := map[string]Entry{"x": NewEntry(1, "n"), "y": NewEntry(2, "n")}
	patch := map[string]Entry{"y": NewEntry(3, "m"), "z": {Category: "new"}}

	a.Add(start)
	a.Add(patch)
	b.Update(start)
	b.Update(patch)

	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Errorf("Add = %v, Update = %v", a.Snapshot(), b.Snapshot())
	}
	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3", a.Len())
	}
}

func TestOneVariants(t *testing.T) {
	r := New()
	r.AddOne("a", NewEntry([]string{"x", "y"}, "multi"))
	r.UpdateOne("b", NewEntry(true, "flag"))

	if !r.HasAll("a", "b") || r.HasAll("a", "c") || !r.HasAll() {
		t.Error("HasAll mismatch")
	}
	got := r.GetBulk("a", "missing")
	if len(got) != 1 || !reflect.DeepEqual(got["a"].Value.OrElse(nil), []string{"x", "y"}) {
		t.Errorf("GetBulk = %v", got)
	}

	r.RemoveOne("a")
	if r.Has("a") || !r.Has("b") {
		t.Errorf("IDs() = %v", r.IDs())
	}
}

func TestResetBulk(t *testing.T) {
	r := New()
	r.Add(map[string]Entry{"a": NewEntry(1, "x"), "b": NewEntry(2, "y")})

	calls := 0
	r.Subscribe(func(registry.Change[Entry]) { calls++ })

	r.Reset("a", "b", "missing")
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if r.Has("missing") {
		t.Error("Reset created an id")
	}
	for id, e := range r.Snapshot() {
		if e.Value.Valid {
			t.Errorf("%s still has a value", id)
		}
	}
	if e, _ := r.Get("b"); e.Category != "y" {
		t.Errorf("category = %q, want y", e.Category)
	}

	r.ResetAll()
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	empty := New()
	empty.Subscribe(func(registry.Change[Entry]) { t.Error("ResetAll on empty registry notified") })
	empty.ResetAll()
}

func TestRemovePartial(t *testing.T) {
	r := New()
	r.Add(map[string]Entry{"x": {}, "z": {}})
	r.Remove("x", "y")
	if r.Len() != 1 || !r.Has("z") {
		t.Errorf("IDs() = %v, want [z]", r.IDs())
	}
	r.Remove(IDsOf(map[string]Entry{"z": {}})...)
	if r.Len() != 0 {
		t.Error("IDsOf removal left entries")
	}
}

func TestRemoveHookFailureKeepsOthers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var seen []string
	r := New(WithLogger(logger), WithRemoveHook(func(id string, e Entry) error {
		seen = append(seen, id)
		switch id {
		case "bad":
			return stderrors.New("still in use")
		case "boom":
			panic("hook exploded")
		}
		return nil
	}))
	r.Add(map[string]Entry{"a": {}, "bad": {}, "boom": {}, "c": {}})

	kept := r.Remove("a", "bad", "boom", "c")

	if want := []string{"bad", "boom"}; !reflect.DeepEqual(kept, want) {
		t.Errorf("kept = %v, want %v", kept, want)
	}
	if got := r.IDs(); !reflect.DeepEqual(got, []string{"bad", "boom"}) {
		t.Errorf("IDs() = %v", got)
	}
	if len(seen) != 4 {
		t.Errorf("hook ran for %v", seen)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "hook exploded") {
		t.Errorf("log output = %q", out)
	}
}

func TestRemoveKeepsEntryReplacedDuringHook(t *testing.T) {
	var r *Registry
	var hookValues []any
	r = New(WithRemoveHook(func(id string, e Entry) error {
		hookValues = append(hookValues, e.Value.Value)
		if id == "color" && e.Value.Value == "red" {
			// Another writer swaps the entry while the hook runs.
			r.AddOne("color", NewEntry("blue", "attr"))
		}
		return nil
	}))
	r.Add(map[string]Entry{
		"color": NewEntry("red", "attr"),
		"size":  NewEntry("m", "attr"),
	})

	kept := r.Remove("color", "size")

	if !reflect.DeepEqual(kept, []string{"color"}) {
		t.Errorf("kept = %v, want [color]", kept)
	}
	if e, ok := r.Get("color"); !ok || e.Value.Value != "blue" {
		t.Errorf("color = %+v, %v; want the replacement to survive", e, ok)
	}
	if r.Has("size") {
		t.Error("size should be removed")
	}
	if !reflect.DeepEqual(hookValues, []any{"red", "m"}) {
		t.Errorf("hook saw %v", hookValues)
	}

	if kept := r.Remove("color"); kept != nil || r.Has("color") {
		t.Errorf("second Remove kept %v", kept)
	}
}

func TestRemoveAllUsesHook(t *testing.T) {
	r := New(WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithRemoveHook(func(id string, _ Entry) error {
			if id == "pinned" {
				return stderrors.New("pinned")
			}
			return nil
		}))
	r.Add(map[string]Entry{"a": {}, "pinned": {}})

	r.RemoveAll()
	if got := r.IDs(); len(got) != 1 || got[0] != "pinned" {
		t.Errorf("IDs() = %v", got)
	}

	r.Close()
	if r.Len() != 0 {
		t.Error("Close should bypass the hook")
	}
}

func TestFilterModel(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := New()
		model := map[string]Entry{}
		ids := rapid.SampledFrom([]string{"a", "b", "c"})

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			id := ids.Draw(rt, "id")
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				e := NewEntry(rapid.Int().Draw(rt, "value"), rapid.SampledFrom([]string{"x", "y"}).Draw(rt, "cat"))
				r.AddOne(id, e)
				model[id] = e
			case 1:
				r.ResetOne(id)
				if e, ok := model[id]; ok {
					model[id] = Entry{Category: e.Category}
				}
			case 2:
				r.RemoveOne(id)
				delete(model, id)
			case 3:
				r.ResetAll()
				for k, e := range model {
					model[k] = Entry{Category: e.Category}
				}
			}

			if !reflect.DeepEqual(r.Snapshot(), model) {
				rt.Fatalf("step %d: registry %v, model %v", i, r.Snapshot(), model)
			}
		}
	})
}

func ExampleRegistry_Reset() {
	r := New()
	r.AddOne("color", NewEntry("red", "attr"))
	r.Reset("color")

	e, _ := r.Get("color")
	fmt.Println(e.Value, e.Category)
	// Output: <none> attr
}
