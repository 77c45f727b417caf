package registry

import (
	"encoding/json"
	"testing"
)

func TestOptional(t *testing.T) {
	some := Some("potions")
	if v, ok := some.Get(); !ok || v != "potions" {
		t.Errorf("Some.Get() = %q, %v", v, ok)
	}
	if some.String() != "potions" {
		t.Errorf("Some.String() = %q", some.String())
	}

	none := None[string]()
	if _, ok := none.Get(); ok {
		t.Error("None should not be valid")
	}
	if none.OrElse("fallback") != "fallback" {
		t.Error("None.OrElse should return fallback")
	}
	if none.String() != "<none>" {
		t.Errorf("None.String() = %q", none.String())
	}

	var zero Optional[int]
	if zero.Valid {
		t.Error("zero Optional should be absent")
	}

	// Present empty string is not absence.
	empty := Some("")
	if !empty.Valid || empty.OrElse("x") != "" {
		t.Error("Some(\"\") should be present")
	}
}

func TestOptionalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Optional[string]
		want string
	}{
		{"present", Some("a"), `"a"`},
		{"present empty", Some(""), `""`},
		{"absent", None[string](), `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}

			var out Optional[string]
			if err := json.Unmarshal(data, &out); err != nil {
				t.Fatal(err)
			}
			if out != tt.in {
				t.Errorf("Unmarshal = %+v, want %+v", out, tt.in)
			}
		})
	}

	var bad Optional[int]
	if err := json.Unmarshal([]byte(`"nope"`), &bad); err == nil {
		t.Error("expected error decoding string into Optional[int]")
	}
}
