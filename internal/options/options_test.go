package options

import "testing"

func TestNewAppliesDefaults(t *testing.T) {
	o := New()
	if o.LineNumberMode != Optional {
		t.Fatalf("got %v, want Optional", o.LineNumberMode)
	}
	if o.GosubLimit != defaultGosubLimit || o.MemorySize != defaultMemorySize {
		t.Fatalf("got gosub=%d memory=%d", o.GosubLimit, o.MemorySize)
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	o := New(
		WithLineNumberMode(Mandatory),
		WithLineLimit(999),
		WithComments(false),
		WithGosubLimit(10),
		WithMemory(0),
	)
	if o.LineNumberMode != Mandatory || o.LineLimit != 999 || o.CommentsOn || o.GosubLimit != 10 || o.MemorySize != 0 {
		t.Fatalf("got %+v", o)
	}
}

func TestParseLineNumberMode(t *testing.T) {
	cases := map[string]LineNumberMode{"optional": Optional, "implied": Implied, "mandatory": Mandatory}
	for s, want := range cases {
		got, ok := ParseLineNumberMode(s)
		if !ok || got != want {
			t.Fatalf("%q: got %v, %v; want %v, true", s, got, ok, want)
		}
	}
	if _, ok := ParseLineNumberMode("bogus"); ok {
		t.Fatalf("expected ok=false for invalid mode string")
	}
}
