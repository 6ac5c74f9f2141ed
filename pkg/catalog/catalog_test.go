// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestInsertAndResolve(t *testing.T) {
	t.Parallel()

	c, err := New(NewUnit("м"), NewUnit("км", Unit{Tag: "м", Mpl: 1000}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	km, ok := c.Resolve("км")
	if !ok {
		t.Fatal("Resolve(км) not found")
	}
	if km.Mpl != 1 || km.Pow != 1 {
		t.Errorf("км defaults = (%g, %d), want (1, 1)", km.Mpl, km.Pow)
	}
	if len(km.Base) != 1 || km.Base[0].Mpl != 1000 || km.Base[0].Pow != 1 {
		t.Errorf("км base = %+v", km.Base)
	}

	if _, ok := c.Resolve("миля"); ok {
		t.Error("Resolve(миля) found an undefined unit")
	}
}

func TestResolveReturnsCopy(t *testing.T) {
	t.Parallel()

	c, err := New(NewUnit("ч", Unit{Tag: "с", Mpl: 3600}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	u, _ := c.Resolve("ч")
	u.Base[0].Mpl = 1
	u.Pow = 5

	again, _ := c.Resolve("ч")
	if again.Base[0].Mpl != 3600 || again.Pow != 1 {
		t.Errorf("catalog entry mutated through Resolve result: %+v", again)
	}
}

func TestInsertRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		unit Unit
		want error
	}{
		{"empty tag", Unit{}, ErrEmptyTag},
		{"empty nested tag", NewUnit("Н", Unit{Tag: ""}), ErrEmptyTag},
		{"composite multiplier", Unit{Tag: "л", Mpl: 0.001, Base: []Unit{{Tag: "м", Pow: 3}}}, ErrCompositeMultiplier},
		{
			"nested composite multiplier",
			NewUnit("x", Unit{Tag: "y", Mpl: 2, Base: []Unit{{Tag: "м"}}}),
			ErrCompositeMultiplier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := New()
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if err := c.Insert(tt.unit); !errors.Is(err, tt.want) {
				t.Errorf("Insert() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTagsSorted(t *testing.T) {
	t.Parallel()

	c, err := New(NewUnit("с"), NewUnit("м"), NewUnit("кг"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := c.Tags()
	if !slices.IsSorted(got) || len(got) != 3 || c.Len() != 3 {
		t.Errorf("Tags() = %v, Len() = %d", got, c.Len())
	}
}

func TestPrefixes(t *testing.T) {
	t.Parallel()

	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for symbol, want := range map[string]int{"к": 3, "мк": -6, "да": 1, "п": -12} {
		if got, ok := c.Prefix(symbol); !ok || got != want {
			t.Errorf("Prefix(%q) = %d, %v; want %d", symbol, got, ok, want)
		}
	}
	if _, ok := c.Prefix("э"); ok {
		t.Error("Prefix(э) found an unknown prefix")
	}

	if err := c.SetPrefix("Э", 18); err != nil {
		t.Fatalf("SetPrefix(Э) error = %v", err)
	}
	if exp, _ := c.Prefix("Э"); exp != 18 {
		t.Errorf("Prefix(Э) = %d, want 18", exp)
	}
	if err := c.SetPrefix("Z", 25); !errors.Is(err, ErrInvalidPrefix) {
		t.Errorf("SetPrefix(Z, 25) error = %v, want ErrInvalidPrefix", err)
	}

	p := c.Prefixes()
	p["к"] = 0
	if exp, _ := c.Prefix("к"); exp != 3 {
		t.Error("Prefixes() returned the live table")
	}
}

func TestConcurrentLookups(t *testing.T) {
	t.Parallel()

	c, err := New(NewUnit("м"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				if _, ok := c.Resolve("м"); !ok {
					t.Error("Resolve(м) not found")
					return
				}
				c.Prefix("к")
			}
		})
	}
	wg.Wait()
}

func TestUnitString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		unit Unit
		want string
	}{
		{NewUnit("м"), "м"},
		{Unit{Tag: "м", Mpl: 1, Pow: -2}, "м^-2"},
		{Unit{Tag: "с", Mpl: 3600, Pow: 1}, "3600·с"},
		{NewUnit("Па", NewUnit("Н"), Unit{Tag: "м", Mpl: 1, Pow: -2}), "Па = Н * м^-2"},
	}

	for _, tt := range tests {
		if got := tt.unit.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
