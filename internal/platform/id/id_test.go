package id_test

import (
	"testing"

	"journal/internal/platform/id"
)

func TestTimeOrderedIsUniqueWithinTheSameMillisecond(t *testing.T) {
	t.Parallel()
	gen := id.TimeOrdered{}
	seen := make(map[string]struct{}, 5000)
	for i := 0; i < 5000; i++ {
		v := gen.New()
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate id after %d generations: %s", i, v)
		}
		seen[v] = struct{}{}
	}
}

func TestDerivedIsStableAndSensitiveToParts(t *testing.T) {
	t.Parallel()
	a := id.Derived("0", "2024-01-01", "legacy")
	if a != id.Derived("0", "2024-01-01", "legacy") {
		t.Fatalf("derived id changed between calls")
	}
	if a == id.Derived("1", "2024-01-01", "legacy") {
		t.Fatalf("position must change the id")
	}
	if id.Derived("a", "bc") == id.Derived("ab", "c") {
		t.Fatalf("part boundaries must change the id")
	}
}
