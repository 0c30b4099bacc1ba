package vc

import (
	"testing"

	"github.com/hexforge/hexe/bitset"
	"github.com/hexforge/hexe/hex"
)

func carrier(cells ...int) bitset.Set {
	var s bitset.Set
	for _, c := range cells {
		s.Set(c)
	}
	return s
}

func full(x, y hex.Cell, cells ...int) VC {
	return NewFull(x, y, carrier(cells...), RuleAnd)
}

func TestAddOrdering(t *testing.T) {
	l := newList(10, 20, DefaultSoftLimit)
	l.Add(full(10, 20, 30, 31, 32), nil)
	l.Add(full(10, 20, 40), nil)
	l.Add(full(10, 20, 50, 51), nil)
	if l.Len() != 3 {
		t.Fatalf("len=%d", l.Len())
	}
	var sizes []int
	for i := 0; i < l.Len(); i++ {
		sizes = append(sizes, l.At(i).Carrier.Count())
	}
	for i := 1; i < len(sizes); i++ {
		if sizes[i-1] > sizes[i] {
			t.Fatalf("not ascending by carrier size: %v", sizes)
		}
	}
}

func TestAddDominance(t *testing.T) {
	l := newList(10, 20, DefaultSoftLimit)
	if got := l.Add(full(10, 20, 30, 31), nil); got != AddInsideSoft {
		t.Fatalf("first add: %d", got)
	}
	// A superset of an existing carrier is rejected.
	if got := l.Add(full(10, 20, 30, 31, 32), nil); got != AddFailed {
		t.Errorf("superset add should fail, got %d", got)
	}
	// An exact duplicate is rejected.
	if got := l.Add(full(10, 20, 30, 31), nil); got != AddFailed {
		t.Errorf("duplicate add should fail, got %d", got)
	}
	// A subset evicts the existing superset.
	if got := l.Add(full(10, 20, 30), nil); got == AddFailed {
		t.Errorf("subset add should succeed")
	}
	if l.Len() != 1 || l.At(0).Carrier.Count() != 1 {
		t.Errorf("superset should have been removed, len=%d", l.Len())
	}
}

func TestIntersections(t *testing.T) {
	l := newList(10, 20, DefaultSoftLimit)
	if !l.HardIntersection().Equal(bitset.Universe()) {
		t.Error("empty list hard intersection should be the universe")
	}
	l.Add(full(10, 20, 30, 31), nil)
	l.Add(full(10, 20, 30, 32), nil)
	want := carrier(30)
	if !l.HardIntersection().Equal(want) {
		t.Errorf("hard intersection = %v", l.HardIntersection())
	}
	if !l.SoftIntersection().Equal(want) {
		t.Errorf("soft intersection = %v", l.SoftIntersection())
	}

	// An entry beyond the soft limit leaves the soft intersection
	// alone.
	l2 := newList(10, 20, 2)
	l2.Add(full(10, 20, 30, 31), nil)
	l2.Add(full(10, 20, 30, 32), nil)
	l2.Add(full(10, 20, 40, 41, 42), nil)
	if !l2.SoftIntersection().Equal(carrier(30)) {
		t.Error("soft intersection should cover only the prefix")
	}
	if l2.HardIntersection().Any() {
		t.Error("hard intersection should be empty")
	}
}

func TestRemoveAllContaining(t *testing.T) {
	l := newList(10, 20, DefaultSoftLimit)
	l.Add(full(10, 20, 30), nil)
	l.Add(full(10, 20, 31, 32), nil)
	l.Add(full(10, 20, 33, 34), nil)
	removed := l.RemoveAllContaining(carrier(31, 33), nil)
	if len(removed) != 2 || l.Len() != 1 {
		t.Fatalf("removed %d, left %d", len(removed), l.Len())
	}
	if !l.At(0).Carrier.Equal(carrier(30)) {
		t.Error("wrong survivor")
	}
	if !l.HardIntersection().Equal(carrier(30)) {
		t.Error("intersections not recomputed after removal")
	}
}

func TestIsSupersetOfAny(t *testing.T) {
	l := newList(10, 20, DefaultSoftLimit)
	l.Add(full(10, 20, 30, 31), nil)
	if !l.IsSupersetOfAny(carrier(30, 31, 32)) {
		t.Error("want true for a strict superset")
	}
	if !l.IsSupersetOfAny(carrier(30, 31)) {
		t.Error("want true for an equal carrier")
	}
	if l.IsSupersetOfAny(carrier(30)) {
		t.Error("want false for a subset")
	}
}

func TestUnions(t *testing.T) {
	l := newList(10, 20, DefaultSoftLimit)
	l.Add(full(10, 20, 30), nil)
	l.Add(full(10, 20, 31), nil)
	l.Add(full(10, 20, 32, 33), nil)
	if !l.Union().Equal(carrier(30, 31, 32, 33)) {
		t.Error("plain union wrong")
	}
	// Greedy: {30} then {31} empty the intersection; {32,33} adds
	// nothing after that.
	if !l.GreedyUnion().Equal(carrier(30, 31)) {
		t.Errorf("greedy union = %v", l.GreedyUnion())
	}
}

func TestSemiKeyInvariant(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("semi with key outside carrier should panic")
		}
	}()
	NewSemi(10, 20, carrier(30), hex.Cell(31), RuleAnd)
}

func TestShrinkUpgrade(t *testing.T) {
	s := NewSemi(10, 20, carrier(30, 31), hex.Cell(30), RuleAnd)

	shrunk := ShrinkSemi(s, carrier(31), 10, 20)
	if shrunk.Type != Semi || shrunk.Key != 30 || !shrunk.Carrier.Equal(carrier(30)) {
		t.Errorf("shrunk semi = %+v", shrunk)
	}

	up := UpgradeSemi(s, carrier(30), 10, 20)
	if up.Type != Full || !up.Carrier.Equal(carrier(31)) || up.Key != hex.NoCell {
		t.Errorf("upgraded = %+v", up)
	}

	f := NewFull(10, 20, carrier(30, 31), RuleAnd)
	g := ShrinkFull(f, carrier(30), 11, 21)
	if g.X != 11 || g.Y != 21 || !g.Carrier.Equal(carrier(31)) {
		t.Errorf("shrunk full = %+v", g)
	}
}
