package vc

import (
	"testing"

	"github.com/hexforge/hexe/bitset"
	"github.com/hexforge/hexe/hex"
)

func cell(t *testing.T, name string, size int) hex.Cell {
	t.Helper()
	c, err := hex.ParseCell(name, size)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func position(t *testing.T, size int, black, white []string) *hex.Position {
	t.Helper()
	pos := hex.New(size)
	for _, name := range black {
		pos.Play(cell(t, name, size), hex.Black)
	}
	for _, name := range white {
		pos.Play(cell(t, name, size), hex.White)
	}
	return pos
}

func buildStatic(pos *hex.Position, color hex.Color, params Params) (*Set, *Builder) {
	b := NewBuilder(params, nil)
	set := NewSet(color)
	groups := hex.BuildGroups(pos)
	b.BuildStatic(set, groups, b.NewState(pos))
	return set, b
}

// checkInvariants asserts the quiescent-state properties of a set.
func checkInvariants(t *testing.T, set *Set, pos *hex.Position) {
	t.Helper()
	opp := pos.Stones(set.Color().Flip())
	for _, typ := range []Type{Full, Semi} {
		typ := typ
		set.Lists(typ, func(l *List) {
			vcs := l.VCs()
			for i, v := range vcs {
				if v.X != l.X() || v.Y != l.Y() {
					t.Errorf("vc endpoints (%d,%d) not the list pair (%d,%d)",
						int(v.X), int(v.Y), int(l.X()), int(l.Y()))
				}
				if v.Carrier.Test(int(v.X)) || v.Carrier.Test(int(v.Y)) {
					t.Errorf("carrier contains an endpoint: %s", v)
				}
				if v.Carrier.Intersects(opp) {
					t.Errorf("carrier intersects opponent stones: %s", v)
				}
				if v.Type == Semi && !v.Carrier.Test(int(v.Key)) {
					t.Errorf("semi key outside carrier: %s", v)
				}
				for j, w := range vcs {
					if i != j && v.Carrier.IsSubsetOf(w.Carrier) {
						t.Errorf("dominance violated between %s and %s", v, w)
					}
				}
			}
			hard := bitset.Universe()
			soft := bitset.Universe()
			for i, v := range vcs {
				hard = hard.And(v.Carrier)
				if i < l.SoftLimit() {
					soft = soft.And(v.Carrier)
				}
			}
			if !l.HardIntersection().Equal(hard) {
				t.Errorf("hard intersection stale on (%d,%d)", int(l.X()), int(l.Y()))
			}
			if !l.SoftIntersection().Equal(soft) {
				t.Errorf("soft intersection stale on (%d,%d)", int(l.X()), int(l.Y()))
			}
		})
	}
}

func checkAllProcessed(t *testing.T, set *Set) {
	t.Helper()
	for _, typ := range []Type{Full, Semi} {
		set.Lists(typ, func(l *List) {
			if l.Len() > l.SoftLimit() {
				return // entries past the soft limit are never fired
			}
			for _, v := range l.VCs() {
				if !v.Processed {
					t.Errorf("unprocessed vc at fixed point: %s between %d,%d",
						v, int(l.X()), int(l.Y()))
				}
			}
		})
	}
}

func TestEmptyBoardBaseVCs(t *testing.T) {
	pos := position(t, 3, nil, nil)
	set, b := buildStatic(pos, hex.Black, DefaultParams())

	for _, name := range []string{"a1", "b1", "c1"} {
		c := cell(t, name, 3)
		l := set.Lookup(Full, hex.North, c)
		if l == nil || l.Len() == 0 {
			t.Fatalf("no full between north and %s", name)
		}
		if !l.At(0).Carrier.None() {
			t.Errorf("full (north,%s) should have an empty carrier", name)
		}
	}
	for _, name := range []string{"a3", "b3", "c3"} {
		c := cell(t, name, 3)
		if !set.Exists(hex.South, c, Full) {
			t.Errorf("no full between south and %s", name)
		}
	}
	if set.Exists(hex.North, hex.South, Full) {
		t.Error("empty board should not connect the edges")
	}

	checkInvariants(t, set, pos)
	checkAllProcessed(t, set)
	if !b.fulls.empty() || !b.semis.empty() {
		t.Error("queues should be drained at the fixed point")
	}
}

func TestLoneStoneConnectsBothWays(t *testing.T) {
	pos := position(t, 3, []string{"b2"}, nil)
	set, _ := buildStatic(pos, hex.Black, DefaultParams())
	b2 := cell(t, "b2", 3)

	if !set.Exists(hex.North, b2, Full) {
		t.Error("b2 should be fully connected to north")
	}
	if !set.Exists(b2, hex.South, Full) {
		t.Error("b2 should be fully connected to south")
	}
	// The north connection is the edge bridge over b1 and c1.
	l := set.Lookup(Full, hex.North, b2)
	want := carrier(int(cell(t, "b1", 3)), int(cell(t, "c1", 3)))
	found := false
	for _, v := range l.VCs() {
		if v.Carrier.Equal(want) {
			found = true
		}
	}
	if !found {
		t.Error("expected the {b1 c1} bridge carrier to north")
	}
	checkInvariants(t, set, pos)
}

func TestLoneStoneWithoutPatterns(t *testing.T) {
	// The OR rule alone derives the edge connections.
	params := DefaultParams()
	params.UsePatterns = false
	pos := position(t, 3, []string{"b2"}, nil)
	set, _ := buildStatic(pos, hex.Black, params)
	b2 := cell(t, "b2", 3)
	if !set.Exists(hex.North, b2, Full) || !set.Exists(b2, hex.South, Full) {
		t.Error("or-combination should connect a center stone to both edges")
	}
}

func TestChainConnectsEdges(t *testing.T) {
	pos := position(t, 3, []string{"b1", "b2", "b3"}, nil)
	set, _ := buildStatic(pos, hex.Black, DefaultParams())

	l := set.Lookup(Full, hex.North, hex.South)
	if l == nil || l.Len() == 0 {
		t.Fatal("chain should yield an edge-to-edge full")
	}
	if !l.At(0).Carrier.None() {
		t.Error("a solid chain connects with an empty carrier")
	}
	checkInvariants(t, set, pos)
}

func TestAdjacentStonesShareLists(t *testing.T) {
	// Two adjacent stones are one group; base connections run from
	// its captain to every empty neighbor of either stone.
	pos := position(t, 5, []string{"c3", "d3"}, nil)
	set, _ := buildStatic(pos, hex.Black, DefaultParams())

	groups := hex.BuildGroups(pos)
	c3 := cell(t, "c3", 5)
	d3 := cell(t, "d3", 5)
	captain := groups.CaptainOf(c3)
	if captain != groups.CaptainOf(d3) {
		t.Fatal("adjacent stones should share a captain")
	}
	empty := pos.Empty()
	nbs := groups.Group(c3).Nbs.And(empty)
	for i := nbs.First(); i >= 0; i = nbs.Next(i) {
		l := set.Lookup(Full, captain, hex.Cell(i))
		if l == nil || l.Len() == 0 || !l.At(0).Carrier.None() {
			t.Errorf("missing base full from group to %s",
				hex.FormatCell(hex.Cell(i), 5))
		}
	}
	checkInvariants(t, set, pos)
}

func TestAbortOnWinningConnection(t *testing.T) {
	params := DefaultParams()
	params.AbortOnWinningConnection = true
	pos := position(t, 3, []string{"b1", "b2", "b3"}, nil)
	set, _ := buildStatic(pos, hex.Black, params)
	if !set.Exists(hex.North, hex.South, Full) {
		t.Fatal("aborted build should still report the winning connection")
	}
}

func TestWhiteBuildIsTransposed(t *testing.T) {
	pos := position(t, 3, nil, []string{"b2"})
	set, _ := buildStatic(pos, hex.White, DefaultParams())
	b2 := cell(t, "b2", 3)
	if !set.Exists(hex.West, b2, Full) || !set.Exists(b2, hex.East, Full) {
		t.Error("white center stone should connect to west and east")
	}
	if set.Exists(hex.North, b2, Full) {
		t.Error("white set should not track black edges")
	}
}

func TestBridgeFull(t *testing.T) {
	pos := position(t, 5, []string{"b2", "c3"}, nil)
	set, _ := buildStatic(pos, hex.Black, DefaultParams())
	b2, c3 := cell(t, "b2", 5), cell(t, "c3", 5)

	l := set.Lookup(Full, b2, c3)
	if l == nil || l.Len() == 0 {
		t.Fatal("bridge pair should be fully connected")
	}
	want := carrier(int(cell(t, "c2", 5)), int(cell(t, "b3", 5)))
	if !l.At(0).Carrier.Equal(want) {
		t.Errorf("bridge carrier = %v, want {c2 b3}", l.At(0).Carrier)
	}

	// The two single-cell semis are dominated by nothing and carry
	// the bridge keys.
	sl := set.Lookup(Semi, b2, c3)
	if sl == nil || sl.Len() < 2 {
		t.Fatal("bridge pair should have its two key semis")
	}
	keys := map[hex.Cell]bool{}
	for _, v := range sl.VCs() {
		keys[v.Key] = true
	}
	if !keys[cell(t, "c2", 5)] || !keys[cell(t, "b3", 5)] {
		t.Error("semi keys should be the two carrier cells")
	}
	checkInvariants(t, set, pos)
}

func TestStaticBuildIdempotent(t *testing.T) {
	pos := position(t, 3, []string{"b2"}, []string{"a3"})
	set, b := buildStatic(pos, hex.Black, DefaultParams())
	first := snapshot(set)

	groups := hex.BuildGroups(pos)
	b.BuildStatic(set, groups, b.NewState(pos))
	if diff := diffSnapshots(first, snapshot(set)); diff != "" {
		t.Errorf("second build differs:\n%s", diff)
	}
}

func TestStatsCounters(t *testing.T) {
	pos := position(t, 3, []string{"b2"}, nil)
	_, b := buildStatic(pos, hex.Black, DefaultParams())
	s := b.Stats(hex.Black)
	if s.BaseSuccesses == 0 || s.BaseAttempts < s.BaseSuccesses {
		t.Errorf("base counters: %s", s)
	}
	if s.PatternSuccesses == 0 {
		t.Errorf("pattern counters: %s", s)
	}
	if s.AndSemiSuccesses == 0 {
		t.Errorf("and-semi counters: %s", s)
	}
	if s.String() == "" {
		t.Error("stats should render")
	}

	// With patterns off the OR rule does the connecting work itself.
	params := DefaultParams()
	params.UsePatterns = false
	_, b = buildStatic(pos, hex.Black, params)
	s = b.Stats(hex.Black)
	if s.OrSuccesses == 0 || s.DoOrs == 0 {
		t.Errorf("or counters without patterns: %s", s)
	}
	if s.PatternAttempts != 0 {
		t.Errorf("patterns should be off: %s", s)
	}
}
