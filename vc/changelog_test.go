package vc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hexforge/hexe/hex"
)

// snapshot captures the ordered contents of every list.
func snapshot(s *Set) map[string][]VC {
	out := map[string][]VC{}
	for _, t := range []Type{Full, Semi} {
		t := t
		s.Lists(t, func(l *List) {
			key := t.String() + "/" + l.X().String() + "/" + l.Y().String()
			out[key] = l.VCs()
		})
	}
	return out
}

func diffSnapshots(a, b map[string][]VC) string {
	return cmp.Diff(a, b, cmpopts.EquateEmpty())
}

func TestRollbackRestoresExactState(t *testing.T) {
	s := NewSet(hex.Black)
	s.Add(full(10, 20, 30, 31), nil)
	s.Add(full(10, 20, 40, 41), nil)
	s.Add(NewSemi(10, 20, carrier(50, 51), 50, RuleAnd), nil)
	before := snapshot(s)

	log := NewLog()
	mark := log.Mark()

	// A mix of adds, dominance evictions, removals and processing.
	s.Add(full(10, 20, 30), log) // evicts {30,31}
	s.Add(full(10, 20, 60, 61, 62), log)
	s.GetList(Full, 10, 20).RemoveAllContaining(carrier(41), log)
	l := s.GetList(Semi, 10, 20)
	l.At(0).Processed = true
	log.pushProcessed(*l.At(0))
	s.Add(NewSemi(10, 20, carrier(70), 70, RuleOr), log)

	if diff := diffSnapshots(before, snapshot(s)); diff == "" {
		t.Fatal("mutations should have changed the set")
	}

	log.RollbackTo(s, mark)
	if diff := diffSnapshots(before, snapshot(s)); diff != "" {
		t.Errorf("rollback mismatch (-before +after):\n%s", diff)
	}
	if log.Len() != 0 {
		t.Errorf("log should be empty after rollback, len=%d", log.Len())
	}
}

func TestRollbackToMark(t *testing.T) {
	s := NewSet(hex.Black)
	log := NewLog()
	s.Add(full(10, 20, 30), log)
	mid := snapshot(s)
	mark := log.Mark()
	s.Add(full(30, 40, 50), log)
	s.Add(full(10, 20, 31), log)

	log.RollbackTo(s, mark)
	if diff := diffSnapshots(mid, snapshot(s)); diff != "" {
		t.Errorf("rollback to mark mismatch:\n%s", diff)
	}
	// The pre-mark add is still journaled.
	if log.Len() != 1 {
		t.Errorf("log len=%d, want 1", log.Len())
	}
}
