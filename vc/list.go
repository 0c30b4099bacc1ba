package vc

import (
	"github.com/hexforge/hexe/bitset"
	"github.com/hexforge/hexe/hex"
)

// AddResult reports what happened on a list insert.
type AddResult uint8

const (
	// AddFailed: the new connection was dominated by an existing one.
	AddFailed AddResult = iota
	// AddInsideSoft: inserted within the soft-limit prefix.
	AddInsideSoft
	// AddOutsideSoft: inserted past the soft limit; kept but not
	// propagated by the builder's rules.
	AddOutsideSoft
)

// DefaultSoftLimit is the prefix length the builder actively
// propagates.
const DefaultSoftLimit = 10

// List holds the connections of one type between a fixed endpoint
// pair, ordered by carrier size then insertion. No entry's carrier is
// a superset of another's.
type List struct {
	x, y hex.Cell
	soft int
	vcs  []VC

	hard, softI bitset.Set
	dirty       bool
}

func newList(x, y hex.Cell, soft int) *List {
	if x > y {
		x, y = y, x
	}
	return &List{x: x, y: y, soft: soft, dirty: true}
}

func (l *List) X() hex.Cell    { return l.x }
func (l *List) Y() hex.Cell    { return l.y }
func (l *List) Len() int       { return len(l.vcs) }
func (l *List) Empty() bool    { return len(l.vcs) == 0 }
func (l *List) SoftLimit() int { return l.soft }
func (l *List) At(i int) *VC   { return &l.vcs[i] }

// VCs returns a copy of the entries, for inspection.
func (l *List) VCs() []VC {
	out := make([]VC, len(l.vcs))
	copy(out, l.vcs)
	return out
}

// SoftLen is the number of entries in the soft prefix.
func (l *List) SoftLen() int {
	if len(l.vcs) < l.soft {
		return len(l.vcs)
	}
	return l.soft
}

func (l *List) recompute() {
	l.hard = bitset.Universe()
	l.softI = bitset.Universe()
	for i := range l.vcs {
		l.hard = l.hard.And(l.vcs[i].Carrier)
		if i < l.soft {
			l.softI = l.softI.And(l.vcs[i].Carrier)
		}
	}
	l.dirty = false
}

// HardIntersection is the AND of every carrier; the universe for an
// empty list.
func (l *List) HardIntersection() bitset.Set {
	if l.dirty {
		l.recompute()
	}
	return l.hard
}

// SoftIntersection is the AND of the carriers in the soft prefix.
func (l *List) SoftIntersection() bitset.Set {
	if l.dirty {
		l.recompute()
	}
	return l.softI
}

// Add inserts preserving carrier-size order and the dominance
// invariant. The new connection is rejected if an existing carrier is
// a subset of its carrier; existing supersets of it are removed.
func (l *List) Add(v VC, log *Log) AddResult {
	n := v.Carrier.Count()
	for i := range l.vcs {
		if l.vcs[i].Carrier.IsSubsetOf(v.Carrier) {
			return AddFailed
		}
	}
	l.RemoveSuperSetsOf(v.Carrier, log)
	idx := len(l.vcs)
	for i := range l.vcs {
		if l.vcs[i].Carrier.Count() > n {
			idx = i
			break
		}
	}
	l.insertAt(idx, v)
	if log != nil {
		log.pushAdd(v, idx)
	}
	if !l.dirty {
		l.hard = l.hard.And(v.Carrier)
		if idx < l.soft {
			// The insert may push an entry out of the prefix, so the
			// soft intersection is rebuilt, not just narrowed.
			l.softI = bitset.Universe()
			for i := 0; i < l.SoftLen(); i++ {
				l.softI = l.softI.And(l.vcs[i].Carrier)
			}
		}
	}
	if idx < l.soft {
		return AddInsideSoft
	}
	return AddOutsideSoft
}

// Append adds every entry of other, in order, re-keyed to this list's
// endpoints. Reports whether any landed inside the soft prefix.
func (l *List) Append(other *List, log *Log) bool {
	inside := false
	for i := range other.vcs {
		v := other.vcs[i]
		v.X, v.Y = l.x, l.y
		if l.Add(v, log) == AddInsideSoft {
			inside = true
		}
	}
	return inside
}

// RemoveAllContaining removes every connection whose carrier
// intersects mask and returns them in list order.
func (l *List) RemoveAllContaining(mask bitset.Set, log *Log) []VC {
	var removed []VC
	for i := 0; i < len(l.vcs); {
		if l.vcs[i].Carrier.Intersects(mask) {
			removed = append(removed, l.vcs[i])
			if log != nil {
				log.pushRemove(l.vcs[i], i)
			}
			l.removeAt(i)
		} else {
			i++
		}
	}
	return removed
}

// RemoveSuperSetsOf removes every connection dominated by the given
// carrier.
func (l *List) RemoveSuperSetsOf(carrier bitset.Set, log *Log) {
	for i := 0; i < len(l.vcs); {
		if carrier.IsSubsetOf(l.vcs[i].Carrier) {
			if log != nil {
				log.pushRemove(l.vcs[i], i)
			}
			l.removeAt(i)
		} else {
			i++
		}
	}
}

// IsSupersetOfAny reports whether some entry's carrier is a subset of
// the given carrier.
func (l *List) IsSupersetOfAny(carrier bitset.Set) bool {
	for i := range l.vcs {
		if l.vcs[i].Carrier.IsSubsetOf(carrier) {
			return true
		}
	}
	return false
}

// Find returns the index of the entry identical to v, or -1.
func (l *List) Find(v *VC) int {
	for i := range l.vcs {
		if l.vcs[i].Same(v) {
			return i
		}
	}
	return -1
}

// Union ORs every carrier.
func (l *List) Union() bitset.Set {
	var u bitset.Set
	for i := range l.vcs {
		u = u.Or(l.vcs[i].Carrier)
	}
	return u
}

// GreedyUnion ORs carriers in order, skipping any that does not
// shrink the running intersection, and stops once the intersection is
// empty.
func (l *List) GreedyUnion() bitset.Set {
	var u bitset.Set
	inter := bitset.Universe()
	for i := range l.vcs {
		if inter.None() {
			break
		}
		next := inter.And(l.vcs[i].Carrier)
		if !next.Equal(inter) {
			inter = next
			u = u.Or(l.vcs[i].Carrier)
		}
	}
	return u
}

func (l *List) insertAt(i int, v VC) {
	l.vcs = append(l.vcs, VC{})
	copy(l.vcs[i+1:], l.vcs[i:])
	l.vcs[i] = v
}

func (l *List) removeAt(i int) {
	copy(l.vcs[i:], l.vcs[i+1:])
	l.vcs = l.vcs[:len(l.vcs)-1]
	l.dirty = true
}
