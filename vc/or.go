package vc

import (
	"github.com/hexforge/hexe/bitset"
	"github.com/hexforge/hexe/hex"
)

// orRule is the bounded OR: it walks subsets of size 2..MaxOrs of the
// processed soft-prefix semis containing v, tracking the running AND
// and OR incrementally, and emits a full whenever the AND is empty or
// hides inside the captured set. Subsets whose next semi does not
// shrink the AND are pruned, as are branches whose tail intersection
// can no longer reach empty. Returns the number of fulls added.
func (b *Builder) orRule(v VC, semiList, fullList *List, added *[]VC) int {
	if semiList.Empty() {
		return 0
	}
	b.orSemis = b.orSemis[:0]
	for i := 0; i < semiList.SoftLen(); i++ {
		if semiList.At(i).Processed {
			b.orSemis = append(b.orSemis, *semiList.At(i))
		}
	}
	if len(b.orSemis) == 0 {
		return 0
	}
	n := len(b.orSemis)
	if cap(b.orTail) < n {
		b.orTail = make([]bitset.Set, n)
	}
	b.orTail = b.orTail[:n]
	// orTail[i] is the intersection of carriers i..n-1, for pruning.
	b.orTail[n-1] = b.orSemis[n-1].Carrier
	for i := n - 2; i >= 0; i-- {
		b.orTail[i] = b.orSemis[i].Carrier.And(b.orTail[i+1])
	}

	maxOrs := b.params.MaxOrs - 1
	xCap := b.captured[semiList.X()]
	yCap := b.captured[semiList.Y()]
	capturedSet := xCap.Or(yCap)
	uncaptured := capturedSet.Not()

	var index [16]int
	var ors, ands [16]bitset.Set
	ors[0] = v.Carrier
	ands[0] = v.Carrier
	index[1] = 0
	d := 1
	count := 0
	for {
		i := index[d]
		// The running AND cannot reach empty against the tail
		// intersection, so the rest of this level is hopeless.
		if i < n && ands[d-1].And(b.orTail[i]).And(uncaptured).Any() {
			i = n
		}
		if i == n {
			if d == 1 {
				break
			}
			d--
			index[d]++
			continue
		}
		ands[d] = ands[d-1].And(b.orSemis[i].Carrier)
		ors[d] = ors[d-1].Or(b.orSemis[i].Carrier)
		switch {
		case ands[d].None():
			nv := NewFull(fullList.X(), fullList.Y(), ors[d], RuleOr)
			b.stats.OrAttempts++
			if fullList.Add(nv, b.log) != AddFailed {
				count++
				b.stats.OrSuccesses++
				*added = append(*added, nv)
			}
			index[d]++
		case ands[d].IsSubsetOf(capturedSet):
			// The leftover intersection hides in one or both captured
			// sets; widen the carrier by the ones it touches.
			carrier := ors[d]
			if ands[d].Intersects(xCap) {
				carrier = carrier.Or(xCap)
			}
			if ands[d].Intersects(yCap) {
				carrier = carrier.Or(yCap)
			}
			nv := NewFull(fullList.X(), fullList.Y(), carrier, RuleOr)
			b.stats.OrAttempts++
			if fullList.Add(nv, b.log) != AddFailed {
				count++
				b.stats.OrSuccesses++
				*added = append(*added, nv)
			}
			index[d]++
		case ands[d].Equal(ands[d-1]):
			// This semi does not shrink the intersection; skip it.
			index[d]++
		default:
			if d < maxOrs {
				index[d+1] = i + 1
				d++
			} else {
				index[d]++
			}
		}
	}
	return count
}

// enhancedOr is the partition-refinement OR over the whole semi list.
// Carriers live in four contiguous ranges of the setMem scratch:
// unprocessed new semis, processed old semis, fulls surviving the
// current filter, and this level's outputs. Whenever the filtered
// fulls run dry a full is emitted from the semi ranges; otherwise one
// cell of the smallest surviving full is forbidden and the ranges are
// re-filtered into a recursive call. Whenever the whole list's
// intersection is empty at least one full comes out.
func (b *Builder) enhancedOr(semiList, fullList *List, added *[]VC) bool {
	st := orState{
		x:        semiList.X(),
		y:        semiList.Y(),
		xCap:     b.captured[semiList.X()],
		yCap:     b.captured[semiList.Y()],
		fullList: fullList,
		added:    added,
	}
	b.setMem = b.setMem[:0]

	newCount := 0
	for i := 0; i < semiList.Len(); i++ {
		if !semiList.At(i).Processed {
			b.setMem = append(b.setMem, semiList.At(i).Carrier)
			newCount++
		}
	}
	if newCount == 0 {
		return false
	}
	oldCount := 0
	for i := 0; i < semiList.Len(); i++ {
		if semiList.At(i).Processed {
			b.setMem = append(b.setMem, semiList.At(i).Carrier)
			oldCount++
		}
	}
	filteredCount := 0
	for i := 0; i < fullList.Len(); i++ {
		b.setMem = append(b.setMem, fullList.At(i).Carrier)
		filteredCount++
	}
	return b.orSearch(&st, bitset.Set{}, true, true, 0, newCount, oldCount, filteredCount) > 0
}

type orState struct {
	x, y       hex.Cell
	xCap, yCap bitset.Set
	fullList   *List
	added      *[]VC
}

func (b *Builder) orSearch(st *orState, forbidden bitset.Set, capX, capY bool,
	newSemis, newCount, oldCount, filteredCount int) int {
	oldSemis := newSemis + newCount
	iNew := b.intersectMem(newSemis, newCount)
	iOld := b.intersectMem(oldSemis, oldCount)
	inter := iNew.And(iOld)

	var capturedSet bitset.Set
	if capX {
		capturedSet = capturedSet.Or(st.xCap)
	}
	if capY {
		capturedSet = capturedSet.Or(st.yCap)
	}
	if !inter.IsSubsetOf(capturedSet) {
		b.setMem = b.setMem[:newSemis]
		return 0
	}

	filtered := oldSemis + oldCount
	newConn := filtered + filteredCount
	newConnCount := 0

	if filteredCount == 0 {
		var minCap bitset.Set
		if inter.Intersects(st.xCap) {
			minCap = minCap.Or(st.xCap)
		}
		if inter.Intersects(st.yCap) {
			minCap = minCap.Or(st.yCap)
		}
		u := b.orEmit(st, newSemis, newCount+oldCount, minCap)
		b.setMem = append(b.setMem, u)
		filteredCount++
		newConnCount++
	}

	forbidden = forbidden.Or(iNew)

	for {
		minSize := bitset.Bits + 1
		var allowed bitset.Set
		for i := 0; i < filteredCount; i++ {
			a := b.setMem[filtered+i].AndNot(forbidden)
			if n := a.Count(); n < minSize {
				minSize = n
				allowed = a
			}
		}
		if minSize == 0 {
			// Every surviving full is inside the forbidden set: this
			// branch is covered. Move the outputs down and pop the
			// scratch.
			for i := 0; i < newConnCount; i++ {
				b.setMem[newSemis+i] = b.setMem[newConn+i]
			}
			b.setMem = b.setMem[:newSemis+newConnCount]
			return newConnCount
		}

		a := allowed.First()
		forbidden.Set(a)

		recNewCount := b.filterMem(newSemis, newCount, a)
		recOldCount := b.filterMem(oldSemis, oldCount, a)
		recFilteredCount := b.filterMem(filtered, filteredCount, a)
		got := b.orSearch(st, forbidden,
			capX && !st.xCap.Test(a), capY && !st.yCap.Test(a),
			filtered+filteredCount, recNewCount, recOldCount, recFilteredCount)
		filteredCount += got
		newConnCount += got
	}
}

// orEmit unions carriers from the range until the running
// intersection hides inside capturedSet, adds the resulting full, and
// returns its carrier. The caller guarantees the whole range's
// intersection is covered, so the loop terminates, and the emitted
// carrier avoids every forbidden cell, so the add cannot be
// dominated.
func (b *Builder) orEmit(st *orState, start, count int, capturedSet bitset.Set) bitset.Set {
	u := capturedSet
	inter := bitset.Universe()
	b.stats.OrAttempts++
	for i := 0; ; i++ {
		next := b.setMem[start+i]
		if inter.IsSubsetOf(next) {
			continue
		}
		inter = inter.And(next)
		u = u.Or(next)
		if inter.IsSubsetOf(capturedSet) {
			break
		}
	}
	v := NewFull(st.x, st.y, u, RuleOr)
	if st.fullList.Add(v, b.log) == AddFailed {
		panic("enhanced or: emitted full was dominated")
	}
	b.stats.OrSuccesses++
	*st.added = append(*st.added, v)
	return v.Carrier
}

func (b *Builder) intersectMem(start, count int) bitset.Set {
	inter := bitset.Universe()
	for i := 0; i < count; i++ {
		inter = inter.And(b.setMem[start+i])
	}
	return inter
}

// filterMem appends the sets of the range that avoid cell a to the
// end of the scratch and returns how many.
func (b *Builder) filterMem(start, count, a int) int {
	res := 0
	for i := 0; i < count; i++ {
		s := b.setMem[start+i]
		if !s.Test(a) {
			b.setMem = append(b.setMem, s)
			res++
		}
	}
	return res
}
