package vc

import (
	"fmt"

	"github.com/hexforge/hexe/bitset"
	"github.com/hexforge/hexe/hex"
	"github.com/hexforge/hexe/pattern"
)

// Params control the builder's rules.
type Params struct {
	// MaxOrs bounds the OR rule's subset size; 16 or more selects the
	// enhanced partition-refinement algorithm.
	MaxOrs int
	// AndOverEdge allows AND-closure through edge sentinels.
	AndOverEdge bool
	// UsePatterns seeds the build with VC pattern matches.
	UsePatterns bool
	// UseNonEdgePatterns includes patterns with no edge endpoint.
	UseNonEdgePatterns bool
	// UseGreedyUnion selects the greedy union when synthesizing a full
	// from a whole semi list.
	UseGreedyUnion bool
	// AbortOnWinningConnection stops the search as soon as a full
	// exists between the color's two edges.
	AbortOnWinningConnection bool
}

func DefaultParams() Params {
	return Params{
		MaxOrs:             4,
		UsePatterns:        true,
		UseNonEdgePatterns: true,
		UseGreedyUnion:     true,
	}
}

type andRule uint8

const (
	createFull andRule = iota
	createSemi
)

// Builder constructs connection sets, either from scratch or
// incrementally after stones are played. One builder performs one
// build at a time; its queues and scratch space are reused across
// builds.
type Builder struct {
	params Params
	lib    *pattern.Library

	set    *Set
	color  hex.Color
	groups *hex.Groups
	pos    *hex.Position
	log    *Log

	statsFor [3]Stats
	stats    *Stats

	captured [hex.MaxCells]bitset.Set
	nbs      [hex.MaxCells]bitset.Set

	fulls fullQueue
	semis pairQueue

	// Scratch for the OR algorithms.
	orSemis []VC
	orTail  []bitset.Set
	setMem  []bitset.Set
}

// NewBuilder creates a builder with the given pattern library; nil
// selects the compiled-in one.
func NewBuilder(params Params, lib *pattern.Library) *Builder {
	if lib == nil {
		lib = pattern.Default()
	}
	if len(lib.Captured) == 0 {
		panic("pattern library has no captured-set patterns")
	}
	return &Builder{params: params, lib: lib}
}

// Stats returns the accumulated counters for a color.
func (b *Builder) Stats(color hex.Color) *Stats { return &b.statsFor[color] }

// NewState binds the builder's pattern library to a position. The
// state handed to a build must be bound to the position being built.
func (b *Builder) NewState(pos *hex.Position) *pattern.State {
	return pattern.NewState(b.lib, pos)
}

// BuildStatic populates the set from scratch for the current
// position.
func (b *Builder) BuildStatic(set *Set, groups *hex.Groups, ps *pattern.State) {
	b.set = set
	b.color = set.Color()
	b.groups = groups
	b.pos = groups.Position()
	b.log = nil
	b.statsFor[b.color] = Stats{}
	b.stats = &b.statsFor[b.color]
	set.Clear()
	b.fulls.clear()
	b.semis.clear()
	b.nbs = [hex.MaxCells]bitset.Set{}

	b.computeCapturedSets(ps)
	b.addBaseVCs()
	b.addEdgeChain()
	if b.params.UsePatterns {
		b.addPatternVCs(ps)
	}
	b.doSearch()
}

// BuildIncremental repairs the set after the added stones were
// played. The set must hold the connections of the position before
// the stones; oldGroups describes that position, newGroups the new
// one. Mutations are journaled to log when it is non-nil.
func (b *Builder) BuildIncremental(set *Set, oldGroups, newGroups *hex.Groups,
	ps *pattern.State, added [3]bitset.Set, log *Log) {
	if added[hex.Black].Intersects(added[hex.White]) {
		panic("added stones of both colors overlap")
	}
	b.set = set
	b.color = set.Color()
	b.groups = newGroups
	b.pos = newGroups.Position()
	b.log = log
	b.stats = &b.statsFor[b.color]
	b.fulls.clear()
	b.semis.clear()

	b.computeCapturedSets(ps)
	b.merge(oldGroups, added)
	b.addEdgeChain()
	if b.params.UsePatterns {
		b.addPatternVCs(ps)
	}

	b.nbs = [hex.MaxCells]bitset.Set{}
	caps := b.ownOrEmptyCaptains(newGroups)
	for x := caps.First(); x >= 0; x = caps.Next(x) {
		for y := caps.Next(x); y >= 0; y = caps.Next(y) {
			if b.set.Exists(hex.Cell(x), hex.Cell(y), Full) {
				b.nbs[x].Set(y)
				b.nbs[y].Set(x)
			}
		}
	}

	b.doSearch()
}

func (b *Builder) ownOrEmptyCaptains(g *hex.Groups) bitset.Set {
	return g.CaptainsNotOf(b.color.Flip())
}

// computeCapturedSets fills the per-cell captured sets from a single
// pattern probe at every empty cell.
func (b *Builder) computeCapturedSets(ps *pattern.State) {
	empty := b.pos.Empty()
	for c := 0; c < hex.MaxCells; c++ {
		if empty.Test(c) {
			b.captured[c] = ps.CapturedSet(b.color, hex.Cell(c))
		} else {
			b.captured[c] = bitset.Set{}
		}
	}
}

// addBaseVCs seeds the adjacency connections: an empty-carrier full
// from every own-or-empty group to each of its empty neighbors.
func (b *Builder) addBaseVCs() {
	empty := b.pos.Empty()
	caps := b.ownOrEmptyCaptains(b.groups)
	for x := caps.First(); x >= 0; x = caps.Next(x) {
		g := b.groups.Group(hex.Cell(x))
		nbs := g.Nbs.And(empty)
		for y := nbs.First(); y >= 0; y = nbs.Next(y) {
			v := NewFull(g.Captain, hex.Cell(y), bitset.Set{}, RuleBase)
			b.stats.BaseAttempts++
			if b.set.Add(v, b.log) != AddFailed {
				b.stats.BaseSuccesses++
				b.pushFull(v)
			}
		}
	}
}

// addEdgeChain records a solid chain joining the player's two edges
// as the empty-carrier full it is; the edge pair is never reachable
// through the closure rules once both edges share a captain.
func (b *Builder) addEdgeChain() {
	e1, e2 := hex.ColorEdge1(b.color), hex.ColorEdge2(b.color)
	if b.groups.CaptainOf(e1) != b.groups.CaptainOf(e2) {
		return
	}
	v := NewFull(e1, e2, bitset.Set{}, RuleBase)
	b.stats.BaseAttempts++
	if b.set.Add(v, b.log) != AddFailed {
		b.stats.BaseSuccesses++
		b.pushFull(v)
	}
}

// addPatternVCs seeds connections from the VC pattern library.
func (b *Builder) addPatternVCs(ps *pattern.State) {
	for _, m := range ps.VCMatches(b.color, b.params.UseNonEdgePatterns) {
		x := b.groups.CaptainOf(m.X)
		y := b.groups.CaptainOf(m.Y)
		if x == y {
			continue
		}
		v := NewFull(x, y, m.Carrier, RulePattern)
		b.stats.PatternAttempts++
		if b.set.Add(v, b.log) != AddFailed {
			b.stats.PatternSuccesses++
			b.pushFull(v)
		}
	}
}

// merge updates the set to the new board in one pass: connections
// touched by opponent stones are destroyed, connections touched by
// own stones are shrunk, and lists of groups merged into larger
// groups are folded into the lists now responsible for them.
func (b *Builder) merge(oldGroups *hex.Groups, added [3]bitset.Set) {
	// Killing must use the old grouping: with stones of both colors
	// added, two of our groups may be about to merge, but connections
	// through the opponent's stones must die first.
	b.removeAllContaining(oldGroups, added[b.color.Flip()])

	affected := added[b.color]
	for x := added[b.color].First(); x >= 0; x = added[b.color].Next(x) {
		nbs := b.pos.Nbs(hex.Cell(x))
		for y := nbs.First(); y >= 0; y = nbs.Next(y) {
			g := oldGroups.Group(hex.Cell(y))
			if g.Color == b.color {
				affected.Set(int(g.Captain))
			}
		}
	}
	b.mergeAndShrink(affected, added[b.color])
}

func (b *Builder) removeAllContaining(oldGroups *hex.Groups, mask bitset.Set) {
	other := b.color.Flip()
	caps := oldGroups.CaptainsNotOf(other)
	for x := caps.First(); x >= 0; x = caps.Next(x) {
		// Skip old groups that are now the opponent's.
		if b.groups.Group(hex.Cell(x)).Color == other {
			continue
		}
		for y := caps.Next(x); y >= 0; y = caps.Next(y) {
			if b.groups.Group(hex.Cell(y)).Color == other {
				continue
			}
			if l := b.set.Lookup(Full, hex.Cell(x), hex.Cell(y)); l != nil {
				b.stats.Killed0 += len(l.RemoveAllContaining(mask, b.log))
			}
			if l := b.set.Lookup(Semi, hex.Cell(x), hex.Cell(y)); l != nil {
				b.stats.Killed1 += len(l.RemoveAllContaining(mask, b.log))
			}
		}
	}
}

// mergeAndShrink walks every pair of own-or-empty cells where each
// cell is affected or is a group captain, and moves or shrinks
// the lists between them to the lists of the pair's new captains.
func (b *Builder) mergeAndShrink(affected, added bitset.Set) {
	cells := b.pos.Stones(b.color).Or(b.pos.Empty())
	cells.Set(int(hex.ColorEdge1(b.color)))
	cells.Set(int(hex.ColorEdge2(b.color)))
	for x := cells.First(); x >= 0; x = cells.Next(x) {
		if !b.groups.IsCaptain(hex.Cell(x)) && !affected.Test(x) {
			continue
		}
		for y := cells.Next(x); y >= 0; y = cells.Next(y) {
			if !b.groups.IsCaptain(hex.Cell(y)) && !affected.Test(y) {
				continue
			}
			cx := b.groups.CaptainOf(hex.Cell(x))
			cy := b.groups.CaptainOf(hex.Cell(y))
			// A cell played next to group x now shares its captain;
			// there is nothing to merge into (captain, captain).
			if cx != cy {
				b.mergeAndShrinkLists(added, hex.Cell(x), hex.Cell(y), cx, cy)
			}
		}
	}
}

// mergeAndShrinkLists moves the lists between (xin, yin) to (xout,
// yout), shrinking carriers touched by the added stones and upgrading
// semis whose key was played.
//
// Shrinking can leave semis that are supersets of fulls; they are
// rare and the checks cost more than they save, so they are not
// purged.
func (b *Builder) mergeAndShrinkLists(added bitset.Set, xin, yin, xout, yout hex.Cell) {
	if xin == yin || xout == yout {
		panic(fmt.Sprintf("merge with equal endpoints: %d %d %d %d",
			int(xin), int(yin), int(xout), int(yout)))
	}

	fullsIn := b.set.GetList(Full, xin, yin)
	semisIn := b.set.GetList(Semi, xin, yin)
	fullsOut := b.set.GetList(Full, xout, yout)
	semisOut := b.set.GetList(Semi, xout, yout)
	merging := fullsIn != fullsOut

	removed := fullsIn.RemoveAllContaining(added, b.log)
	if merging {
		fullsOut.Append(fullsIn, b.log)
		for i := 0; i < fullsIn.Len(); i++ {
			b.pushFull(*fullsIn.At(i))
		}
	}
	for i := range removed {
		v := ShrinkFull(removed[i], added, xout, yout)
		if fullsOut.Add(v, b.log) != AddFailed {
			b.stats.Shrunk0++
			b.pushFull(v)
		}
	}

	removedSemis := semisIn.RemoveAllContaining(added, b.log)
	if merging {
		// These could be supersets of fullsOut entries.
		semisOut.Append(semisIn, b.log)
	}
	wasShrink := false
	for i := range removedSemis {
		if !added.Test(int(removedSemis[i].Key)) {
			v := ShrinkSemi(removedSemis[i], added, xout, yout)
			if semisOut.Add(v, b.log) != AddFailed {
				wasShrink = true
				b.stats.Shrunk1++
			}
		}
	}

	if merging || wasShrink {
		b.semis.push(semisOut.X(), semisOut.Y())
	}

	// Upgrades run after shrinking so every dominated semi is already
	// in semisOut when the superset purge runs.
	for i := range removedSemis {
		if added.Test(int(removedSemis[i].Key)) {
			v := UpgradeSemi(removedSemis[i], added, xout, yout)
			if fullsOut.Add(v, b.log) != AddFailed {
				semisOut.RemoveSuperSetsOf(v.Carrier, b.log)
				b.stats.Upgraded++
				b.pushFull(v)
			}
		}
	}
}

// doSearch drains the work queues to a fixed point, fulls first.
func (b *Builder) doSearch() {
	for {
		if !b.fulls.empty() {
			b.processFulls(b.fulls.pop())
		} else if !b.semis.empty() {
			x, y := b.semis.pop()
			b.processSemis(x, y)
		} else {
			return
		}
		if b.params.AbortOnWinningConnection &&
			b.set.Exists(hex.ColorEdge1(b.color), hex.ColorEdge2(b.color), Full) {
			return
		}
	}
}

func (b *Builder) processFulls(v VC) {
	list := b.set.GetList(Full, v.X, v.Y)
	i := list.Find(&v)
	if i < 0 || list.At(i).Processed {
		return
	}
	b.andClosure(*list.At(i))
	// The closure never mutates this list (the intermediate differs
	// from both endpoints), but re-locate before flagging anyway.
	if j := list.Find(&v); j >= 0 {
		list.At(j).Processed = true
		if b.log != nil {
			b.log.pushProcessed(*list.At(j))
		}
	}
}

// andClosure chains v with every processed full in the soft prefix of
// the lists between a neighboring group z and either endpoint. This
// is the hottest loop of a build.
func (b *Builder) andClosure(v VC) {
	var endp [2]hex.Cell
	endp[0] = b.groups.CaptainOf(v.X)
	endp[1] = b.groups.CaptainOf(v.Y)
	if endp[0] == endp[1] {
		// The endpoints merged; the connection is internal now.
		return
	}
	vcCaptured := b.captured[endp[0]].Or(b.captured[endp[1]])
	for i := 0; i < 2; i++ {
		if endp[i].IsEdge() && !b.params.AndOverEdge {
			continue
		}
		j := (i + 1) & 1
		nbs := b.nbs[endp[i]]
		for zi := nbs.First(); zi >= 0; zi = nbs.Next(zi) {
			z := hex.Cell(zi)
			if z == endp[0] || z == endp[1] || v.Carrier.Test(zi) {
				continue
			}
			capturedSet := vcCaptured.Or(b.captured[zi])
			old := b.set.GetList(Full, z, endp[i])
			if old.SoftIntersection().And(v.Carrier).AndNot(capturedSet).Any() {
				continue
			}
			rule := createFull
			if b.pos.At(endp[i]) == hex.Empty {
				rule = createSemi
			}
			b.doAnd(z, endp[i], endp[j], rule, v, capturedSet, old)
		}
	}
}

// doAnd composes v with each processed connection of the soft prefix
// of old, which joins from to over; the result joins from to to. A
// connection is produced when the carriers are disjoint, when their
// intersection hides inside the captured set, or (as a semi) when it
// is a single cell.
func (b *Builder) doAnd(from, over, to hex.Cell, rule andRule, v VC,
	capturedSet bitset.Set, old *List) {
	for i := 0; i < old.SoftLen(); i++ {
		a := old.At(i)
		if !a.Processed || a.Carrier.Test(int(to)) {
			continue
		}
		inter := a.Carrier.And(v.Carrier)

		if inter.None() {
			if rule == createFull {
				b.stats.AndFullAttempts++
				if b.addNewFull(AndFull(from, to, a, &v, bitset.Set{})) {
					b.stats.AndFullSuccesses++
				}
			} else {
				b.stats.AndSemiAttempts++
				if b.addNewSemi(AndSemi(from, to, a, &v, over, bitset.Set{})) {
					b.stats.AndSemiSuccesses++
				}
			}
			continue
		}

		if rule == createFull && inter.Count() == 1 {
			key := hex.Cell(inter.First())
			b.stats.AndSemiAttempts++
			if b.addNewSemi(AndSemi(from, to, a, &v, key, bitset.Set{})) {
				b.stats.AndSemiSuccesses++
			}
		}

		if inter.IsSubsetOf(capturedSet) {
			if rule == createFull {
				b.stats.AndFullAttempts++
				if b.addNewFull(AndFull(from, to, a, &v, capturedSet)) {
					b.stats.AndFullSuccesses++
				}
			} else {
				b.stats.AndSemiAttempts++
				if b.addNewSemi(AndSemi(from, to, a, &v, over, capturedSet)) {
					b.stats.AndSemiSuccesses++
				}
			}
			continue
		}

		if rule == createFull {
			rest := inter.AndNot(capturedSet)
			if rest.Count() == 1 {
				key := hex.Cell(rest.First())
				b.stats.AndSemiAttempts++
				if b.addNewSemi(AndSemi(from, to, a, &v, key, capturedSet)) {
					b.stats.AndSemiSuccesses++
				}
			}
		}
	}
}

// processSemis retries OR combination on the pair's semi list.
func (b *Builder) processSemis(x, y hex.Cell) {
	semis := b.set.GetList(Semi, x, y)
	fulls := b.set.GetList(Full, x, y)
	capturedSet := b.captured[x].Or(b.captured[y])
	// A cell every semi needs that is not captured blocks any union;
	// the entries still count as processed, and will serve as
	// partners once a new semi empties the intersection.
	if semis.HardIntersection().AndNot(capturedSet).Any() {
		for i := 0; i < semis.SoftLen(); i++ {
			if cur := semis.At(i); !cur.Processed {
				cur.Processed = true
				if b.log != nil {
					b.log.pushProcessed(*cur)
				}
			}
		}
		return
	}

	var added []VC

	if b.params.MaxOrs >= 16 {
		b.stats.DoOrs++
		if b.enhancedOr(semis, fulls, &added) {
			b.stats.GoodOrs++
		}
		for i := 0; i < semis.Len(); i++ {
			if cur := semis.At(i); !cur.Processed {
				cur.Processed = true
				if b.log != nil {
					b.log.pushProcessed(*cur)
				}
			}
		}
	} else {
		for i := 0; i < semis.SoftLen(); i++ {
			if semis.At(i).Processed {
				continue
			}
			b.stats.DoOrs++
			if b.orRule(*semis.At(i), semis, fulls, &added) > 0 {
				b.stats.GoodOrs++
			}
			semis.At(i).Processed = true
			if b.log != nil {
				b.log.pushProcessed(*semis.At(i))
			}
		}
		// The intersection is empty but bounded OR found nothing:
		// union the whole list so a full always exists in that case.
		if fulls.Empty() {
			var carrier bitset.Set
			if b.params.UseGreedyUnion {
				carrier = semis.GreedyUnion()
			} else {
				carrier = semis.Union()
			}
			v := NewFull(x, y, carrier.Or(capturedSet), RuleAll)
			fulls.Add(v, b.log)
			added = append(added, v)
			// No semi can be a superset of v, so no purge is needed.
		}
	}

	for i := range added {
		b.pushFull(added[i])
	}
}

// addNewFull adds a derived full; on success dominated semis between
// the endpoints are purged and the full is queued for closure.
func (b *Builder) addNewFull(v VC) bool {
	if b.set.Add(v, b.log) == AddFailed {
		return false
	}
	b.set.GetList(Semi, v.X, v.Y).RemoveSuperSetsOf(v.Carrier, b.log)
	b.pushFull(v)
	return true
}

// addNewSemi adds a derived semi unless a full between the endpoints
// already dominates it; on success the pair is queued for OR work.
func (b *Builder) addNewSemi(v VC) bool {
	if b.set.GetList(Full, v.X, v.Y).IsSupersetOfAny(v.Carrier) {
		return false
	}
	if b.set.GetList(Semi, v.X, v.Y).Add(v, b.log) == AddFailed {
		return false
	}
	b.semis.push(v.X, v.Y)
	return true
}

func (b *Builder) pushFull(v VC) {
	b.fulls.push(v)
	x := b.groups.CaptainOf(v.X)
	y := b.groups.CaptainOf(v.Y)
	b.nbs[x].Set(int(y))
	b.nbs[y].Set(int(x))
}
