package hex

import "github.com/hexforge/hexe/bitset"

// Group is a maximal connected component of same-colored stones,
// merged with any edge sentinel of that color it touches. Empty cells
// are singleton groups. The captain is the smallest member id, so a
// group containing an edge is captained by the edge.
type Group struct {
	Captain Cell
	Color   Color
	Members bitset.Set
	// Nbs is every cell adjacent to a member and outside the group.
	Nbs bitset.Set
}

// Groups is the partition of a position into groups.
type Groups struct {
	pos      *Position
	captain  [MaxCells]Cell
	captains bitset.Set
	groups   [MaxCells]Group // indexed by captain
}

// BuildGroups computes the partition of the position.
func BuildGroups(pos *Position) *Groups {
	g := &Groups{pos: pos}
	var seen bitset.Set

	flood := func(seed Cell, within bitset.Set) {
		members := bitset.Single(int(seed))
		frontier := []Cell{seed}
		for len(frontier) > 0 {
			c := frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
			nbs := pos.Nbs(c).And(within).AndNot(members)
			for i := nbs.First(); i >= 0; i = nbs.Next(i) {
				members.Set(i)
				frontier = append(frontier, Cell(i))
			}
		}
		captain := Cell(members.First())
		var nbs bitset.Set
		for i := members.First(); i >= 0; i = members.Next(i) {
			g.captain[i] = captain
			nbs = nbs.Or(pos.Nbs(Cell(i)))
			seen.Set(i)
		}
		g.captains.Set(int(captain))
		g.groups[captain] = Group{
			Captain: captain,
			Color:   pos.At(captain),
			Members: members,
			Nbs:     nbs.AndNot(members),
		}
	}

	blackSeed := pos.Stones(Black)
	blackSeed.Set(int(North))
	blackSeed.Set(int(South))
	whiteSeed := pos.Stones(White)
	whiteSeed.Set(int(East))
	whiteSeed.Set(int(West))

	for i := blackSeed.First(); i >= 0; i = blackSeed.Next(i) {
		if !seen.Test(i) {
			flood(Cell(i), blackSeed)
		}
	}
	for i := whiteSeed.First(); i >= 0; i = whiteSeed.Next(i) {
		if !seen.Test(i) {
			flood(Cell(i), whiteSeed)
		}
	}
	empty := pos.Empty()
	for i := empty.First(); i >= 0; i = empty.Next(i) {
		c := Cell(i)
		g.captain[i] = c
		g.captains.Set(i)
		g.groups[c] = Group{
			Captain: c,
			Color:   Empty,
			Members: bitset.Single(i),
			Nbs:     pos.Nbs(c),
		}
	}
	return g
}

func (g *Groups) Position() *Position { return g.pos }

func (g *Groups) CaptainOf(c Cell) Cell { return g.captain[c] }

func (g *Groups) IsCaptain(c Cell) bool { return g.captain[c] == c }

// Captains returns the mask of all group captains.
func (g *Groups) Captains() bitset.Set { return g.captains }

// Group returns the group containing c.
func (g *Groups) Group(c Cell) *Group { return &g.groups[g.captain[c]] }

// CaptainsNotOf returns captains of groups that are not the given
// color: the other player's groups and empty singletons.
func (g *Groups) CaptainsNotOf(color Color) bitset.Set {
	out := g.captains
	for i := out.First(); i >= 0; i = out.Next(i) {
		if g.groups[Cell(i)].Color == color {
			out.Reset(i)
		}
	}
	return out
}
