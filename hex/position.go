package hex

import (
	"fmt"
	"strings"

	"github.com/hexforge/hexe/bitset"
)

// Position is a Hex board of a fixed size: a color per interior cell,
// plus the four edge sentinels, which are permanently colored (North
// and South are Black's, East and West are White's).
type Position struct {
	size   int
	colors [MaxCells]Color

	black, white bitset.Set
	interior     bitset.Set

	// nbs[c] is the set of cells adjacent to c, including sentinels.
	nbs [MaxCells]bitset.Set
}

// The six hex-grid neighbor offsets.
var nbOffsets = [6][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {1, -1}, {-1, 1},
}

func New(size int) *Position {
	if size < 3 || size > MaxSize {
		panic(fmt.Sprintf("bad board size: %d", size))
	}
	p := &Position{size: size}
	p.colors[North] = Black
	p.colors[South] = Black
	p.colors[East] = White
	p.colors[West] = White
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := CellAt(x, y, size)
			p.interior.Set(int(c))
			for _, off := range nbOffsets {
				nx, ny := x+off[0], y+off[1]
				if nx >= 0 && nx < size && ny >= 0 && ny < size {
					p.nbs[c].Set(int(CellAt(nx, ny, size)))
				}
			}
			if y == 0 {
				p.link(c, North)
			}
			if y == size-1 {
				p.link(c, South)
			}
			if x == 0 {
				p.link(c, West)
			}
			if x == size-1 {
				p.link(c, East)
			}
		}
	}
	return p
}

func (p *Position) link(a, b Cell) {
	p.nbs[a].Set(int(b))
	p.nbs[b].Set(int(a))
}

func (p *Position) Size() int { return p.size }

// At returns the color of a cell; edges report their fixed color.
func (p *Position) At(c Cell) Color { return p.colors[c] }

// Nbs returns the neighbor mask of a cell.
func (p *Position) Nbs(c Cell) bitset.Set { return p.nbs[c] }

// Interior returns the mask of on-board interior cells.
func (p *Position) Interior() bitset.Set { return p.interior }

// Empty returns the mask of empty interior cells.
func (p *Position) Empty() bitset.Set {
	return p.interior.AndNot(p.black).AndNot(p.white)
}

// Stones returns the mask of interior stones of a color.
func (p *Position) Stones(c Color) bitset.Set {
	switch c {
	case Black:
		return p.black
	case White:
		return p.white
	}
	return bitset.Set{}
}

// Play places a stone. Playing an occupied or off-board cell is a
// programming error.
func (p *Position) Play(c Cell, color Color) {
	if c.IsEdge() || !p.interior.Test(int(c)) {
		panic(fmt.Sprintf("play off board: %d", int(c)))
	}
	if p.colors[c] != Empty {
		panic(fmt.Sprintf("cell occupied: %s", FormatCell(c, p.size)))
	}
	p.colors[c] = color
	if color == Black {
		p.black.Set(int(c))
	} else {
		p.white.Set(int(c))
	}
}

// Unplay removes a stone, for search-style undo.
func (p *Position) Unplay(c Cell) {
	switch p.colors[c] {
	case Black:
		p.black.Reset(int(c))
	case White:
		p.white.Reset(int(c))
	default:
		panic(fmt.Sprintf("cell not occupied: %s", FormatCell(c, p.size)))
	}
	p.colors[c] = Empty
}

func (p *Position) Clone() *Position {
	q := *p
	return &q
}

// String renders the board as a skewed diagram, one row per line.
func (p *Position) String() string {
	var sb strings.Builder
	for y := 0; y < p.size; y++ {
		sb.WriteString(strings.Repeat(" ", y))
		for x := 0; x < p.size; x++ {
			switch p.colors[CellAt(x, y, p.size)] {
			case Black:
				sb.WriteString("B ")
			case White:
				sb.WriteString("W ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
