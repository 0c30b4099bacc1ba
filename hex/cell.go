package hex

import "fmt"

// Cell identifies a board location: one of the four edge sentinels,
// or an interior cell. Interior cells are numbered row-major from a1,
// so the id of a given coordinate depends on the board size.
type Cell int

const (
	North Cell = iota
	East
	South
	West
	FirstCell

	NoCell Cell = -1
)

// MaxSize is the largest supported board dimension.
const MaxSize = 11

// MaxCells bounds cell ids: four sentinels plus an 11x11 interior.
const MaxCells = int(FirstCell) + MaxSize*MaxSize

func (c Cell) IsEdge() bool {
	return c >= North && c < FirstCell
}

// ColorEdge1 returns the first edge the color must connect: North for
// Black, East for White.
func ColorEdge1(c Color) Cell {
	if c == Black {
		return North
	}
	return East
}

// ColorEdge2 returns the second edge: South for Black, West for White.
func ColorEdge2(c Color) Cell {
	if c == Black {
		return South
	}
	return West
}

// CellAt returns the cell id of column x, row y on a board of the
// given size.
func CellAt(x, y, size int) Cell {
	return FirstCell + Cell(y*size+x)
}

// Coords returns the column and row of an interior cell.
func Coords(c Cell, size int) (x, y int) {
	i := int(c - FirstCell)
	return i % size, i / size
}

var edgeNames = [...]string{"north", "east", "south", "west"}

func (c Cell) String() string {
	if c == NoCell {
		return "none"
	}
	if c.IsEdge() {
		return edgeNames[c]
	}
	// Size-dependent; FormatCell renders interior cells.
	return fmt.Sprintf("cell(%d)", int(c))
}

// FormatCell renders a cell as coordinate text ("a1".."k11") or an
// edge name.
func FormatCell(c Cell, size int) string {
	if c.IsEdge() || c == NoCell {
		return c.String()
	}
	x, y := Coords(c, size)
	return fmt.Sprintf("%c%d", 'a'+x, y+1)
}

// ParseCell parses coordinate text or an edge name.
func ParseCell(s string, size int) (Cell, error) {
	switch s {
	case "north", "n":
		return North, nil
	case "south", "s":
		return South, nil
	case "east", "e":
		return East, nil
	case "west", "w":
		return West, nil
	}
	if len(s) < 2 {
		return NoCell, fmt.Errorf("bad cell: %q", s)
	}
	x := int(s[0] - 'a')
	if x < 0 || x >= size {
		return NoCell, fmt.Errorf("bad column in %q", s)
	}
	var y int
	if _, err := fmt.Sscanf(s[1:], "%d", &y); err != nil {
		return NoCell, fmt.Errorf("bad row in %q", s)
	}
	y--
	if y < 0 || y >= size {
		return NoCell, fmt.Errorf("bad row in %q", s)
	}
	return CellAt(x, y, size), nil
}
