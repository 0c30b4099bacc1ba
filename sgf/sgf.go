// Package sgf reads Hex game records: the main line of an SGF file,
// enough to reconstruct a position. Variations and properties other
// than SZ, B and W are skipped.
package sgf

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hexforge/hexe/hex"
)

type Move struct {
	Color hex.Color
	// X and Y are 0-based board coordinates.
	X, Y int
}

type Game struct {
	Size  int
	Moves []Move
}

func ParseFile(path string) (*Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return g, nil
}

func Parse(r io.Reader) (*Game, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := string(raw)
	g := &Game{Size: 11}
	depth := 0
	i := 0
	for i < len(text) {
		switch c := text[i]; {
		case c == '(':
			depth++
			i++
		case c == ')':
			depth--
			i++
		case c == ';' || c == ' ' || c == '\n' || c == '\r' || c == '\t':
			i++
		case c >= 'A' && c <= 'Z':
			// Property: IDENT[value][value]...
			j := i
			for j < len(text) && text[j] >= 'A' && text[j] <= 'Z' {
				j++
			}
			ident := text[i:j]
			var values []string
			for j < len(text) && text[j] == '[' {
				end := strings.IndexByte(text[j:], ']')
				if end < 0 {
					return nil, fmt.Errorf("unterminated property %s", ident)
				}
				values = append(values, text[j+1:j+end])
				j += end + 1
			}
			if len(values) == 0 {
				return nil, fmt.Errorf("property %s has no value", ident)
			}
			// Only the main line is read.
			if depth == 1 {
				if err := g.apply(ident, values[0]); err != nil {
					return nil, err
				}
			}
			i = j
		default:
			i++
		}
	}
	if g.Size < 3 || g.Size > hex.MaxSize {
		return nil, fmt.Errorf("unsupported board size %d", g.Size)
	}
	return g, nil
}

func (g *Game) apply(ident, value string) error {
	switch ident {
	case "SZ":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bad SZ %q", value)
		}
		g.Size = n
	case "B", "W":
		color := hex.Black
		if ident == "W" {
			color = hex.White
		}
		switch value {
		case "", "resign", "swap-pieces", "swap-sides":
			return nil
		}
		x, y, err := parseCoord(value, g.Size)
		if err != nil {
			return err
		}
		g.Moves = append(g.Moves, Move{Color: color, X: x, Y: y})
	}
	return nil
}

// parseCoord accepts both SGF letter pairs ("cc") and board
// coordinates ("c3").
func parseCoord(s string, size int) (int, int, error) {
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("bad move %q", s)
	}
	x := int(s[0] - 'a')
	if s[1] >= 'a' && s[1] <= 'z' {
		y := int(s[1] - 'a')
		if x < 0 || x >= size || y < 0 || y >= size {
			return 0, 0, fmt.Errorf("move %q off board", s)
		}
		return x, y, nil
	}
	y, err := strconv.Atoi(s[1:])
	if err != nil || x < 0 || x >= size || y < 1 || y > size {
		return 0, 0, fmt.Errorf("bad move %q", s)
	}
	return x, y - 1, nil
}

// Position replays the first n moves (all of them if n <= 0) onto a
// fresh board.
func (g *Game) Position(n int) (*hex.Position, error) {
	if n <= 0 || n > len(g.Moves) {
		n = len(g.Moves)
	}
	pos := hex.New(g.Size)
	for _, m := range g.Moves[:n] {
		c := hex.CellAt(m.X, m.Y, g.Size)
		if pos.At(c) != hex.Empty {
			return nil, fmt.Errorf("move to occupied cell %s",
				hex.FormatCell(c, g.Size))
		}
		pos.Play(c, m.Color)
	}
	return pos, nil
}
