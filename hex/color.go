package hex

import "fmt"

type Color uint8

const (
	Empty Color = iota
	Black
	White
)

func (c Color) Flip() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	case Empty:
		return Empty
	default:
		panic(fmt.Sprintf("bad color: %d", int(c)))
	}
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	case Empty:
		return "empty"
	default:
		panic(fmt.Sprintf("bad color: %d", int(c)))
	}
}

// ParseColor accepts the usual HTP spellings.
func ParseColor(s string) (Color, error) {
	switch s {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	}
	return Empty, fmt.Errorf("bad color: %q", s)
}
