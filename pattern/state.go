package pattern

import (
	"github.com/hexforge/hexe/bitset"
	"github.com/hexforge/hexe/hex"
)

// Match is a VC pattern hit: a full connection from X to Y over
// Carrier.
type Match struct {
	X, Y    hex.Cell
	Carrier bitset.Set
}

// State matches a library against one position. It must be
// re-created (or simply re-queried) after the position changes; all
// matching is done against the live position.
type State struct {
	lib *Library
	pos *hex.Position
}

func NewState(lib *Library, pos *hex.Position) *State {
	return &State{lib: lib, pos: pos}
}

func (s *State) Position() *hex.Position { return s.pos }

// CapturedSet returns the captured set of playing cell c as color:
// the carrier of the first captured-set pattern matching there, or
// the empty set. c must be empty.
func (s *State) CapturedSet(color hex.Color, c hex.Cell) bitset.Set {
	for i := range s.lib.Captured {
		if carrier, _, ok := s.matchAt(&s.lib.Captured[i], color, c); ok {
			return carrier
		}
	}
	return bitset.Set{}
}

// VCMatches returns every VC pattern hit for color on the current
// position. With useNonEdge false, patterns with no edge endpoint are
// skipped.
func (s *State) VCMatches(color hex.Color, useNonEdge bool) []Match {
	var out []Match
	empty := s.pos.Interior()
	for p := range s.lib.VC {
		pat := &s.lib.VC[p]
		if !useNonEdge && !pat.HasEdgeEndpoint() {
			continue
		}
		for i := empty.First(); i >= 0; i = empty.Next(i) {
			anchor := hex.Cell(i)
			carrier, other, ok := s.matchAt(pat, color, anchor)
			if !ok {
				continue
			}
			out = append(out, Match{X: anchor, Y: other, Carrier: carrier})
		}
	}
	return out
}

// frame maps between real board coordinates and the Black-oriented
// pattern frame. For White the frame is the transposed board.
func frameToReal(color hex.Color, fx, fy int) (int, int) {
	if color == hex.White {
		return fy, fx
	}
	return fx, fy
}

func frameEdge(color hex.Color, e EdgeKind) hex.Cell {
	switch {
	case e == EdgeNorth && color == hex.Black:
		return hex.North
	case e == EdgeSouth && color == hex.Black:
		return hex.South
	case e == EdgeNorth && color == hex.White:
		return hex.West
	default:
		return hex.East
	}
}

// matchAt matches pat anchored at cell c for color. It returns the
// carrier mask and, for two-endpoint VC patterns, the second
// endpoint.
func (s *State) matchAt(pat *Pattern, color hex.Color, c hex.Cell) (bitset.Set, hex.Cell, bool) {
	size := s.pos.Size()
	ax, ay := hex.Coords(c, size)
	// Anchor coordinates in the pattern frame.
	fax, fay := frameToReal(color, ax, ay)

	var carrier bitset.Set
	other := hex.NoCell

	if pat.Kind == KindCaptured {
		if s.pos.At(c) != hex.Empty {
			return carrier, other, false
		}
	} else if s.pos.At(c) == color.Flip() {
		return carrier, other, false
	}

	for _, e := range pat.Cells {
		if e.DX == 0 && e.DY == 0 && e.Role == RoleEndpoint {
			continue // the anchor, checked above
		}
		fx, fy := fax+e.DX, fay+e.DY
		onBoard := fx >= 0 && fx < size && fy >= 0 && fy < size
		if !onBoard {
			// Off-board beyond the frame's north or south counts as
			// an own stone (the edge belongs to the player); any
			// other role off-board fails the match.
			if e.Role == RoleOwn && fx >= 0 && fx < size {
				continue
			}
			return carrier, other, false
		}
		rx, ry := frameToReal(color, fx, fy)
		cell := hex.CellAt(rx, ry, size)
		switch e.Role {
		case RoleEndpoint:
			if s.pos.At(cell) == color.Flip() {
				return carrier, other, false
			}
			other = cell
		case RoleCarrier:
			if s.pos.At(cell) != hex.Empty {
				return carrier, other, false
			}
			carrier.Set(int(cell))
		case RoleOwn:
			if s.pos.At(cell) != color {
				return carrier, other, false
			}
		case RoleEmpty:
			if s.pos.At(cell) != hex.Empty {
				return carrier, other, false
			}
		}
	}

	if pat.Kind == KindVC && pat.Edge != EdgeNone {
		edge := frameEdge(color, pat.Edge)
		// The edge endpoint is only reachable if the whole carrier
		// lies against it.
		nbs := s.pos.Nbs(edge)
		for i := carrier.First(); i >= 0; i = carrier.Next(i) {
			if !nbs.Test(i) {
				return carrier, other, false
			}
		}
		other = edge
	}

	if pat.Kind == KindVC && other == hex.NoCell {
		return carrier, other, false
	}
	return carrier, other, true
}
