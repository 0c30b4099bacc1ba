package vc

import "github.com/hexforge/hexe/hex"

// Set is the lattice of connection lists of one color, indexed by
// unordered endpoint pair and type.
type Set struct {
	color hex.Color
	soft  int
	fulls []*List
	semis []*List
}

// NewSet creates an empty set for the color.
func NewSet(color hex.Color) *Set {
	if color == hex.Empty {
		panic("vc set for the empty color")
	}
	return &Set{
		color: color,
		soft:  DefaultSoftLimit,
		fulls: make([]*List, hex.MaxCells*hex.MaxCells),
		semis: make([]*List, hex.MaxCells*hex.MaxCells),
	}
}

func (s *Set) Color() hex.Color { return s.color }

func pairIndex(x, y hex.Cell) int {
	if x > y {
		x, y = y, x
	}
	return int(x)*hex.MaxCells + int(y)
}

// GetList returns the list for a pair and type, creating it if
// needed.
func (s *Set) GetList(t Type, x, y hex.Cell) *List {
	tab := s.fulls
	if t == Semi {
		tab = s.semis
	}
	i := pairIndex(x, y)
	if tab[i] == nil {
		tab[i] = newList(x, y, s.soft)
	}
	return tab[i]
}

// Lookup returns the list if it exists, else nil.
func (s *Set) Lookup(t Type, x, y hex.Cell) *List {
	if t == Semi {
		return s.semis[pairIndex(x, y)]
	}
	return s.fulls[pairIndex(x, y)]
}

// Exists reports whether any connection of the type joins the pair.
func (s *Set) Exists(x, y hex.Cell, t Type) bool {
	l := s.Lookup(t, x, y)
	return l != nil && l.Len() > 0
}

// Add inserts into the list matching the connection's endpoints and
// type.
func (s *Set) Add(v VC, log *Log) AddResult {
	return s.GetList(v.Type, v.X, v.Y).Add(v, log)
}

// Clear drops every list.
func (s *Set) Clear() {
	for i := range s.fulls {
		s.fulls[i] = nil
	}
	for i := range s.semis {
		s.semis[i] = nil
	}
}

// Lists calls f for every non-empty list of the type.
func (s *Set) Lists(t Type, f func(*List)) {
	tab := s.fulls
	if t == Semi {
		tab = s.semis
	}
	for _, l := range tab {
		if l != nil && l.Len() > 0 {
			f(l)
		}
	}
}
