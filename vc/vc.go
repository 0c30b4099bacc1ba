// Package vc implements the virtual-connection engine: the data model
// of proven connections between groups, and the builder that derives
// them by AND-closure and OR-combination, statically or incrementally.
package vc

import (
	"fmt"

	"github.com/hexforge/hexe/bitset"
	"github.com/hexforge/hexe/hex"
)

// Type distinguishes full connections (proven regardless of who moves
// next) from semi connections (proven once the key is played).
type Type uint8

const (
	Full Type = iota
	Semi
)

func (t Type) String() string {
	if t == Full {
		return "full"
	}
	return "semi"
}

// Rule records how a connection was derived.
type Rule uint8

const (
	RuleBase Rule = iota
	RulePattern
	RuleAnd
	RuleOr
	// RuleAll tags a full synthesized by unioning an entire semi list.
	RuleAll
)

func (r Rule) String() string {
	switch r {
	case RuleBase:
		return "base"
	case RulePattern:
		return "pattern"
	case RuleAnd:
		return "and"
	case RuleOr:
		return "or"
	default:
		return "all"
	}
}

// VC is a proven connection between the groups captained by X and Y.
// The carrier is the set of empty cells the player must control for
// the connection to hold; it never contains an endpoint or an
// opponent stone. For a Semi, Key is the carrier cell whose occupation
// upgrades it to a Full.
type VC struct {
	X, Y      hex.Cell
	Carrier   bitset.Set
	Key       hex.Cell
	Type      Type
	Rule      Rule
	Processed bool
}

// NewFull builds a full connection; endpoints are normalized and
// stripped from the carrier.
func NewFull(x, y hex.Cell, carrier bitset.Set, rule Rule) VC {
	if x == y {
		panic(fmt.Sprintf("vc with equal endpoints: %d", int(x)))
	}
	if x > y {
		x, y = y, x
	}
	carrier.Reset(int(x))
	carrier.Reset(int(y))
	return VC{X: x, Y: y, Carrier: carrier, Key: hex.NoCell, Type: Full, Rule: rule}
}

// NewSemi builds a semi connection with the given key, which must lie
// in the carrier.
func NewSemi(x, y hex.Cell, carrier bitset.Set, key hex.Cell, rule Rule) VC {
	if x == y {
		panic(fmt.Sprintf("vc with equal endpoints: %d", int(x)))
	}
	if x > y {
		x, y = y, x
	}
	carrier.Reset(int(x))
	carrier.Reset(int(y))
	if !carrier.Test(int(key)) {
		panic(fmt.Sprintf("semi key %d not in carrier", int(key)))
	}
	return VC{X: x, Y: y, Carrier: carrier, Key: key, Type: Semi, Rule: rule}
}

// AndFull chains two connections through an own-colored intermediate
// group: the result's carrier is the union of both carriers plus any
// captured-set widening.
func AndFull(x, y hex.Cell, a, b *VC, captured bitset.Set) VC {
	return NewFull(x, y, a.Carrier.Or(b.Carrier).Or(captured), RuleAnd)
}

// AndSemi chains two connections through the key cell: an empty
// intermediate, or the single cell of a tolerated intersection.
func AndSemi(x, y hex.Cell, a, b *VC, key hex.Cell, captured bitset.Set) VC {
	carrier := a.Carrier.Or(b.Carrier).Or(captured)
	carrier.Set(int(key))
	return NewSemi(x, y, carrier, key, RuleAnd)
}

// ShrinkFull removes newly-played own cells from the carrier and
// re-endpoints the connection.
func ShrinkFull(v VC, added bitset.Set, x, y hex.Cell) VC {
	return NewFull(x, y, v.Carrier.AndNot(added), v.Rule)
}

// ShrinkSemi likewise; the key must not be among the added cells.
func ShrinkSemi(v VC, added bitset.Set, x, y hex.Cell) VC {
	if added.Test(int(v.Key)) {
		panic("shrinking a semi whose key was played")
	}
	return NewSemi(x, y, v.Carrier.AndNot(added), v.Key, v.Rule)
}

// UpgradeSemi turns a semi whose key was just played into a full.
func UpgradeSemi(v VC, added bitset.Set, x, y hex.Cell) VC {
	if v.Type != Semi || !added.Test(int(v.Key)) {
		panic("upgrade of a vc whose key was not played")
	}
	return NewFull(x, y, v.Carrier.AndNot(added), v.Rule)
}

// Same reports identity for list lookup: endpoints, type and carrier.
func (v *VC) Same(o *VC) bool {
	return v.X == o.X && v.Y == o.Y && v.Type == o.Type && v.Carrier.Equal(o.Carrier)
}

func (v VC) String() string {
	return fmt.Sprintf("%s(%d,%d|%d)", v.Type, int(v.X), int(v.Y), v.Carrier.Count())
}
