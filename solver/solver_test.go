package solver

import (
	"context"
	"testing"

	"github.com/hexforge/hexe/hex"
	"github.com/hexforge/hexe/vc"
)

func TestWinningChain(t *testing.T) {
	pos := hex.New(3)
	for _, c := range []hex.Cell{
		hex.CellAt(1, 0, 3), hex.CellAt(1, 1, 3), hex.CellAt(1, 2, 3),
	} {
		pos.Play(c, hex.Black)
	}
	s := New(Config{Params: vc.DefaultParams()})
	if !s.Winning(pos, hex.Black) {
		t.Error("a solid chain should be a proven win")
	}
	if s.Winning(pos, hex.White) {
		t.Error("white is not connected")
	}
}

func TestWinningBridges(t *testing.T) {
	// A center stone with bridges to both edges is already connected.
	pos := hex.New(3)
	pos.Play(hex.CellAt(1, 1, 3), hex.Black)
	s := New(Config{Params: vc.DefaultParams()})
	if !s.Winning(pos, hex.Black) {
		t.Error("b2 on 3x3 should be a proven connection for black")
	}
}

func TestSolveRoot(t *testing.T) {
	// On an empty 3x3 the center move wins outright for black.
	pos := hex.New(3)
	s := New(Config{Parallelism: 2, Params: vc.DefaultParams()})
	moves, err := s.SolveRoot(context.Background(), pos, hex.Black)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, m := range moves {
		if m == hex.CellAt(1, 1, 3) {
			found = true
		}
	}
	if !found {
		t.Errorf("b2 should be among the winning moves, got %v", moves)
	}
	nodes, wins := s.Stats()
	if nodes == 0 || wins != len(moves) {
		t.Errorf("stats nodes=%d wins=%d moves=%d", nodes, wins, len(moves))
	}
	// The root position must be untouched.
	if pos.Stones(hex.Black).Any() || pos.Stones(hex.White).Any() {
		t.Error("solve mutated the root position")
	}
}

func TestSolveRootCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pos := hex.New(3)
	s := New(Config{Params: vc.DefaultParams()})
	if _, err := s.SolveRoot(ctx, pos, hex.Black); err == nil {
		t.Error("cancelled context should surface an error")
	}
}
