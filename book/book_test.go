package book

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/hexforge/hexe/hex"
)

func open(t *testing.T) *Book {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "book.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestPutGet(t *testing.T) {
	b := open(t)

	if _, ok, err := b.Get(42); err != nil || ok {
		t.Fatalf("missing node: ok=%v err=%v", ok, err)
	}

	n := &Node{Hash: 42, Value: 0.25, Priority: 1.5, Count: 3}
	if err := b.Put(n); err != nil {
		t.Fatal(err)
	}
	got, ok, err := b.Get(42)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != *n {
		t.Errorf("got %+v, want %+v", got, *n)
	}

	// Put replaces.
	n.Value = 0.75
	if err := b.Put(n); err != nil {
		t.Fatal(err)
	}
	got, _, _ = b.Get(42)
	if got.Value != 0.75 {
		t.Errorf("replace failed: %+v", got)
	}

	size, err := b.Size()
	if err != nil || size != 1 {
		t.Errorf("size=%d err=%v", size, err)
	}
}

func TestPutAll(t *testing.T) {
	b := open(t)
	var nodes []*Node
	for i := 0; i < 10; i++ {
		nodes = append(nodes, &Node{Hash: uint64(i), Value: float64(i) / 10})
	}
	if err := b.PutAll(nodes); err != nil {
		t.Fatal(err)
	}
	size, _ := b.Size()
	if size != 10 {
		t.Errorf("size=%d", size)
	}
}

func TestNodeScoring(t *testing.T) {
	leaf := Node{Value: 0.5}
	if !leaf.IsLeaf() {
		t.Error("count 0 should be a leaf")
	}
	win := Node{Value: WinValue}
	if !win.IsTerminal() {
		t.Error("win value should be terminal")
	}
	if InverseEval(0.5) != -0.5 {
		t.Error("inverse eval should negate")
	}
	// Terminal nodes get no exploration bonus.
	if win.Score(1.0) != InverseEval(WinValue) {
		t.Error("terminal score should not include the count bonus")
	}
	n := Node{Value: 0.0, Count: 9}
	want := math.Log(10)
	if got := n.Score(1.0); math.Abs(got-want) > 1e-9 {
		t.Errorf("score=%f, want %f", got, want)
	}
}

func TestBestMove(t *testing.T) {
	b := open(t)
	pos := hex.New(3)

	if m, err := b.BestMove(pos, hex.Black); err != nil || m != hex.NoCell {
		t.Fatalf("empty book should find no move: %v %v", m, err)
	}

	// Record two children; the one better for black (lower opponent
	// value) must win.
	good := hex.CellAt(1, 1, 3)
	bad := hex.CellAt(0, 0, 3)
	for _, c := range []struct {
		cell  hex.Cell
		value float64
	}{{good, -0.8}, {bad, 0.9}} {
		pos.Play(c.cell, hex.Black)
		if err := b.Put(&Node{Hash: pos.Hash(), Value: c.value}); err != nil {
			t.Fatal(err)
		}
		pos.Unplay(c.cell)
	}
	m, err := b.BestMove(pos, hex.Black)
	if err != nil {
		t.Fatal(err)
	}
	if m != good {
		t.Errorf("best move = %s, want b2", hex.FormatCell(m, 3))
	}

	d, err := b.MainLineDepth(pos, hex.Black)
	if err != nil || d < 1 {
		t.Errorf("main line depth = %d err=%v", d, err)
	}
}
