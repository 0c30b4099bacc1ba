package vc

import "github.com/hexforge/hexe/hex"

// The work queues are append-only vectors with a head cursor, so the
// hot path never allocates per element.

type fullQueue struct {
	head int
	vcs  []VC
}

func (q *fullQueue) empty() bool { return q.head == len(q.vcs) }

func (q *fullQueue) push(v VC) { q.vcs = append(q.vcs, v) }

func (q *fullQueue) pop() VC {
	v := q.vcs[q.head]
	q.head++
	return v
}

func (q *fullQueue) clear() {
	q.vcs = q.vcs[:0]
	q.head = 0
}

type cellPair struct {
	x, y hex.Cell
}

// pairQueue holds endpoint pairs whose semi list may admit an OR
// combination. A pair is present at most once between push and pop;
// without that guard the fixed point need not terminate.
type pairQueue struct {
	head  int
	pairs []cellPair
	seen  [hex.MaxCells][hex.MaxCells]bool
}

func (q *pairQueue) empty() bool { return q.head == len(q.pairs) }

func (q *pairQueue) push(x, y hex.Cell) {
	if x > y {
		x, y = y, x
	}
	if !q.seen[x][y] {
		q.seen[x][y] = true
		q.pairs = append(q.pairs, cellPair{x, y})
	}
}

func (q *pairQueue) pop() (hex.Cell, hex.Cell) {
	p := q.pairs[q.head]
	q.head++
	q.seen[p.x][p.y] = false
	return p.x, p.y
}

func (q *pairQueue) clear() {
	q.pairs = q.pairs[:0]
	q.head = 0
	q.seen = [hex.MaxCells][hex.MaxCells]bool{}
}
