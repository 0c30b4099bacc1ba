// Package book is the sqlite-backed opening book: a table of position
// values keyed by the position hash, with the usual expansion
// bookkeeping (visit count and expansion priority).
package book

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // book assumes sqlite

	"github.com/hexforge/hexe/hex"
)

const createNodeTable = `
CREATE TABLE IF NOT EXISTS nodes (
  hash integer not null primary key,
  value real not null,
  priority real not null,
  count integer not null
)`

const (
	// WinValue and LossValue bound the evaluation scale; anything at
	// or beyond them is a proven result.
	WinValue  = 1e6
	LossValue = -1e6
)

// Node is one book entry for a position.
type Node struct {
	Hash     uint64
	Value    float64
	Priority float64
	Count    int
}

func (n *Node) IsLeaf() bool { return n.Count == 0 }

func (n *Node) IsTerminal() bool {
	return n.Value >= WinValue || n.Value <= LossValue
}

// InverseEval flips an evaluation to the opponent's view.
func InverseEval(v float64) float64 {
	return -v
}

// Score orders candidate moves: the inverse child value plus an
// exploration bonus that grows with how often the child was visited.
func (n *Node) Score(countWeight float64) float64 {
	s := InverseEval(n.Value)
	if !n.IsTerminal() {
		s += math.Log(float64(n.Count)+1) * countWeight
	}
	return s
}

type Book struct {
	db     *sqlx.DB
	insert *sqlx.Stmt
}

func Open(path string) (*Book, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createNodeTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create node table: %w", err)
	}
	b := &Book{db: db}
	b.insert, err = db.Preparex(
		`INSERT OR REPLACE INTO nodes (hash, value, priority, count) VALUES (?,?,?,?)`)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("prepare: %w", err)
	}
	return b, nil
}

func (b *Book) Close() error {
	if b.insert != nil {
		b.insert.Close()
	}
	return b.db.Close()
}

// nodeRow is the sqlite shape of a Node; hashes are stored as the
// signed 64-bit integer sqlite natively holds.
type nodeRow struct {
	Hash     int64   `db:"hash"`
	Value    float64 `db:"value"`
	Priority float64 `db:"priority"`
	Count    int     `db:"count"`
}

func (b *Book) Get(hash uint64) (Node, bool, error) {
	var r nodeRow
	err := b.db.Get(&r, `SELECT hash, value, priority, count FROM nodes WHERE hash = ?`,
		int64(hash))
	if err == nil {
		return Node{
			Hash:     uint64(r.Hash),
			Value:    r.Value,
			Priority: r.Priority,
			Count:    r.Count,
		}, true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Node{}, false, nil
	}
	return Node{}, false, err
}

func (b *Book) Put(n *Node) error {
	_, err := b.insert.Exec(int64(n.Hash), n.Value, n.Priority, n.Count)
	return err
}

// PutAll writes nodes in one transaction.
func (b *Book) PutAll(nodes []*Node) error {
	txn, err := b.db.Beginx()
	if err != nil {
		return err
	}
	defer txn.Rollback()
	stmt := txn.Stmtx(b.insert)
	for _, n := range nodes {
		if _, err := stmt.Exec(int64(n.Hash), n.Value, n.Priority, n.Count); err != nil {
			return err
		}
	}
	return txn.Commit()
}

func (b *Book) Size() (int, error) {
	var n int
	err := b.db.Get(&n, `SELECT COUNT(*) FROM nodes`)
	return n, err
}

// BestMove walks the children of the position (every empty cell
// played as color) and returns the move leading to the child with the
// best inverse value, or NoCell if no child is in the book.
func (b *Book) BestMove(pos *hex.Position, color hex.Color) (hex.Cell, error) {
	best := hex.NoCell
	bestValue := math.Inf(-1)
	empty := pos.Empty()
	for i := empty.First(); i >= 0; i = empty.Next(i) {
		c := hex.Cell(i)
		pos.Play(c, color)
		n, ok, err := b.Get(pos.Hash())
		pos.Unplay(c)
		if err != nil {
			return hex.NoCell, err
		}
		if !ok {
			continue
		}
		if v := InverseEval(n.Value); v > bestValue {
			bestValue = v
			best = c
		}
	}
	return best, nil
}

// MainLineDepth reports how deep the book's best-move walk goes from
// the position.
func (b *Book) MainLineDepth(pos *hex.Position, color hex.Color) (int, error) {
	p := pos.Clone()
	depth := 0
	for {
		move, err := b.BestMove(p, color)
		if err != nil {
			return 0, err
		}
		if move == hex.NoCell {
			return depth, nil
		}
		p.Play(move, color)
		color = color.Flip()
		depth++
	}
}
