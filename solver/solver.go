// Package solver proves wins with the connection engine: a side has
// won once a full connection joins its two edges. Root solving tests
// the candidate moves of a position on independent copies in
// parallel; each worker owns its own builder and connection set, so a
// single build stays sequential.
package solver

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hexforge/hexe/hex"
	"github.com/hexforge/hexe/pattern"
	"github.com/hexforge/hexe/vc"
)

type Config struct {
	// Parallelism caps the workers testing root moves; zero means one
	// per move.
	Parallelism int
	// Params configures each worker's builder.
	Params vc.Params
	// Library overrides the compiled-in pattern library.
	Library *pattern.Library
}

type Stats struct {
	mu    sync.Mutex
	Nodes int
	Wins  int
}

type Solver struct {
	cfg   Config
	stats Stats
}

func New(cfg Config) *Solver {
	cfg.Params.AbortOnWinningConnection = true
	return &Solver{cfg: cfg}
}

func (s *Solver) Stats() (nodes, wins int) {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()
	return s.stats.Nodes, s.stats.Wins
}

// Winning reports whether color has a proven edge-to-edge connection
// on the position.
func (s *Solver) Winning(pos *hex.Position, color hex.Color) bool {
	builder := vc.NewBuilder(s.cfg.Params, s.cfg.Library)
	set := vc.NewSet(color)
	groups := hex.BuildGroups(pos)
	builder.BuildStatic(set, groups, builder.NewState(pos))
	s.stats.mu.Lock()
	s.stats.Nodes++
	s.stats.mu.Unlock()
	return set.Exists(hex.ColorEdge1(color), hex.ColorEdge2(color), vc.Full)
}

// SolveRoot returns every empty cell that, played by color, yields a
// proven connection between color's edges. Moves are tested
// concurrently on cloned positions.
func (s *Solver) SolveRoot(ctx context.Context, pos *hex.Position, color hex.Color) ([]hex.Cell, error) {
	empty := pos.Empty()
	var moves []hex.Cell
	for i := empty.First(); i >= 0; i = empty.Next(i) {
		moves = append(moves, hex.Cell(i))
	}

	winning := make([]bool, len(moves))
	g, ctx := errgroup.WithContext(ctx)
	if s.cfg.Parallelism > 0 {
		g.SetLimit(s.cfg.Parallelism)
	}
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := pos.Clone()
			p.Play(m, color)
			if s.Winning(p, color) {
				winning[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []hex.Cell
	for i := range moves {
		if winning[i] {
			out = append(out, moves[i])
		}
	}
	s.stats.mu.Lock()
	s.stats.Wins += len(out)
	s.stats.mu.Unlock()
	return out, nil
}
