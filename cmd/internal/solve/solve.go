// Package solve implements `hexe solve`: prove wins at the root of a
// position with the connection engine.
package solve

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/subcommands"

	"github.com/hexforge/hexe/cmd/internal/opt"
	"github.com/hexforge/hexe/hex"
	"github.com/hexforge/hexe/sgf"
	"github.com/hexforge/hexe/solver"
)

type Command struct {
	opt         opt.VC
	color       string
	parallelism int
}

func (*Command) Name() string     { return "solve" }
func (*Command) Synopsis() string { return "Find proven winning moves in a position" }
func (*Command) Usage() string {
	return `solve [options] FILE.sgf

Test every candidate move of the position for a proven edge-to-edge
connection after it is played.

`
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	c.opt.AddFlags(fs)
	fs.StringVar(&c.color, "color", "black", "color to solve for")
	fs.IntVar(&c.parallelism, "parallelism", 4, "concurrent root moves")
}

func (c *Command) Execute(ctx context.Context, fs *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	g, err := sgf.ParseFile(fs.Arg(0))
	if err != nil {
		log.Println("solve:", err)
		return subcommands.ExitFailure
	}
	pos, err := g.Position(0)
	if err != nil {
		log.Println("solve:", err)
		return subcommands.ExitFailure
	}
	color, err := hex.ParseColor(c.color)
	if err != nil {
		log.Println("solve:", err)
		return subcommands.ExitFailure
	}
	lib, err := c.opt.Library()
	if err != nil {
		log.Println("solve:", err)
		return subcommands.ExitFailure
	}

	s := solver.New(solver.Config{
		Parallelism: c.parallelism,
		Params:      c.opt.Params(),
		Library:     lib,
	})
	if s.Winning(pos, color) {
		fmt.Printf("%s is already connected\n", color)
		return subcommands.ExitSuccess
	}
	moves, err := s.SolveRoot(ctx, pos, color)
	if err != nil {
		log.Println("solve:", err)
		return subcommands.ExitFailure
	}
	nodes, wins := s.Stats()
	if len(moves) == 0 {
		fmt.Printf("no proven win (%d nodes)\n", nodes)
		return subcommands.ExitSuccess
	}
	for _, m := range moves {
		fmt.Println(hex.FormatCell(m, pos.Size()))
	}
	fmt.Printf("%d winning moves, %d nodes\n", wins, nodes)
	return subcommands.ExitSuccess
}
