// Package analyze implements `hexe analyze`: build the connection set
// for a position and print what joins the player's edges.
package analyze

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/subcommands"

	"github.com/hexforge/hexe/cmd/internal/opt"
	"github.com/hexforge/hexe/hex"
	"github.com/hexforge/hexe/sgf"
	"github.com/hexforge/hexe/vc"
)

type Command struct {
	opt   opt.VC
	color string
	size  int
	moves string
	all   bool
}

func (*Command) Name() string     { return "analyze" }
func (*Command) Synopsis() string { return "Build virtual connections for a position" }
func (*Command) Usage() string {
	return `analyze [options] [FILE.sgf]

Build the connection set for a position given as an SGF file or a
-moves list, and print the connections between the color's edges.

`
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	c.opt.AddFlags(fs)
	fs.StringVar(&c.color, "color", "black", "color to build for")
	fs.IntVar(&c.size, "size", 11, "board size when no SGF file is given")
	fs.StringVar(&c.moves, "moves", "", "moves as `b:a1,w:b2,...`")
	fs.BoolVar(&c.all, "all", false, "print every endpoint pair, not just edge to edge")
}

func (c *Command) Execute(_ context.Context, fs *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	pos, err := c.position(fs.Arg(0))
	if err != nil {
		log.Println("analyze:", err)
		return subcommands.ExitFailure
	}
	color, err := hex.ParseColor(c.color)
	if err != nil {
		log.Println("analyze:", err)
		return subcommands.ExitFailure
	}
	lib, err := c.opt.Library()
	if err != nil {
		log.Println("analyze:", err)
		return subcommands.ExitFailure
	}

	builder := vc.NewBuilder(c.opt.Params(), lib)
	set := vc.NewSet(color)
	groups := hex.BuildGroups(pos)
	builder.BuildStatic(set, groups, builder.NewState(pos))

	fmt.Print(pos.String())
	fmt.Println(builder.Stats(color).String())

	size := pos.Size()
	report := func(l *vc.List) {
		for _, v := range l.VCs() {
			var cells []string
			for i := v.Carrier.First(); i >= 0; i = v.Carrier.Next(i) {
				cells = append(cells, hex.FormatCell(hex.Cell(i), size))
			}
			fmt.Printf("%s %s-%s %s [%s]\n", v.Type,
				hex.FormatCell(v.X, size), hex.FormatCell(v.Y, size),
				v.Rule, strings.Join(cells, " "))
		}
	}
	if c.all {
		set.Lists(vc.Full, report)
		set.Lists(vc.Semi, report)
	} else {
		e1, e2 := hex.ColorEdge1(color), hex.ColorEdge2(color)
		for _, t := range []vc.Type{vc.Full, vc.Semi} {
			if l := set.Lookup(t, e1, e2); l != nil {
				report(l)
			}
		}
		if set.Exists(e1, e2, vc.Full) {
			fmt.Printf("%s is connected\n", color)
		}
	}
	return subcommands.ExitSuccess
}

func (c *Command) position(file string) (*hex.Position, error) {
	if file != "" {
		g, err := sgf.ParseFile(file)
		if err != nil {
			return nil, err
		}
		return g.Position(0)
	}
	pos := hex.New(c.size)
	if c.moves == "" {
		return pos, nil
	}
	for _, tok := range strings.Split(c.moves, ",") {
		parts := strings.SplitN(strings.TrimSpace(tok), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad move %q", tok)
		}
		color, err := hex.ParseColor(parts[0])
		if err != nil {
			return nil, err
		}
		cell, err := hex.ParseCell(parts[1], c.size)
		if err != nil {
			return nil, err
		}
		pos.Play(cell, color)
	}
	return pos, nil
}
