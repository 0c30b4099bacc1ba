// Package bookcmd implements `hexe book`: inspect and query the
// opening book database.
package bookcmd

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/subcommands"

	"github.com/hexforge/hexe/book"
	"github.com/hexforge/hexe/hex"
	"github.com/hexforge/hexe/sgf"
)

type Command struct {
	db    string
	color string
}

func (*Command) Name() string     { return "book" }
func (*Command) Synopsis() string { return "Inspect the opening book" }
func (*Command) Usage() string {
	return `book -db FILE [size | best FILE.sgf | depth FILE.sgf]

size   print the node count
best   print the book move for the position
depth  print how deep the book's main line runs

`
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.db, "db", "book.db", "book database file")
	fs.StringVar(&c.color, "color", "black", "color to move")
}

func (c *Command) Execute(_ context.Context, fs *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	b, err := book.Open(c.db)
	if err != nil {
		log.Println("book:", err)
		return subcommands.ExitFailure
	}
	defer b.Close()

	switch fs.Arg(0) {
	case "", "size":
		n, err := b.Size()
		if err != nil {
			log.Println("book:", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%d nodes\n", n)
	case "best", "depth":
		pos, color, err := c.position(fs.Arg(1))
		if err != nil {
			log.Println("book:", err)
			return subcommands.ExitFailure
		}
		if fs.Arg(0) == "best" {
			m, err := b.BestMove(pos, color)
			if err != nil {
				log.Println("book:", err)
				return subcommands.ExitFailure
			}
			if m == hex.NoCell {
				fmt.Println("not in book")
			} else {
				fmt.Println(hex.FormatCell(m, pos.Size()))
			}
		} else {
			d, err := b.MainLineDepth(pos, color)
			if err != nil {
				log.Println("book:", err)
				return subcommands.ExitFailure
			}
			fmt.Printf("main line depth %d\n", d)
		}
	default:
		log.Printf("book: unknown subcommand %q", fs.Arg(0))
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

func (c *Command) position(file string) (*hex.Position, hex.Color, error) {
	color, err := hex.ParseColor(c.color)
	if err != nil {
		return nil, color, err
	}
	if file == "" {
		return hex.New(11), color, nil
	}
	g, err := sgf.ParseFile(file)
	if err != nil {
		return nil, color, err
	}
	pos, err := g.Position(0)
	return pos, color, err
}
