package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/hexforge/hexe/cmd/internal/analyze"
	"github.com/hexforge/hexe/cmd/internal/bookcmd"
	"github.com/hexforge/hexe/cmd/internal/htp"
	"github.com/hexforge/hexe/cmd/internal/serve"
	"github.com/hexforge/hexe/cmd/internal/solve"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&analyze.Command{}, "")
	subcommands.Register(&htp.Command{}, "")
	subcommands.Register(&solve.Command{}, "")
	subcommands.Register(&serve.Command{}, "")
	subcommands.Register(&bookcmd.Command{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
