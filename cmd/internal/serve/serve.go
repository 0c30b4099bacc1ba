// Package serve implements `hexe serve`: the websocket analysis feed.
package serve

import (
	"context"
	"flag"
	"log"

	"github.com/google/subcommands"

	"github.com/hexforge/hexe/cmd/internal/opt"
	"github.com/hexforge/hexe/web"
)

type Command struct {
	opt  opt.VC
	addr string
}

func (*Command) Name() string     { return "serve" }
func (*Command) Synopsis() string { return "Serve the live analysis feed" }
func (*Command) Usage() string {
	return `serve [-addr host:port]

Serve a websocket feed at /ws that analyzes positions as they are
played and a health check at /health.

`
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	c.opt.AddFlags(fs)
	fs.StringVar(&c.addr, "addr", "localhost:8098", "listen address")
}

func (c *Command) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	lib, err := c.opt.Library()
	if err != nil {
		log.Println("serve:", err)
		return subcommands.ExitFailure
	}
	srv := web.NewServer(c.opt.Params(), lib)
	if err := srv.ListenAndServe(c.addr); err != nil {
		log.Println("serve:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
