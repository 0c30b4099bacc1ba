// Package htp implements `hexe htp`: serve the text protocol on stdio
// or a TCP listener.
package htp

import (
	"context"
	"flag"
	"log"
	"net"
	"os"

	"github.com/google/subcommands"

	"github.com/hexforge/hexe/cmd/internal/opt"
	htpsrv "github.com/hexforge/hexe/htp"
)

type Command struct {
	opt  opt.VC
	addr string
}

func (*Command) Name() string     { return "htp" }
func (*Command) Synopsis() string { return "Serve the HTP protocol" }
func (*Command) Usage() string {
	return `htp [-addr host:port]

Serve HTP on stdin/stdout, or on a TCP listener with -addr. A GUI
such as HexGui drives the engine through this mode.

`
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	c.opt.AddFlags(fs)
	fs.StringVar(&c.addr, "addr", "", "listen on a TCP address instead of stdio")
}

func (c *Command) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	lib, err := c.opt.Library()
	if err != nil {
		log.Println("htp:", err)
		return subcommands.ExitFailure
	}
	if c.addr == "" {
		engine := htpsrv.NewEngine(os.Stdin, os.Stdout)
		engine.Params = c.opt.Params()
		engine.Library = lib
		if err := engine.Run(ctx); err != nil {
			log.Println("htp:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	ln, err := net.Listen("tcp", c.addr)
	if err != nil {
		log.Println("htp:", err)
		return subcommands.ExitFailure
	}
	defer ln.Close()
	log.Printf("htp listening on %s", c.addr)
	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Println("htp accept:", err)
			return subcommands.ExitFailure
		}
		go func() {
			defer conn.Close()
			engine := htpsrv.NewEngine(conn, conn)
			engine.Params = c.opt.Params()
			engine.Library = lib
			if err := engine.Run(ctx); err != nil {
				log.Println("htp session:", err)
			}
		}()
	}
}
