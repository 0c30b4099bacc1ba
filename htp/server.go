// Package htp serves the engine's text protocol: GTP-style framed
// commands over a reader/writer pair, the way HexGui and scripted
// front-ends drive a Hex engine.
package htp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/hexforge/hexe/bitset"
	"github.com/hexforge/hexe/book"
	"github.com/hexforge/hexe/hex"
	"github.com/hexforge/hexe/pattern"
	"github.com/hexforge/hexe/sgf"
	"github.com/hexforge/hexe/solver"
	"github.com/hexforge/hexe/vc"
)

const (
	Name            = "Hexe"
	Version         = "0.9"
	ProtocolVersion = "2"
)

type move struct {
	cell  hex.Cell
	color hex.Color
}

type Engine struct {
	// Params configures the connection builder; set before Run.
	Params vc.Params
	// Library overrides the compiled-in pattern library.
	Library *pattern.Library

	in  *bufio.Reader
	out io.Writer

	size    int
	pos     *hex.Position
	history []move

	builder *vc.Builder
	sets    [3]*vc.Set
	built   [3]bool

	book *book.Book

	commands map[string]func(args []string) (string, error)
	quit     bool
}

func NewEngine(in io.Reader, out io.Writer) *Engine {
	e := &Engine{
		Params: vc.DefaultParams(),
		in:     bufio.NewReader(in),
		out:    out,
		size:   11,
	}
	e.pos = hex.New(e.size)
	e.commands = map[string]func(args []string) (string, error){
		"name":             e.cmdName,
		"version":          e.cmdVersion,
		"protocol_version": e.cmdProtocolVersion,
		"list_commands":    e.cmdListCommands,
		"quit":             e.cmdQuit,
		"boardsize":        e.cmdBoardsize,
		"clear_board":      e.cmdClearBoard,
		"play":             e.cmdPlay,
		"undo":             e.cmdUndo,
		"showboard":        e.cmdShowboard,
		"group-get":        e.cmdGroupGet,
		"vc-build":         e.cmdVCBuild,
		"vc-between":       e.cmdVCBetween,
		"vc-connected-to":  e.cmdVCConnectedTo,
		"loadsgf":          e.cmdLoadSGF,
		"book-open":        e.cmdBookOpen,
		"book-best":        e.cmdBookBest,
		"solve":            e.cmdSolve,
	}
	return e
}

// Run reads commands until EOF, quit, or context cancellation.
// Responses use GTP framing: "= result" on success, "? message" on
// error, each terminated by a blank line.
func (e *Engine) Run(ctx context.Context) error {
	for !e.quit {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := e.in.ReadString('\n')
		if err == io.EOF {
			if line == "" {
				return nil
			}
		} else if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			if err == io.EOF {
				return nil
			}
			continue
		}
		words := strings.Fields(line)
		id := ""
		if _, convErr := strconv.Atoi(words[0]); convErr == nil {
			id = words[0]
			words = words[1:]
		}
		if len(words) == 0 {
			e.respondErr(id, errors.New("empty command"))
			continue
		}
		cmd, ok := e.commands[words[0]]
		if !ok {
			e.respondErr(id, fmt.Errorf("unknown command: %q", words[0]))
			continue
		}
		result, cmdErr := cmd(words[1:])
		if cmdErr != nil {
			e.respondErr(id, cmdErr)
		} else {
			fmt.Fprintf(e.out, "=%s %s\n\n", id, result)
		}
		if err == io.EOF {
			return nil
		}
	}
	return nil
}

func (e *Engine) respondErr(id string, err error) {
	fmt.Fprintf(e.out, "?%s %s\n\n", id, err)
}

func (e *Engine) invalidate() {
	e.built = [3]bool{}
}

func (e *Engine) cmdName([]string) (string, error)    { return Name, nil }
func (e *Engine) cmdVersion([]string) (string, error) { return Version, nil }
func (e *Engine) cmdProtocolVersion([]string) (string, error) {
	return ProtocolVersion, nil
}

func (e *Engine) cmdListCommands([]string) (string, error) {
	var names []string
	for name := range e.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "\n"), nil
}

func (e *Engine) cmdQuit([]string) (string, error) {
	e.quit = true
	return "", nil
}

func (e *Engine) cmdBoardsize(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("boardsize: want N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 3 || n > hex.MaxSize {
		return "", fmt.Errorf("bad size: %s", args[0])
	}
	e.size = n
	e.pos = hex.New(n)
	e.history = nil
	e.invalidate()
	return "", nil
}

func (e *Engine) cmdClearBoard([]string) (string, error) {
	e.pos = hex.New(e.size)
	e.history = nil
	e.invalidate()
	return "", nil
}

func (e *Engine) cmdPlay(args []string) (string, error) {
	if len(args) != 2 {
		return "", errors.New("play: want COLOR CELL")
	}
	color, err := hex.ParseColor(args[0])
	if err != nil {
		return "", err
	}
	cell, err := hex.ParseCell(args[1], e.size)
	if err != nil {
		return "", err
	}
	if cell.IsEdge() {
		return "", errors.New("cannot play an edge")
	}
	if e.pos.At(cell) != hex.Empty {
		return "", fmt.Errorf("cell %s occupied", args[1])
	}
	e.pos.Play(cell, color)
	e.history = append(e.history, move{cell: cell, color: color})
	e.invalidate()
	return "", nil
}

func (e *Engine) cmdUndo([]string) (string, error) {
	if len(e.history) == 0 {
		return "", errors.New("nothing to undo")
	}
	last := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	e.pos.Unplay(last.cell)
	e.invalidate()
	return "", nil
}

func (e *Engine) cmdShowboard([]string) (string, error) {
	return "\n" + strings.TrimSuffix(e.pos.String(), "\n"), nil
}

func (e *Engine) cmdGroupGet(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("group-get: want CELL")
	}
	cell, err := hex.ParseCell(args[0], e.size)
	if err != nil {
		return "", err
	}
	g := hex.BuildGroups(e.pos).Group(cell)
	return e.formatCells(g.Members), nil
}

func (e *Engine) ensureBuilder() *vc.Builder {
	if e.builder == nil {
		e.builder = vc.NewBuilder(e.Params, e.Library)
	}
	return e.builder
}

func (e *Engine) buildFor(color hex.Color) *vc.Set {
	b := e.ensureBuilder()
	if e.sets[color] == nil {
		e.sets[color] = vc.NewSet(color)
	}
	if !e.built[color] {
		groups := hex.BuildGroups(e.pos)
		b.BuildStatic(e.sets[color], groups, b.NewState(e.pos))
		e.built[color] = true
	}
	return e.sets[color]
}

func (e *Engine) cmdVCBuild(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("vc-build: want COLOR")
	}
	color, err := hex.ParseColor(args[0])
	if err != nil {
		return "", err
	}
	e.built[color] = false
	e.buildFor(color)
	return e.ensureBuilder().Stats(color).String(), nil
}

func parseVCType(s string) (vc.Type, error) {
	switch s {
	case "full", "0":
		return vc.Full, nil
	case "semi", "1":
		return vc.Semi, nil
	}
	return vc.Full, fmt.Errorf("bad vc type: %q", s)
}

func (e *Engine) cmdVCBetween(args []string) (string, error) {
	if len(args) < 3 {
		return "", errors.New("vc-between: want COLOR X Y [full|semi]")
	}
	color, err := hex.ParseColor(args[0])
	if err != nil {
		return "", err
	}
	x, err := hex.ParseCell(args[1], e.size)
	if err != nil {
		return "", err
	}
	y, err := hex.ParseCell(args[2], e.size)
	if err != nil {
		return "", err
	}
	t := vc.Full
	if len(args) > 3 {
		if t, err = parseVCType(args[3]); err != nil {
			return "", err
		}
	}
	set := e.buildFor(color)
	groups := hex.BuildGroups(e.pos)
	list := set.Lookup(t, groups.CaptainOf(x), groups.CaptainOf(y))
	if list == nil || list.Len() == 0 {
		return "", nil
	}
	var sb strings.Builder
	for i, v := range list.VCs() {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s %s %s [%s]", v.Type, v.Rule,
			e.formatCells(v.Carrier), keyString(v, e.size))
	}
	return sb.String(), nil
}

func keyString(v vc.VC, size int) string {
	if v.Type != vc.Semi {
		return "-"
	}
	return hex.FormatCell(v.Key, size)
}

func (e *Engine) cmdVCConnectedTo(args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New("vc-connected-to: want CELL COLOR [full|semi]")
	}
	cell, err := hex.ParseCell(args[0], e.size)
	if err != nil {
		return "", err
	}
	color, err := hex.ParseColor(args[1])
	if err != nil {
		return "", err
	}
	t := vc.Full
	if len(args) > 2 {
		if t, err = parseVCType(args[2]); err != nil {
			return "", err
		}
	}
	set := e.buildFor(color)
	groups := hex.BuildGroups(e.pos)
	captain := groups.CaptainOf(cell)
	var out []string
	caps := groups.Captains()
	for i := caps.First(); i >= 0; i = caps.Next(i) {
		other := hex.Cell(i)
		if other != captain && set.Exists(captain, other, t) {
			out = append(out, hex.FormatCell(other, e.size))
		}
	}
	return strings.Join(out, " "), nil
}

func (e *Engine) cmdLoadSGF(args []string) (string, error) {
	if len(args) < 1 {
		return "", errors.New("loadsgf: want FILE [MOVE]")
	}
	g, err := sgf.ParseFile(args[0])
	if err != nil {
		return "", err
	}
	upTo := 0
	if len(args) > 1 {
		if upTo, err = strconv.Atoi(args[1]); err != nil {
			return "", fmt.Errorf("bad move number: %s", args[1])
		}
	}
	pos, err := g.Position(upTo)
	if err != nil {
		return "", err
	}
	e.size = g.Size
	e.pos = pos
	e.history = nil
	e.invalidate()
	return "", nil
}

func (e *Engine) cmdBookOpen(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("book-open: want FILE")
	}
	b, err := book.Open(args[0])
	if err != nil {
		return "", err
	}
	if e.book != nil {
		e.book.Close()
	}
	e.book = b
	n, err := b.Size()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d nodes", n), nil
}

func (e *Engine) cmdBookBest(args []string) (string, error) {
	if e.book == nil {
		return "", errors.New("no book open")
	}
	if len(args) != 1 {
		return "", errors.New("book-best: want COLOR")
	}
	color, err := hex.ParseColor(args[0])
	if err != nil {
		return "", err
	}
	m, err := e.book.BestMove(e.pos, color)
	if err != nil {
		return "", err
	}
	if m == hex.NoCell {
		return "", errors.New("position not in book")
	}
	return hex.FormatCell(m, e.size), nil
}

func (e *Engine) cmdSolve(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("solve: want COLOR")
	}
	color, err := hex.ParseColor(args[0])
	if err != nil {
		return "", err
	}
	s := solver.New(solver.Config{Params: e.Params, Library: e.Library})
	if s.Winning(e.pos, color) {
		return "proven", nil
	}
	return "unknown", nil
}

func (e *Engine) formatCells(s bitset.Set) string {
	var out []string
	for i := s.First(); i >= 0; i = s.Next(i) {
		out = append(out, hex.FormatCell(hex.Cell(i), e.size))
	}
	return strings.Join(out, " ")
}
