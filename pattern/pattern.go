// Package pattern implements the pattern libraries consumed by the VC
// engine: captured-set patterns, which mark cells the opponent is
// forced into when a cell is played, and VC patterns, which seed the
// builder with precomputed connections such as the bridge.
//
// Patterns are written in Black's frame (Black connects North and
// South). Matching for White transposes the frame, which maps North
// to West and South to East.
package pattern

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type Kind uint8

const (
	// KindVC patterns yield a full connection between two endpoints.
	KindVC Kind = iota
	// KindCaptured patterns yield the captured set of the anchor cell.
	KindCaptured
)

type Role uint8

const (
	// RoleEndpoint marks a VC endpoint; the entry at offset (0,0) is
	// the anchor.
	RoleEndpoint Role = iota
	// RoleCarrier cells must be empty; they form the match's carrier
	// or captured set.
	RoleCarrier
	// RoleOwn cells must hold an own stone. Off-board offsets beyond
	// an own edge also satisfy RoleOwn.
	RoleOwn
	// RoleEmpty cells must be empty but are not part of the carrier.
	RoleEmpty
)

type Entry struct {
	DX, DY int
	Role   Role
}

// EdgeKind names the frame edge a VC pattern connects to, if any.
type EdgeKind uint8

const (
	EdgeNone EdgeKind = iota
	EdgeNorth
	EdgeSouth
)

type Pattern struct {
	Name  string
	Kind  Kind
	Edge  EdgeKind
	Cells []Entry
}

// HasEdgeEndpoint reports whether the pattern connects to an edge.
func (p *Pattern) HasEdgeEndpoint() bool { return p.Edge != EdgeNone }

// Library holds the parsed pattern sets.
type Library struct {
	VC       []Pattern
	Captured []Pattern
}

// Load reads a library from a file. A missing or malformed file is an
// error carrying the path; the engine cannot run without its
// captured-set patterns.
func Load(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pattern library %s: %w", path, err)
	}
	defer f.Close()
	lib, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("pattern library %s: %w", path, err)
	}
	return lib, nil
}

// Default returns the compiled-in library.
func Default() *Library {
	lib, err := Parse(strings.NewReader(defaultLibrary))
	if err != nil {
		panic(fmt.Sprintf("builtin pattern library: %v", err))
	}
	return lib
}

// Parse reads the line format:
//
//	pattern NAME vc|captured
//	cell DX DY endpoint|carrier|own|empty
//	edge north|south
//	end
//
// Blank lines and #-comments are ignored.
func Parse(r io.Reader) (*Library, error) {
	lib := &Library{}
	var cur *Pattern
	scan := bufio.NewScanner(r)
	line := 0
	for scan.Scan() {
		line++
		text := strings.TrimSpace(scan.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		words := strings.Fields(text)
		switch words[0] {
		case "pattern":
			if cur != nil {
				return nil, fmt.Errorf("line %d: pattern inside pattern", line)
			}
			if len(words) != 3 {
				return nil, fmt.Errorf("line %d: want `pattern NAME KIND`", line)
			}
			cur = &Pattern{Name: words[1]}
			switch words[2] {
			case "vc":
				cur.Kind = KindVC
			case "captured":
				cur.Kind = KindCaptured
			default:
				return nil, fmt.Errorf("line %d: bad kind %q", line, words[2])
			}
		case "cell":
			if cur == nil {
				return nil, fmt.Errorf("line %d: cell outside pattern", line)
			}
			if len(words) != 4 {
				return nil, fmt.Errorf("line %d: want `cell DX DY ROLE`", line)
			}
			dx, err1 := strconv.Atoi(words[1])
			dy, err2 := strconv.Atoi(words[2])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: bad offset", line)
			}
			var role Role
			switch words[3] {
			case "endpoint":
				role = RoleEndpoint
			case "carrier":
				role = RoleCarrier
			case "own":
				role = RoleOwn
			case "empty":
				role = RoleEmpty
			default:
				return nil, fmt.Errorf("line %d: bad role %q", line, words[3])
			}
			cur.Cells = append(cur.Cells, Entry{DX: dx, DY: dy, Role: role})
		case "edge":
			if cur == nil || len(words) != 2 {
				return nil, fmt.Errorf("line %d: bad edge line", line)
			}
			switch words[1] {
			case "north":
				cur.Edge = EdgeNorth
			case "south":
				cur.Edge = EdgeSouth
			default:
				return nil, fmt.Errorf("line %d: bad edge %q", line, words[1])
			}
		case "end":
			if cur == nil {
				return nil, fmt.Errorf("line %d: end outside pattern", line)
			}
			if err := cur.check(); err != nil {
				return nil, fmt.Errorf("pattern %s: %w", cur.Name, err)
			}
			if cur.Kind == KindVC {
				lib.VC = append(lib.VC, *cur)
			} else {
				lib.Captured = append(lib.Captured, *cur)
			}
			cur = nil
		default:
			return nil, fmt.Errorf("line %d: unknown directive %q", line, words[0])
		}
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}
	if cur != nil {
		return nil, fmt.Errorf("pattern %s: missing end", cur.Name)
	}
	return lib, nil
}

func (p *Pattern) check() error {
	endpoints := 0
	anchored := false
	for _, e := range p.Cells {
		if e.Role == RoleEndpoint {
			endpoints++
			if e.DX == 0 && e.DY == 0 {
				anchored = true
			}
		}
	}
	switch p.Kind {
	case KindVC:
		want := 2
		if p.Edge != EdgeNone {
			want = 1
		}
		if endpoints != want || !anchored {
			return fmt.Errorf("vc pattern needs %d endpoints anchored at 0 0", want)
		}
	case KindCaptured:
		if endpoints != 1 || !anchored || p.Edge != EdgeNone {
			return fmt.Errorf("captured pattern needs one endpoint at 0 0")
		}
	}
	return nil
}

// The shipped library: the interior bridge and its two edge variants,
// and the enclosed-cell captured patterns. Larger libraries load from
// files in the same format.
const defaultLibrary = `
# Interior bridge: the endpoints share two empty neighbors.
pattern bridge vc
cell 0 0 endpoint
cell 1 1 endpoint
cell 1 0 carrier
cell 0 1 carrier
end

# Second-row cell bridged to the near edge.
pattern bridge-north vc
edge north
cell 0 0 endpoint
cell 0 -1 carrier
cell 1 -1 carrier
end

pattern bridge-south vc
edge south
cell 0 0 endpoint
cell 0 1 carrier
cell -1 1 carrier
end

# A cell whose every neighbor is own (counting own edges) after the
# anchor is played is dead, hence captured.
pattern enclosed-e captured
cell 0 0 endpoint
cell 1 0 carrier
cell 2 0 own
cell 1 -1 own
cell 2 -1 own
cell 1 1 own
cell 0 1 own
end

pattern enclosed-w captured
cell 0 0 endpoint
cell -1 0 carrier
cell -2 0 own
cell -1 -1 own
cell 0 -1 own
cell -2 1 own
cell -1 1 own
end
`
