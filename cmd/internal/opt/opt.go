// Package opt carries the builder flags shared by the hexe
// subcommands.
package opt

import (
	"flag"

	"github.com/hexforge/hexe/pattern"
	"github.com/hexforge/hexe/vc"
)

type VC struct {
	maxOrs      int
	andOverEdge bool
	patterns    bool
	nonEdge     bool
	greedy      bool
	abortOnWin  bool
	patternFile string
}

func (o *VC) AddFlags(fs *flag.FlagSet) {
	d := vc.DefaultParams()
	fs.IntVar(&o.maxOrs, "max-ors", d.MaxOrs, "OR rule depth bound; >=16 selects the enhanced algorithm")
	fs.BoolVar(&o.andOverEdge, "and-over-edge", d.AndOverEdge, "allow AND-closure through edges")
	fs.BoolVar(&o.patterns, "patterns", d.UsePatterns, "seed with VC patterns")
	fs.BoolVar(&o.nonEdge, "non-edge-patterns", d.UseNonEdgePatterns, "include patterns with no edge endpoint")
	fs.BoolVar(&o.greedy, "greedy-union", d.UseGreedyUnion, "greedy union for synthesized fulls")
	fs.BoolVar(&o.abortOnWin, "abort-on-win", d.AbortOnWinningConnection, "stop on an edge-to-edge connection")
	fs.StringVar(&o.patternFile, "pattern-file", "", "pattern library file (default: compiled in)")
}

func (o *VC) Params() vc.Params {
	return vc.Params{
		MaxOrs:                   o.maxOrs,
		AndOverEdge:              o.andOverEdge,
		UsePatterns:              o.patterns,
		UseNonEdgePatterns:       o.nonEdge,
		UseGreedyUnion:           o.greedy,
		AbortOnWinningConnection: o.abortOnWin,
	}
}

// Library loads the configured pattern file, or nil for the default.
func (o *VC) Library() (*pattern.Library, error) {
	if o.patternFile == "" {
		return nil, nil
	}
	return pattern.Load(o.patternFile)
}
